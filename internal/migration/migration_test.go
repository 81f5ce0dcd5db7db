package migration

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"devmarket/internal/model"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestRunAppliesHistoryOnce(t *testing.T) {
	db := openDB(t)

	require.NoError(t, Run(db))
	versions, err := Applied(db)
	require.NoError(t, err)
	require.Len(t, versions, len(History))
	assert.Equal(t, History[0].Version, versions[0])

	for _, table := range []interface{}{&model.User{}, &model.Product{}, &model.Transaction{}, &model.SourceAccessRequest{}, &model.Message{}, &model.PaymentMethod{}, &model.Setting{}} {
		assert.True(t, db.Migrator().HasTable(table))
	}

	// second run is a no-op
	require.NoError(t, Run(db))
	versions, err = Applied(db)
	require.NoError(t, err)
	assert.Len(t, versions, len(History))
}

func TestFailedStepIsNotRecorded(t *testing.T) {
	db := openDB(t)

	steps := []Migration{
		{Version: "0001_ok", Up: func(tx *gorm.DB) error { return tx.AutoMigrate(&model.Setting{}) }},
		{Version: "0002_broken", Up: func(tx *gorm.DB) error { return errors.New("boom") }},
	}
	err := apply(db, steps)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0002_broken")

	versions, err := Applied(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_ok"}, versions)
}
