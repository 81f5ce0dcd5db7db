// Package testutil opens throwaway databases migrated with the production
// schema history and seeds the fixtures the service tests share.
package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"devmarket/internal/migration"
	"devmarket/internal/model"
)

// NewDB returns an in-memory SQLite database with every migration applied.
// The pool is limited to one connection so the in-memory schema survives;
// code running inside a transaction must only use the tx handle.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, migration.Run(db))
	return db
}

// CreateUser inserts an active user with password "secret123"
func CreateUser(t *testing.T, db *gorm.DB, username string, role model.Role) *model.User {
	t.Helper()

	u := &model.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: username,
		Status:   model.UserActive,
	}
	u.ApplyRole(role)
	if role == model.RoleSeller {
		u.Approval = model.ApprovalYes
	}
	require.NoError(t, u.SetPassword("secret123"))
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateCategory(t *testing.T, db *gorm.DB, name string) *model.Category {
	t.Helper()

	c := &model.Category{Name: name}
	require.NoError(t, db.Create(c).Error)
	return c
}

// CreateProduct inserts a product owned by seller with the given price and status
func CreateProduct(t *testing.T, db *gorm.DB, seller *model.User, category *model.Category, name string, price int64, status model.ProductStatus) *model.Product {
	t.Helper()

	p := &model.Product{
		Name:       name,
		Price:      decimal.NewFromInt(price),
		Status:     status,
		CategoryID: category.ID,
		SellerID:   seller.ID,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}
