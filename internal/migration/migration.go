package migration

import (
	"fmt"
	"log"
	"time"

	"devmarket/internal/model"

	"gorm.io/gorm"
)

// SchemaMigration records one applied schema version
type SchemaMigration struct {
	Version   string    `gorm:"type:varchar(100);primaryKey"`
	AppliedAt time.Time `gorm:"not null"`
}

// Migration is one step of the schema history. Versions sort lexically.
type Migration struct {
	Version string
	Up      func(tx *gorm.DB) error
}

// History is the ordered, append-only list of schema changes.
// Never edit an applied step; add a new one.
var History = []Migration{
	{
		Version: "0001_users_categories_products",
		Up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&model.User{}, &model.Category{}, &model.Product{})
		},
	},
	{
		Version: "0002_transactions",
		Up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&model.Transaction{})
		},
	},
	{
		Version: "0003_source_access_requests",
		Up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&model.SourceAccessRequest{})
		},
	},
	{
		Version: "0004_messages",
		Up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&model.Message{})
		},
	},
	{
		Version: "0005_payment_methods",
		Up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&model.PaymentMethod{})
		},
	},
	{
		Version: "0006_settings",
		Up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&model.Setting{})
		},
	},
}

// Run applies every migration of History that has not been applied yet
func Run(db *gorm.DB) error {
	return apply(db, History)
}

func apply(db *gorm.DB, steps []Migration) error {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied, err := Applied(db)
	if err != nil {
		return err
	}
	done := make(map[string]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	for _, m := range steps {
		if done[m.Version] {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{Version: m.Version, AppliedAt: time.Now()}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %s: %w", m.Version, err)
		}
		log.Printf("Applied migration %s", m.Version)
	}
	return nil
}

// Applied returns the versions already recorded, oldest first
func Applied(db *gorm.DB) ([]string, error) {
	var versions []string
	err := db.Model(&SchemaMigration{}).Order("version ASC").Pluck("version", &versions).Error
	return versions, err
}
