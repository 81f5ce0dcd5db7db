package repository

import (
	"devmarket/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	FindAll() ([]model.Setting, error)
	Get(key string) (*model.Setting, error)
	Upsert(settings []model.Setting) error
	SeedDefaults() error
}

type settingRepo struct {
	db *gorm.DB
}

func NewSettingRepo(db *gorm.DB) SettingRepository {
	return &settingRepo{db}
}

func (r *settingRepo) FindAll() ([]model.Setting, error) {
	var settings []model.Setting
	err := r.db.Order("key ASC").Find(&settings).Error
	return settings, err
}

func (r *settingRepo) Get(key string) (*model.Setting, error) {
	var setting model.Setting
	if err := r.db.Where("key = ?", key).First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepo) Upsert(settings []model.Setting) error {
	if len(settings) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at", "updated_by"}),
	}).Create(&settings).Error
}

// SeedDefaults inserts missing default settings without touching existing ones
func (r *settingRepo) SeedDefaults() error {
	defaults := make([]model.Setting, len(model.DefaultSettings))
	copy(defaults, model.DefaultSettings)
	for i := range defaults {
		defaults[i].UpdatedBy = "system"
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&defaults).Error
}
