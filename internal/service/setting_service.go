package service

import (
	"fmt"
	"time"

	"devmarket/internal/model"
	"devmarket/internal/repository"
)

type SettingService interface {
	GetAll() (map[string]string, error)
	Update(values map[string]string, actor model.Actor) (map[string]string, error)
}

type settingService struct {
	settingRepo repository.SettingRepository
}

func NewSettingService(settingRepo repository.SettingRepository) SettingService {
	return &settingService{settingRepo: settingRepo}
}

func (s *settingService) GetAll() (map[string]string, error) {
	settings, err := s.settingRepo.FindAll()
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(settings))
	for _, setting := range settings {
		values[setting.Key] = setting.Value
	}
	return values, nil
}

// Update writes every value in one statement. Unknown keys reject the whole batch.
func (s *settingService) Update(values map[string]string, actor model.Actor) (map[string]string, error) {
	now := time.Now()
	settings := make([]model.Setting, 0, len(values))
	for key, value := range values {
		if !knownSetting(key) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSetting, key)
		}
		settings = append(settings, model.Setting{
			Key:       key,
			Value:     value,
			UpdatedAt: now,
			UpdatedBy: actor.AuditName(),
		})
	}

	if err := s.settingRepo.Upsert(settings); err != nil {
		return nil, err
	}
	return s.GetAll()
}

func knownSetting(key string) bool {
	for _, d := range model.DefaultSettings {
		if d.Key == key {
			return true
		}
	}
	return false
}
