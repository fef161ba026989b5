package repository

import (
	"context"
	"meal_streak_backend/internal/model"

	"gorm.io/gorm"
)

type SettingsRepository struct {
	DB *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{DB: db}
}

func (r *SettingsRepository) Get(ctx context.Context) (*model.DaySettings, error) {
	var settings model.DaySettings
	err := r.DB.WithContext(ctx).First(&settings, model.DaySettingsID).Error
	if err != nil {
		return nil, translate("get day settings", err)
	}
	return &settings, nil
}

func (r *SettingsRepository) Save(ctx context.Context, settings *model.DaySettings) error {
	settings.ID = model.DaySettingsID
	return translate("save day settings", r.DB.WithContext(ctx).Save(settings).Error)
}
