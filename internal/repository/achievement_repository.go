package repository

import (
	"context"
	"meal_streak_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

func (r *AchievementRepository) WithTx(tx *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: tx}
}

func (r *AchievementRepository) List(ctx context.Context) ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.DB.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&achievements).Error
	if err != nil {
		return nil, translate("list achievements", err)
	}
	return achievements, nil
}

func (r *AchievementRepository) FindByID(ctx context.Context, id string) (*model.Achievement, error) {
	var achievement model.Achievement
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&achievement).Error
	if err != nil {
		return nil, translate("find achievement", err)
	}
	return &achievement, nil
}

func (r *AchievementRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Achievement{}).Count(&count).Error
	return count, translate("count achievements", err)
}

func (r *AchievementRepository) Create(ctx context.Context, achievement *model.Achievement) error {
	return translate("create achievement", r.DB.WithContext(ctx).Create(achievement).Error)
}

// UpdateDetails writes the editable fields only. completed and completed_at belong to MarkCompleted.
func (r *AchievementRepository) UpdateDetails(ctx context.Context, achievement *model.Achievement) error {
	err := r.DB.WithContext(ctx).Model(achievement).
		Select("title", "description", "points", "icon").
		Updates(achievement).Error
	return translate("update achievement", err)
}

// MarkCompleted flips completed from false to true; it reports false when the achievement was already completed.
func (r *AchievementRepository) MarkCompleted(ctx context.Context, id string, at time.Time) (bool, error) {
	result := r.DB.WithContext(ctx).Model(&model.Achievement{}).
		Where("id = ? AND completed = ?", id, false).
		Updates(map[string]interface{}{
			"completed":    true,
			"completed_at": at,
		})
	if result.Error != nil {
		return false, translate("complete achievement", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *AchievementRepository) Delete(ctx context.Context, id string) error {
	result := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Achievement{})
	if result.Error != nil {
		return translate("delete achievement", result.Error)
	}
	if result.RowsAffected == 0 {
		return translate("delete achievement", gorm.ErrRecordNotFound)
	}
	return nil
}
