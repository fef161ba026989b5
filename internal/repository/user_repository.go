package repository

import (
	"context"
	"meal_streak_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) WithTx(tx *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: tx}
}

func (r *ProfileRepository) FindByID(ctx context.Context, id model.Participant) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if err != nil {
		return nil, translate("find profile", err)
	}
	return &profile, nil
}

func (r *ProfileRepository) CreateIfAbsent(ctx context.Context, profile *model.UserProfile) error {
	profile.Version = 1
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(profile).Error
	return translate("create profile", err)
}

func (r *ProfileRepository) Save(ctx context.Context, profile *model.UserProfile) error {
	profile.Version++
	if err := r.DB.WithContext(ctx).Save(profile).Error; err != nil {
		profile.Version--
		return translate("save profile", err)
	}
	return nil
}
