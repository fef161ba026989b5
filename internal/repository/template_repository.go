package repository

import (
	"context"
	"meal_streak_backend/internal/model"

	"gorm.io/gorm"
)

type TemplateRepository struct {
	DB *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{DB: db}
}

// List returns templates by ascending order, ties in insertion order.
func (r *TemplateRepository) List(ctx context.Context) ([]model.MealTemplate, error) {
	var templates []model.MealTemplate
	err := r.DB.WithContext(ctx).Order("sort_order ASC").Order("seq ASC").Find(&templates).Error
	if err != nil {
		return nil, translate("list templates", err)
	}
	return templates, nil
}

func (r *TemplateRepository) FindByID(ctx context.Context, id string) (*model.MealTemplate, error) {
	var template model.MealTemplate
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&template).Error
	if err != nil {
		return nil, translate("find template", err)
	}
	return &template, nil
}

func (r *TemplateRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.MealTemplate{}).Count(&count).Error
	return count, translate("count templates", err)
}

// Create appends the template after every existing one in insertion order.
func (r *TemplateRepository) Create(ctx context.Context, template *model.MealTemplate) error {
	return translate("create template", r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxSeq int64
		if err := tx.Model(&model.MealTemplate{}).Select("COALESCE(MAX(seq), 0)").Scan(&maxSeq).Error; err != nil {
			return err
		}
		template.Seq = maxSeq + 1
		return tx.Create(template).Error
	}))
}

func (r *TemplateRepository) Save(ctx context.Context, template *model.MealTemplate) error {
	return translate("save template", r.DB.WithContext(ctx).Save(template).Error)
}

func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	result := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.MealTemplate{})
	if result.Error != nil {
		return translate("delete template", result.Error)
	}
	if result.RowsAffected == 0 {
		return translate("delete template", gorm.ErrRecordNotFound)
	}
	return nil
}
