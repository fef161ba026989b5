package service

import (
	"context"
	"errors"
	"meal_streak_backend/internal/model"
	"meal_streak_backend/internal/repository"
	"meal_streak_backend/internal/util"
	"meal_streak_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

type TemplateService struct {
	TemplateRepo *repository.TemplateRepository
	SettingsRepo *repository.SettingsRepository
}

func NewTemplateService(templateRepo *repository.TemplateRepository, settingsRepo *repository.SettingsRepository) *TemplateService {
	return &TemplateService{
		TemplateRepo: templateRepo,
		SettingsRepo: settingsRepo,
	}
}

func defaultTemplates(settings model.DaySettings) []model.MealTemplate {
	return []model.MealTemplate{
		{ID: model.DayBeginTemplateID, Name: "Day Begin", ScheduledTime: settings.DayBeginTime, PointsOnTime: settings.DayBeginPoints, Order: 0, Active: true, Type: model.TemplateDayBegin},
		{ID: "breakfast", Name: "Breakfast", ScheduledTime: "08:00", PointsOnTime: 15, PointsLate: 8, PenaltySkipped: 10, Order: 1, Active: true, Type: model.TemplateMeal},
		{ID: "lunch", Name: "Lunch", ScheduledTime: "13:00", PointsOnTime: 20, PointsLate: 12, PenaltySkipped: 15, Order: 2, Active: true, Type: model.TemplateMeal},
		{ID: "dinner", Name: "Dinner", ScheduledTime: "19:00", PointsOnTime: 25, PointsLate: 15, PenaltySkipped: 20, Order: 3, Active: true, Type: model.TemplateMeal},
		{ID: model.DayEndTemplateID, Name: "Day End", ScheduledTime: settings.DayEndTime, PointsOnTime: settings.DayEndPoints, Order: 99, Active: true, Type: model.TemplateDayEnd},
	}
}

// InitializeDefaults seeds the default templates and settings when none exist yet.
func (s *TemplateService) InitializeDefaults(ctx context.Context) error {
	settings, err := s.LoadDaySettings(ctx)
	if err != nil {
		return err
	}

	count, err := s.TemplateRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, t := range defaultTemplates(*settings) {
		t := t
		if err := s.TemplateRepo.Create(ctx, &t); err != nil {
			return err
		}
	}
	logger.Log.Info("Default meal templates created")
	return nil
}

// ListTemplates returns every template ordered by order, ties in insertion order.
func (s *TemplateService) ListTemplates(ctx context.Context) ([]model.MealTemplate, error) {
	return s.TemplateRepo.List(ctx)
}

// ActiveMealTemplates are the templates a new daily record is built from.
func (s *TemplateService) ActiveMealTemplates(ctx context.Context) ([]model.MealTemplate, error) {
	templates, err := s.TemplateRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	var meals []model.MealTemplate
	for _, t := range templates {
		if t.Active && !t.IsDayBoundary() {
			meals = append(meals, t)
		}
	}
	return meals, nil
}

func validateTemplateFields(name, scheduledTime string, pointsOnTime, pointsLate, penalty int) error {
	if strings.TrimSpace(name) == "" {
		return util.Invalid("template name is required")
	}
	if _, err := util.MinutesOfDay(scheduledTime); err != nil {
		return err
	}
	if pointsOnTime < 0 || pointsLate < 0 || penalty < 0 {
		return util.Invalid("template points must not be negative")
	}
	return nil
}

func (s *TemplateService) AddTemplate(ctx context.Context, t model.MealTemplate) (*model.MealTemplate, error) {
	if t.Type == "" {
		t.Type = model.TemplateMeal
	}
	if t.Type != model.TemplateMeal {
		return nil, util.Invalid("only meal templates can be added")
	}
	if err := validateTemplateFields(t.Name, t.ScheduledTime, t.PointsOnTime, t.PointsLate, t.PenaltySkipped); err != nil {
		return nil, err
	}

	t.ID = model.GenerateUUID()
	if err := s.TemplateRepo.Create(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TemplateService) findTemplate(ctx context.Context, id string) (*model.MealTemplate, error) {
	t, err := s.TemplateRepo.FindByID(ctx, id)
	if errors.Is(err, util.ErrNotFound) {
		return nil, util.ErrTemplateNotFound
	}
	return t, err
}

// UpdateTemplate changes a template. Records already created keep their snapshot.
func (s *TemplateService) UpdateTemplate(ctx context.Context, id string, upd model.MealTemplateUpdate) (*model.MealTemplate, error) {
	t, err := s.findTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.IsDayBoundary() {
		// 起止时间和分值只能通过 day settings 修改
		return nil, util.Invalid("day boundary templates are managed through the day settings")
	}

	if upd.Name != nil {
		t.Name = *upd.Name
	}
	if upd.ScheduledTime != nil {
		t.ScheduledTime = *upd.ScheduledTime
	}
	if upd.PointsOnTime != nil {
		t.PointsOnTime = *upd.PointsOnTime
	}
	if upd.PointsLate != nil {
		t.PointsLate = *upd.PointsLate
	}
	if upd.PenaltySkipped != nil {
		t.PenaltySkipped = *upd.PenaltySkipped
	}
	if upd.Order != nil {
		t.Order = *upd.Order
	}
	if upd.Active != nil {
		t.Active = *upd.Active
	}

	if err := validateTemplateFields(t.Name, t.ScheduledTime, t.PointsOnTime, t.PointsLate, t.PenaltySkipped); err != nil {
		return nil, err
	}
	if err := s.TemplateRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTemplate removes a meal template. The day boundary entries are owned by the day settings.
func (s *TemplateService) DeleteTemplate(ctx context.Context, id string) error {
	t, err := s.findTemplate(ctx, id)
	if err != nil {
		return err
	}
	if t.IsDayBoundary() {
		return util.Invalid("day boundary templates cannot be deleted")
	}
	if err := s.TemplateRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return util.ErrTemplateNotFound
		}
		return err
	}
	return nil
}

// LoadDaySettings reads the settings, persisting the defaults on first access.
func (s *TemplateService) LoadDaySettings(ctx context.Context) (*model.DaySettings, error) {
	settings, err := s.SettingsRepo.Get(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, util.ErrNotFound) {
		return nil, err
	}

	defaults := model.DefaultDaySettings()
	if err := s.SettingsRepo.Save(ctx, &defaults); err != nil {
		return nil, err
	}
	return &defaults, nil
}

// GetDaySettings is the read helper for views: store failures fall back to the defaults.
func (s *TemplateService) GetDaySettings(ctx context.Context) model.DaySettings {
	settings, err := s.LoadDaySettings(ctx)
	if err != nil {
		logger.Log.Error("Load day settings failed, using defaults", zap.Error(err))
		return model.DefaultDaySettings()
	}
	return *settings
}

// UpdateDaySettings stores new day settings and mirrors them onto the day boundary templates.
// Existing daily records are left untouched.
func (s *TemplateService) UpdateDaySettings(ctx context.Context, in model.DaySettings) (*model.DaySettings, error) {
	begin, err := util.MinutesOfDay(in.DayBeginTime)
	if err != nil {
		return nil, err
	}
	end, err := util.MinutesOfDay(in.DayEndTime)
	if err != nil {
		return nil, err
	}
	if begin >= end {
		return nil, util.Invalid("day begin %s must be before day end %s", in.DayBeginTime, in.DayEndTime)
	}
	if in.DayBeginPoints < 0 || in.DayEndPoints < 0 {
		return nil, util.Invalid("day points must not be negative")
	}

	current, err := s.LoadDaySettings(ctx)
	if err != nil {
		return nil, err
	}
	current.DayBeginTime = in.DayBeginTime
	current.DayEndTime = in.DayEndTime
	current.DayBeginPoints = in.DayBeginPoints
	current.DayEndPoints = in.DayEndPoints
	if err := s.SettingsRepo.Save(ctx, current); err != nil {
		return nil, err
	}

	s.syncBoundary(ctx, model.DayBeginTemplateID, current.DayBeginTime, current.DayBeginPoints)
	s.syncBoundary(ctx, model.DayEndTemplateID, current.DayEndTime, current.DayEndPoints)
	return current, nil
}

func (s *TemplateService) syncBoundary(ctx context.Context, id, scheduledTime string, points int) {
	t, err := s.TemplateRepo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, util.ErrNotFound) {
			logger.Log.Warn("Load boundary template failed", zap.String("id", id), zap.Error(err))
		}
		return
	}
	t.ScheduledTime = scheduledTime
	t.PointsOnTime = points
	if err := s.TemplateRepo.Save(ctx, t); err != nil {
		logger.Log.Warn("Sync boundary template failed", zap.String("id", id), zap.Error(err))
	}
}
