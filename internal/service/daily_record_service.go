package service

import (
	"context"
	"errors"
	"fmt"
	"meal_streak_backend/internal/model"
	"meal_streak_backend/internal/repository"
	"meal_streak_backend/internal/util"
	"meal_streak_backend/pkg/logger"
	"meal_streak_backend/pkg/monitoring"
	"meal_streak_backend/pkg/tracing"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MonthlySummary aggregates one calendar month of daily records.
type MonthlySummary struct {
	Month          string `json:"month"`
	TotalPoints    int    `json:"totalPoints"`
	MealsCompleted int    `json:"mealsCompleted"`
}

// DailyRecordService owns the lifecycle of daily records: lazy initialization and scored mutations.
type DailyRecordService struct {
	DB            *gorm.DB
	RecordRepo    *repository.DailyRecordRepository
	ProfileRepo   *repository.ProfileRepository
	Templates     *TemplateService
	Users         *UserService
	Notifications *NotificationService
	Hub           *RecordHub
	Calendar      *Calendar
}

func NewDailyRecordService(
	db *gorm.DB,
	recordRepo *repository.DailyRecordRepository,
	profileRepo *repository.ProfileRepository,
	templates *TemplateService,
	users *UserService,
	notifications *NotificationService,
	hub *RecordHub,
	cal *Calendar,
) *DailyRecordService {
	return &DailyRecordService{
		DB:            db,
		RecordRepo:    recordRepo,
		ProfileRepo:   profileRepo,
		Templates:     templates,
		Users:         users,
		Notifications: notifications,
		Hub:           hub,
		Calendar:      cal,
	}
}

// newRecord snapshots the current settings and active templates into a record for date.
func (s *DailyRecordService) newRecord(ctx context.Context, date string) (*model.DailyRecord, error) {
	settings, err := s.Templates.LoadDaySettings(ctx)
	if err != nil {
		return nil, err
	}
	templates, err := s.Templates.ActiveMealTemplates(ctx)
	if err != nil {
		return nil, err
	}

	meals := make(datatypes.JSONSlice[model.Meal], 0, len(templates))
	for _, t := range templates {
		meals = append(meals, model.Meal{
			ID:             fmt.Sprintf("%s-%s", date, t.ID),
			Name:           t.Name,
			ScheduledTime:  t.ScheduledTime,
			PointsOnTime:   t.PointsOnTime,
			PointsLate:     t.PointsLate,
			PenaltySkipped: t.PenaltySkipped,
			Status:         model.MealPending,
			Date:           date,
		})
	}

	record := &model.DailyRecord{
		Date:           date,
		DayBeginPoints: settings.DayBeginPoints,
		DayEndPoints:   settings.DayEndPoints,
		DayBeginTime:   settings.DayBeginTime,
		DayEndTime:     settings.DayEndTime,
		Meals:          meals,
		BonusPoints:    datatypes.JSONSlice[model.BonusPoint]{},
	}
	if date == s.Calendar.Today() {
		record.NoteOfTheDay = s.Calendar.DefaultNote()
	}
	record.TotalPoints = CalculateTotalPoints(record)
	return record, nil
}

// GetOrInitialize returns the record of date, creating it from the current templates on first access.
// Initializing an existing date returns the stored record unchanged.
func (s *DailyRecordService) GetOrInitialize(ctx context.Context, date string) (*model.DailyRecord, error) {
	if _, err := util.ParseDate(date); err != nil {
		return nil, err
	}

	record, err := s.RecordRepo.FindByDate(ctx, date)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, util.ErrNotFound) {
		logger.Log.Error("Load daily record failed", zap.String("date", date), zap.Error(err))
		return nil, err
	}

	record, err = s.newRecord(ctx, date)
	if err != nil {
		logger.Log.Error("Build daily record failed", zap.String("date", date), zap.Error(err))
		return nil, err
	}
	created, err := s.RecordRepo.CreateIfAbsent(ctx, record)
	if err != nil {
		logger.Log.Error("Create daily record failed", zap.String("date", date), zap.Error(err))
		return nil, err
	}
	if !created {
		// 并发初始化时另一方先写入
		return s.RecordRepo.FindByDate(ctx, date)
	}

	logger.Log.Info("Daily record initialized", zap.String("date", date), zap.Int("meals", len(record.Meals)))
	s.publishRecord(ctx, record)
	return record, nil
}

// GetRecord is GetOrInitialize for a caller: only the guide may create records of future dates,
// the tracker reading an untouched future date gets ErrNotFound.
func (s *DailyRecordService) GetRecord(ctx context.Context, sess util.Session, date string) (*model.DailyRecord, error) {
	if _, err := util.ParseDate(date); err != nil {
		return nil, err
	}
	if sess.IsGuide() || date <= s.Calendar.Today() {
		return s.GetOrInitialize(ctx, date)
	}
	return s.RecordRepo.FindByDate(ctx, date)
}

// InitializeToday makes sure today's record exists.
func (s *DailyRecordService) InitializeToday(ctx context.Context) (*model.DailyRecord, error) {
	return s.GetOrInitialize(ctx, s.Calendar.Today())
}

// GetHistory returns the records of the history window, newest first. Store failures yield an empty list.
func (s *DailyRecordService) GetHistory(ctx context.Context) []model.DailyRecord {
	records, err := s.Users.RecentRecords(ctx)
	if err != nil {
		logger.Log.Error("Load history failed", zap.Error(err))
		return []model.DailyRecord{}
	}
	return records
}

// GetMonthlySummary aggregates January through the current month of this year.
func (s *DailyRecordService) GetMonthlySummary(ctx context.Context) []MonthlySummary {
	now := s.Calendar.Clock()
	year := now.Year()
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, now.Location())

	summaries := make([]MonthlySummary, 0, int(now.Month()))
	index := make(map[string]int)
	for m := time.January; m <= now.Month(); m++ {
		key := time.Date(year, m, 1, 0, 0, 0, 0, now.Location()).Format(util.MonthFormat)
		index[key] = len(summaries)
		summaries = append(summaries, MonthlySummary{Month: key})
	}

	records, err := s.RecordRepo.FindRange(ctx, from.Format(util.DateFormat), now.Format(util.DateFormat), false)
	if err != nil {
		logger.Log.Error("Load monthly summary failed", zap.Error(err))
		return summaries
	}

	for _, r := range records {
		i, ok := index[r.Date[:7]]
		if !ok {
			continue
		}
		summaries[i].TotalPoints += CalculateTotalPoints(&r)
		for _, meal := range r.Meals {
			if meal.Status.Completed() {
				summaries[i].MealsCompleted++
			}
		}
	}
	return summaries
}

// mutationResult carries what a committed mutation changed, for the notifications sent afterwards.
type mutationResult struct {
	record  *model.DailyRecord
	profile *model.UserProfile
	delta   profileDelta
}

// mutate runs apply on a copy of the record of date, recomputes the total and persists the record
// and the tracker profile in one transaction, record first. within, when set, runs in the same transaction.
func (s *DailyRecordService) mutate(
	ctx context.Context,
	date string,
	apply func(rec *model.DailyRecord, d *profileDelta) error,
	within func(tx *gorm.DB) error,
) (*mutationResult, error) {
	current, err := s.GetOrInitialize(ctx, date)
	if err != nil {
		return nil, err
	}

	updated := current.Clone()
	delta := profileDelta{activeDate: s.Calendar.Today()}
	if err := apply(updated, &delta); err != nil {
		return nil, err
	}

	oldTotal := CalculateTotalPoints(current)
	updated.TotalPoints = CalculateTotalPoints(updated)
	delta.points = updated.TotalPoints - oldTotal

	var profile *model.UserProfile
	now := s.Calendar.Now()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if within != nil {
			if err := within(tx); err != nil {
				return err
			}
		}
		if err := s.RecordRepo.WithTx(tx).Save(ctx, updated); err != nil {
			return err
		}
		if delta.empty() {
			return nil
		}

		profiles := s.ProfileRepo.WithTx(tx)
		p, err := profiles.FindByID(ctx, model.ParticipantTracker)
		if errors.Is(err, util.ErrNotFound) {
			p = s.Users.defaultProfile(model.ParticipantTracker)
			if err = profiles.CreateIfAbsent(ctx, p); err == nil {
				p, err = profiles.FindByID(ctx, model.ParticipantTracker)
			}
		}
		if err != nil {
			return err
		}
		delta.apply(p, now)
		if err := profiles.Save(ctx, p); err != nil {
			return err
		}
		profile = p
		return nil
	})
	if err != nil {
		if !errors.Is(err, errAlreadyCompleted) {
			logger.Log.Error("Daily record mutation failed", zap.String("date", date), zap.Error(err))
		}
		return nil, err
	}

	monitoring.RecordPointsDelta(delta.points)
	s.publishRecord(ctx, updated)
	if profile != nil && s.Hub != nil {
		s.Hub.Publish(ctx, ProfileTopic(profile.ID), profile.Version, profile)
	}
	if profile != nil && delta.level > delta.previousLevel {
		logger.Log.Info("Level up", zap.Int("level", delta.level))
		s.Notifications.notify(ctx, model.ParticipantTracker, model.Notification{
			Type:    model.NotificationLevelUp,
			Title:   "Level Up!",
			Message: fmt.Sprintf("Congratulations! You've reached Level %d!", delta.level),
			Icon:    "🎉",
		})
	}
	return &mutationResult{record: updated, profile: profile, delta: delta}, nil
}

func (s *DailyRecordService) publishRecord(ctx context.Context, record *model.DailyRecord) {
	if s.Hub != nil {
		s.Hub.Publish(ctx, DailyTopic(record.Date), record.Version, record)
	}
}

// canSetMealStatus: the tracker may only check in today's meals, the guide may set any status on any date.
func (s *DailyRecordService) canSetMealStatus(sess util.Session, date string, status model.MealStatus) bool {
	if sess.IsGuide() {
		return true
	}
	if sess.Participant != model.ParticipantTracker {
		return false
	}
	return date == s.Calendar.Today() && status.Completed()
}

// UpdateMealStatus moves one meal to status and applies the resulting point change.
func (s *DailyRecordService) UpdateMealStatus(ctx context.Context, sess util.Session, date, mealID string, status model.MealStatus) (*model.DailyRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "DailyRecordService.UpdateMealStatus",
		attribute.String("date", date), attribute.String("meal", mealID), attribute.String("status", string(status)))
	var err error
	defer func() { tracing.EndSpan(span, err) }()

	if !status.Valid() {
		err = util.Invalid("unknown meal status %q", status)
		return nil, err
	}
	if !s.canSetMealStatus(sess, date, status) {
		err = util.ErrPermissionDenied
		return nil, err
	}

	var before, after model.Meal
	var result *mutationResult
	result, err = s.mutate(ctx, date, func(rec *model.DailyRecord, d *profileDelta) error {
		i := rec.FindMeal(mealID)
		if i < 0 {
			return util.ErrMealNotFound
		}
		before = rec.Meals[i]
		meal := &rec.Meals[i]
		meal.Status = status
		if status == model.MealPending {
			meal.CompletedAt = nil
		} else {
			at := s.Calendar.Now()
			meal.CompletedAt = &at
		}
		after = *meal

		d.mealsDone = boolDelta(before.Status.Completed(), after.Status.Completed())
		d.mealsOnTime = boolDelta(before.Status == model.MealCompletedOnTime, after.Status == model.MealCompletedOnTime)
		return nil
	}, nil)
	if err != nil {
		return nil, err
	}

	monitoring.MealStatusCounter.WithLabelValues(string(status)).Inc()
	logger.Log.Info("Meal status updated",
		zap.String("date", date),
		zap.String("meal", mealID),
		zap.String("from", string(before.Status)),
		zap.String("to", string(after.Status)),
		zap.Int("pointsDifference", result.delta.points))

	if result.delta.points > 0 && after.Status.Completed() {
		when := "on time"
		if after.Status == model.MealCompletedLate {
			when = "(late)"
		}
		points := result.delta.points
		s.Notifications.notify(ctx, model.ParticipantTracker, model.Notification{
			Type:    model.NotificationMealCompleted,
			Title:   "Meal Completed!",
			Message: fmt.Sprintf("Great job completing %s %s!", after.Name, when),
			Points:  &points,
			Icon:    "🍽️",
		})
	}

	if err := s.Users.RefreshStreak(ctx); err != nil {
		logger.Log.Warn("Refresh streak failed", zap.Error(err))
	}
	return result.record, nil
}

func boolDelta(before, after bool) int {
	switch {
	case !before && after:
		return 1
	case before && !after:
		return -1
	}
	return 0
}

// AddBonusPoints appends a guide awarded bonus (positive or negative) to the record of date.
func (s *DailyRecordService) AddBonusPoints(ctx context.Context, sess util.Session, date string, points int, reason string) (*model.DailyRecord, error) {
	if !sess.IsGuide() {
		return nil, util.ErrPermissionDenied
	}
	if points == 0 {
		return nil, util.Invalid("bonus points must not be zero")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, util.Invalid("bonus reason is required")
	}

	result, err := s.grantBonus(ctx, date, points, reason, nil)
	if err != nil {
		return nil, err
	}

	diff := result.delta.points
	s.Notifications.notify(ctx, model.ParticipantTracker, model.Notification{
		Type:    model.NotificationBonusPoints,
		Title:   "Bonus Points!",
		Message: reason,
		Points:  &diff,
		Icon:    "🎁",
	})
	return result.record, nil
}

// grantBonus appends a bonus entry without permission checks or notification.
func (s *DailyRecordService) grantBonus(ctx context.Context, date string, points int, reason string, within func(tx *gorm.DB) error) (*mutationResult, error) {
	result, err := s.mutate(ctx, date, func(rec *model.DailyRecord, d *profileDelta) error {
		rec.BonusPoints = append(rec.BonusPoints, model.BonusPoint{
			ID:        model.GenerateUUID(),
			Points:    points,
			Reason:    reason,
			Timestamp: s.Calendar.Now(),
		})
		return nil
	}, within)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("Bonus points added", zap.String("date", date), zap.Int("points", points), zap.String("reason", reason))
	return result, nil
}

// UpdateNote replaces the guide's note of the day.
func (s *DailyRecordService) UpdateNote(ctx context.Context, sess util.Session, date, note string) (*model.DailyRecord, error) {
	if !sess.IsGuide() {
		return nil, util.ErrPermissionDenied
	}
	result, err := s.mutate(ctx, date, func(rec *model.DailyRecord, d *profileDelta) error {
		rec.NoteOfTheDay = note
		return nil
	}, nil)
	if err != nil {
		return nil, err
	}
	return result.record, nil
}
