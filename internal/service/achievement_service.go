package service

import (
	"context"
	"errors"
	"fmt"
	"meal_streak_backend/internal/model"
	"meal_streak_backend/internal/repository"
	"meal_streak_backend/internal/util"
	"meal_streak_backend/pkg/logger"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var errAlreadyCompleted = errors.New("achievement already completed")

type AchievementService struct {
	AchievementRepo *repository.AchievementRepository
	Records         *DailyRecordService
	Notifications   *NotificationService
	Hub             *RecordHub
	Calendar        *Calendar
}

func NewAchievementService(
	achievementRepo *repository.AchievementRepository,
	records *DailyRecordService,
	notifications *NotificationService,
	hub *RecordHub,
	cal *Calendar,
) *AchievementService {
	return &AchievementService{
		AchievementRepo: achievementRepo,
		Records:         records,
		Notifications:   notifications,
		Hub:             hub,
		Calendar:        cal,
	}
}

func defaultAchievements() []model.Achievement {
	return []model.Achievement{
		{ID: "first-meal", Title: "First Steps", Description: "Complete your first meal on time", Points: 50, Icon: "🌟"},
		{ID: "perfect-day", Title: "Perfect Day", Description: "Complete all meals on time in a single day", Points: 100, Icon: "✨"},
		{ID: "week-streak", Title: "Week Warrior", Description: "Maintain a 7-day streak", Points: 200, Icon: "🔥"},
		{ID: "early-bird", Title: "Early Bird", Description: "Complete breakfast on time for 5 days", Points: 75, Icon: "🐦"},
		{ID: "consistency-queen", Title: "Consistency Queen", Description: "Complete 30 days with at least 80% punctuality", Points: 300, Icon: "👑"},
	}
}

// InitializeDefaults seeds the achievement catalog when it is empty.
func (s *AchievementService) InitializeDefaults(ctx context.Context) error {
	count, err := s.AchievementRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, a := range defaultAchievements() {
		a := a
		if err := s.AchievementRepo.Create(ctx, &a); err != nil {
			return err
		}
	}
	logger.Log.Info("Default achievements created")
	return nil
}

// List returns the catalog. Store failures yield an empty list.
func (s *AchievementService) List(ctx context.Context) []model.Achievement {
	achievements, err := s.AchievementRepo.List(ctx)
	if err != nil {
		logger.Log.Error("List achievements failed", zap.Error(err))
		return []model.Achievement{}
	}
	return achievements
}

func (s *AchievementService) find(ctx context.Context, id string) (*model.Achievement, error) {
	a, err := s.AchievementRepo.FindByID(ctx, id)
	if errors.Is(err, util.ErrNotFound) {
		return nil, util.ErrAchievementMissing
	}
	return a, err
}

func validateAchievement(a *model.Achievement) error {
	if strings.TrimSpace(a.Title) == "" {
		return util.Invalid("achievement title is required")
	}
	if a.Points < 0 {
		return util.Invalid("achievement points must not be negative")
	}
	return nil
}

func (s *AchievementService) Add(ctx context.Context, a model.Achievement) (*model.Achievement, error) {
	a.Completed = false
	a.CompletedAt = nil
	if err := validateAchievement(&a); err != nil {
		return nil, err
	}
	a.ID = model.GenerateUUID()
	if err := s.AchievementRepo.Create(ctx, &a); err != nil {
		return nil, err
	}
	s.publish(ctx)
	return &a, nil
}

// Update edits catalog fields. Completed can only move forward and goes through Complete.
func (s *AchievementService) Update(ctx context.Context, id string, upd model.AchievementUpdate) (*model.Achievement, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		a.Title = *upd.Title
	}
	if upd.Description != nil {
		a.Description = *upd.Description
	}
	if upd.Points != nil {
		a.Points = *upd.Points
	}
	if upd.Icon != nil {
		a.Icon = *upd.Icon
	}
	if err := validateAchievement(a); err != nil {
		return nil, err
	}

	changed := upd.Title != nil || upd.Description != nil || upd.Points != nil || upd.Icon != nil
	if changed {
		if err := s.AchievementRepo.UpdateDetails(ctx, a); err != nil {
			return nil, err
		}
		s.publish(ctx)
	}

	if upd.Completed != nil && *upd.Completed {
		if _, err := s.Complete(ctx, id); err != nil {
			return nil, err
		}
		return s.find(ctx, id)
	}
	return a, nil
}

// Complete unlocks the achievement once: it grants its points as a bonus on today's record
// and notifies the tracker. A second call reports false and changes nothing.
func (s *AchievementService) Complete(ctx context.Context, id string) (bool, error) {
	a, err := s.find(ctx, id)
	if err != nil {
		return false, err
	}
	if a.Completed {
		return false, nil
	}

	completedAt := s.Calendar.Now()
	markCompleted := func(tx *gorm.DB) error {
		ok, err := s.AchievementRepo.WithTx(tx).MarkCompleted(ctx, id, completedAt)
		if err != nil {
			return err
		}
		if !ok {
			return errAlreadyCompleted
		}
		return nil
	}

	reason := "Achievement: " + a.Title
	if _, err := s.Records.grantBonus(ctx, s.Calendar.Today(), a.Points, reason, markCompleted); err != nil {
		if errors.Is(err, errAlreadyCompleted) {
			return false, nil
		}
		return false, err
	}

	logger.Log.Info("Achievement unlocked", zap.String("id", id), zap.Int("points", a.Points))
	points := a.Points
	s.Notifications.notify(ctx, model.ParticipantTracker, model.Notification{
		Type:    model.NotificationAchievementUnlocked,
		Title:   "Achievement Unlocked!",
		Message: fmt.Sprintf("%s: %s", a.Title, a.Description),
		Points:  &points,
		Icon:    a.Icon,
	})
	s.publish(ctx)
	return true, nil
}

// Delete removes the achievement from the catalog. Points already granted stay.
func (s *AchievementService) Delete(ctx context.Context, id string) error {
	if err := s.AchievementRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return util.ErrAchievementMissing
		}
		return err
	}
	s.publish(ctx)
	return nil
}

// TopCompleted returns up to n completed achievements with the highest points.
func (s *AchievementService) TopCompleted(ctx context.Context, n int) []model.Achievement {
	var completed []model.Achievement
	for _, a := range s.List(ctx) {
		if a.Completed {
			completed = append(completed, a)
		}
	}
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].Points > completed[j].Points
	})
	if len(completed) > n {
		completed = completed[:n]
	}
	return completed
}

func (s *AchievementService) publish(ctx context.Context) {
	if s.Hub == nil {
		return
	}
	s.Hub.Publish(ctx, TopicAchievements, time.Now().UnixNano(), s.List(ctx))
}
