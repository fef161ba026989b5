package service

import (
	"context"
	"errors"
	"meal_streak_backend/internal/model"
	"meal_streak_backend/internal/repository"
	"meal_streak_backend/internal/util"
	"meal_streak_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
)

// UserService 维护参与者档案：累计积分、等级与连胜
type UserService struct {
	ProfileRepo *repository.ProfileRepository
	RecordRepo  *repository.DailyRecordRepository
	Hub         *RecordHub
	Calendar    *Calendar
}

func NewUserService(profileRepo *repository.ProfileRepository, recordRepo *repository.DailyRecordRepository, hub *RecordHub, cal *Calendar) *UserService {
	return &UserService{
		ProfileRepo: profileRepo,
		RecordRepo:  recordRepo,
		Hub:         hub,
		Calendar:    cal,
	}
}

func (s *UserService) defaultProfile(p model.Participant) *model.UserProfile {
	today := s.Calendar.Today()
	return &model.UserProfile{
		ID:             p,
		Name:           p.DisplayName(),
		JoinedDate:     today,
		LastActiveDate: today,
	}
}

// Initialize creates the profile of p unless it already exists.
func (s *UserService) Initialize(ctx context.Context, p model.Participant) (*model.UserProfile, error) {
	if !p.Valid() {
		return nil, util.Invalid("unknown participant %q", p)
	}
	if err := s.ProfileRepo.CreateIfAbsent(ctx, s.defaultProfile(p)); err != nil {
		return nil, err
	}
	return s.ProfileRepo.FindByID(ctx, p)
}

// GetProfile loads the profile of p, creating it on first access.
func (s *UserService) GetProfile(ctx context.Context, p model.Participant) (*model.UserProfile, error) {
	profile, err := s.ProfileRepo.FindByID(ctx, p)
	if errors.Is(err, util.ErrNotFound) {
		return s.Initialize(ctx, p)
	}
	return profile, err
}

// RecentRecords returns the history window ending today, newest first.
func (s *UserService) RecentRecords(ctx context.Context) ([]model.DailyRecord, error) {
	now := s.Calendar.Clock()
	from := now.AddDate(0, 0, -(s.Calendar.HistoryDays() - 1)).Format(util.DateFormat)
	return s.RecordRepo.FindRange(ctx, from, now.Format(util.DateFormat), true)
}

// RefreshStreak recomputes the tracker's current streak and raises the best streak when beaten.
func (s *UserService) RefreshStreak(ctx context.Context) error {
	records, err := s.RecentRecords(ctx)
	if err != nil {
		return err
	}
	streak := CalculateStreak(records)

	profile, err := s.GetProfile(ctx, model.ParticipantTracker)
	if err != nil {
		return err
	}
	if profile.CurrentStreak == streak && profile.BestStreak >= streak {
		return nil
	}

	profile.CurrentStreak = streak
	if streak > profile.BestStreak {
		profile.BestStreak = streak
	}
	if err := s.ProfileRepo.Save(ctx, profile); err != nil {
		return err
	}
	logger.Log.Info("Streak refreshed", zap.Int("current", streak), zap.Int("best", profile.BestStreak))
	s.publish(ctx, profile)
	return nil
}

func (s *UserService) publish(ctx context.Context, profile *model.UserProfile) {
	if s.Hub != nil {
		s.Hub.Publish(ctx, ProfileTopic(profile.ID), profile.Version, profile)
	}
}

// profileDelta is the change a single record mutation applies to the tracker's profile.
type profileDelta struct {
	points        int
	mealsDone     int
	mealsOnTime   int
	activeDate    string
	previousLevel int
	level         int
}

// apply folds d into profile and recomputes the level from the new total.
func (d *profileDelta) apply(profile *model.UserProfile, at time.Time) {
	d.previousLevel = profile.CurrentLevel
	profile.TotalPoints += d.points
	profile.TotalMealsCompleted += d.mealsDone
	profile.TotalMealsOnTime += d.mealsOnTime
	if profile.TotalMealsCompleted < 0 {
		profile.TotalMealsCompleted = 0
	}
	if profile.TotalMealsOnTime < 0 {
		profile.TotalMealsOnTime = 0
	}
	if d.activeDate != "" {
		profile.LastActiveDate = d.activeDate
	}
	profile.CurrentLevel = CalculateLevel(profile.TotalPoints).CurrentLevel
	profile.UpdatedAt = at
	d.level = profile.CurrentLevel
}

func (d *profileDelta) empty() bool {
	return d.points == 0 && d.mealsDone == 0 && d.mealsOnTime == 0
}
