package service

import (
	"context"
	"meal_streak_backend/internal/model"
	"meal_streak_backend/internal/util"
	"meal_streak_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
)

// DashboardStats are the figures shown above today's timeline.
type DashboardStats struct {
	TotalPointsToday      int                 `json:"totalPointsToday"`
	TotalPointsMonth      int                 `json:"totalPointsMonth"`
	CurrentStreak         int                 `json:"currentStreak"`
	PunctualityPercentage int                 `json:"punctualityPercentage"`
	BestAchievements      []model.Achievement `json:"bestAchievements"`
}

// Dashboard 首页聚合数据
// swagger:model Dashboard
type Dashboard struct {
	Today             *model.DailyRecord `json:"today"`
	Profile           *model.UserProfile `json:"profile"`
	Level             LevelInfo          `json:"level"`
	Stats             DashboardStats     `json:"stats"`
	CurrentCheckpoint string             `json:"currentCheckpoint"`
}

type DashboardService struct {
	Records      *DailyRecordService
	Users        *UserService
	Achievements *AchievementService
	Calendar     *Calendar
}

func NewDashboardService(records *DailyRecordService, users *UserService, achievements *AchievementService, cal *Calendar) *DashboardService {
	return &DashboardService{
		Records:      records,
		Users:        users,
		Achievements: achievements,
		Calendar:     cal,
	}
}

// GetDashboard builds the tracker's dashboard. Today's record and the profile are required,
// everything else degrades to zero values when the store misbehaves.
func (s *DashboardService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	today, err := s.Records.InitializeToday(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := s.Users.GetProfile(ctx, model.ParticipantTracker)
	if err != nil {
		return nil, err
	}

	now := s.Calendar.Clock()
	history := s.Records.GetHistory(ctx)
	stats := DashboardStats{
		TotalPointsToday:      CalculateTotalPoints(today),
		TotalPointsMonth:      monthPoints(history, now),
		CurrentStreak:         CalculateStreak(history),
		PunctualityPercentage: CalculatePunctuality(today),
		BestAchievements:      s.Achievements.TopCompleted(ctx, 3),
	}

	logger.Log.Debug("Dashboard built", zap.String("date", today.Date), zap.Int("streak", stats.CurrentStreak))
	return &Dashboard{
		Today:             today,
		Profile:           profile,
		Level:             CalculateLevel(profile.TotalPoints),
		Stats:             stats,
		CurrentCheckpoint: CurrentCheckpoint(today, now),
	}, nil
}

func monthPoints(records []model.DailyRecord, now time.Time) int {
	month := now.Format(util.MonthFormat)
	total := 0
	for i := range records {
		if records[i].Date[:7] == month {
			total += CalculateTotalPoints(&records[i])
		}
	}
	return total
}
