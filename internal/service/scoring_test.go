package service

import (
	"meal_streak_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func recordWithMeals(begin, end int, meals ...model.Meal) *model.DailyRecord {
	return &model.DailyRecord{
		Date:           "2024-03-15",
		DayBeginPoints: begin,
		DayEndPoints:   end,
		DayBeginTime:   "06:00",
		DayEndTime:     "22:00",
		Meals:          datatypes.JSONSlice[model.Meal](meals),
	}
}

func breakfast(status model.MealStatus) model.Meal {
	return model.Meal{
		ID:             "2024-03-15-breakfast",
		Name:           "Breakfast",
		ScheduledTime:  "08:00",
		PointsOnTime:   15,
		PointsLate:     8,
		PenaltySkipped: 10,
		Status:         status,
	}
}

func TestCalculateTotalPoints(t *testing.T) {
	tests := []struct {
		name   string
		status model.MealStatus
		want   int
	}{
		{"on time", model.MealCompletedOnTime, 35},
		{"late", model.MealCompletedLate, 28},
		{"missed", model.MealMissed, 10},
		{"pending", model.MealPending, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateTotalPoints(recordWithMeals(10, 10, breakfast(tt.status))))
		})
	}
}

func TestCalculateTotalPointsIncludesBonusAndMayBeNegative(t *testing.T) {
	rec := recordWithMeals(0, 0, breakfast(model.MealMissed))
	rec.BonusPoints = datatypes.JSONSlice[model.BonusPoint]{
		{ID: "a", Points: 5},
		{ID: "b", Points: -20},
	}
	assert.Equal(t, -25, CalculateTotalPoints(rec))
}

func TestCalculateLevelThresholds(t *testing.T) {
	assert.Equal(t, 0, CalculateLevel(99).CurrentLevel)
	assert.Equal(t, 1, CalculateLevel(100).CurrentLevel)
	assert.Equal(t, 1, CalculateLevel(599).CurrentLevel)
	assert.Equal(t, 2, CalculateLevel(600).CurrentLevel)
	assert.Equal(t, 2, CalculateLevel(1099).CurrentLevel)
	assert.Equal(t, 3, CalculateLevel(1100).CurrentLevel)
	assert.Equal(t, 4, CalculateLevel(1600).CurrentLevel)
	assert.Equal(t, 0, CalculateLevel(-50).CurrentLevel)
}

func TestCalculateLevelProgress(t *testing.T) {
	info := CalculateLevel(0)
	assert.Equal(t, 0, info.PointsForCurrentLevel)
	assert.Equal(t, 100, info.PointsForNextLevel)
	assert.Equal(t, 0, info.ProgressToNext)

	info = CalculateLevel(350)
	assert.Equal(t, 1, info.CurrentLevel)
	assert.Equal(t, 100, info.PointsForCurrentLevel)
	assert.Equal(t, 600, info.PointsForNextLevel)
	assert.Equal(t, 250, info.ProgressToNext)
	assert.InDelta(t, 50.0, info.ProgressPercentage, 0.001)

	info = CalculateLevel(600)
	assert.Equal(t, 2, info.CurrentLevel)
	assert.Equal(t, 600, info.PointsForCurrentLevel)
	assert.Equal(t, 1100, info.PointsForNextLevel)

	info = CalculateLevel(1100)
	assert.Equal(t, 3, info.CurrentLevel)
	assert.Equal(t, 1100, info.PointsForCurrentLevel)
	assert.Equal(t, 1600, info.PointsForNextLevel)
	assert.Equal(t, 0, info.ProgressToNext)
}

func TestCalculateLevelIsMonotonic(t *testing.T) {
	prev := CalculateLevel(-10).CurrentLevel
	for p := -9; p <= 5000; p++ {
		level := CalculateLevel(p).CurrentLevel
		if level < prev {
			t.Fatalf("level dropped from %d to %d at %d points", prev, level, p)
		}
		prev = level
	}
}
