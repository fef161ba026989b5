package service

import (
	"meal_streak_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDashboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	_, err := env.records.UpdateMealStatus(ctx, guide, "2024-03-01", "2024-03-01-lunch", model.MealCompletedLate)
	require.NoError(t, err)
	_, err = env.records.UpdateMealStatus(ctx, guide, "2024-02-28", "2024-02-28-lunch", model.MealCompletedOnTime)
	require.NoError(t, err)
	_, err = env.records.UpdateMealStatus(ctx, tracker, testToday, testToday+"-breakfast", model.MealCompletedOnTime)
	require.NoError(t, err)
	_, err = env.achievements.Complete(ctx, "first-meal")
	require.NoError(t, err)

	d, err := env.dashboard.GetDashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, testToday, d.Today.Date)
	assert.Equal(t, 85, d.Stats.TotalPointsToday)
	// 03-01: 20 + 12, today: 85
	assert.Equal(t, 117, d.Stats.TotalPointsMonth)
	assert.Equal(t, 0, d.Stats.CurrentStreak)
	assert.Equal(t, 33, d.Stats.PunctualityPercentage)
	require.Len(t, d.Stats.BestAchievements, 1)
	assert.Equal(t, "first-meal", d.Stats.BestAchievements[0].ID)

	// 12 + 20 + 15 + 50
	assert.Equal(t, 97, d.Profile.TotalPoints)
	assert.Equal(t, 0, d.Level.CurrentLevel)
	assert.Equal(t, testToday+"-breakfast", d.CurrentCheckpoint)
}

func TestGetDashboardCreatesToday(t *testing.T) {
	env := newTestEnv(t)
	env.clock.Advance(-11 * time.Hour)

	d, err := env.dashboard.GetDashboard(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 20, d.Stats.TotalPointsToday)
	assert.Equal(t, CheckpointBeforeStart, d.CurrentCheckpoint)
	assert.Empty(t, d.Stats.BestAchievements)
	assert.Equal(t, "Have a wonderful day!", d.Today.NoteOfTheDay)
}
