package service

import (
	"bytes"
	"meal_streak_backend/internal/config"
	"meal_streak_backend/internal/model"
	"meal_streak_backend/internal/util"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuildWorkbook(t *testing.T) {
	rec := recordWithMeals(10, 10, breakfast(model.MealCompletedOnTime))
	rec.Date = testToday
	rec.NoteOfTheDay = "hi"
	rec.BonusPoints = append(rec.BonusPoints, model.BonusPoint{ID: "b1", Points: 7, Reason: "tea"})

	buf, err := BuildWorkbook([]model.DailyRecord{*rec})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	days, err := f.GetRows(daysSheet)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, dayHeaders, days[0])
	assert.Equal(t, []string{testToday, "42", "10", "10", "1", "1", "100", "7", "hi"}, days[1])

	meals, err := f.GetRows(mealsSheet)
	require.NoError(t, err)
	require.Len(t, meals, 2)
	assert.Equal(t, "Breakfast", meals[1][1])
	assert.Equal(t, "completed-on-time", meals[1][3])
	assert.Equal(t, "15", meals[1][5])
}

func TestExportToLocalStorage(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	dir := t.TempDir()
	storage := NewStorageService(&config.Config{Storage: config.StorageConfig{Type: util.StorageLocal, LocalPath: dir}})
	exports := NewExportService(env.recordRepo, storage, env.calendar)

	_, err := env.records.UpdateMealStatus(ctx, guide, "2024-03-10", "2024-03-10-dinner", model.MealMissed)
	require.NoError(t, err)
	_, err = env.records.GetOrInitialize(ctx, testToday)
	require.NoError(t, err)

	res, err := exports.Export(ctx, guide, "2024-03-01", "2024-03-31")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Days)
	assert.Equal(t, "/exports/"+res.Filename, res.URL)

	f, err := excelize.OpenFile(filepath.Join(dir, res.Filename))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(daysSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "2024-03-10", rows[1][0])
	assert.Equal(t, "0", rows[1][1])

	require.NoError(t, storage.Delete(ctx, res.Filename))
	_, err = os.Stat(filepath.Join(dir, res.Filename))
	assert.True(t, os.IsNotExist(err))
}

func TestExportRejects(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	exports := NewExportService(env.recordRepo, &StorageService{Provider: &LocalStorageProvider{Config: &config.StorageConfig{LocalPath: t.TempDir()}}}, env.calendar)

	_, err := exports.Export(ctx, tracker, "2024-03-01", "2024-03-31")
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = exports.Export(ctx, guide, "2024-03-31", "2024-03-01")
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	_, err = exports.Export(ctx, guide, "2023-01-01", "2024-03-01")
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	_, err = exports.Export(ctx, guide, "March", "2024-03-01")
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}
