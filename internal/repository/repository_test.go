package repository

import (
	"fmt"
	"meal_streak_backend/internal/model"
	"meal_streak_backend/internal/util"
	"meal_streak_backend/pkg/database"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func record(date string) *model.DailyRecord {
	return &model.DailyRecord{
		Date:         date,
		DayBeginTime: "06:00",
		DayEndTime:   "22:00",
		Meals: datatypes.JSONSlice[model.Meal]{
			{ID: date + "-lunch", Name: "Lunch", ScheduledTime: "13:00", PointsOnTime: 20, Status: model.MealPending, Date: date},
		},
		BonusPoints: datatypes.JSONSlice[model.BonusPoint]{},
	}
}

func TestDailyRecordCreateIfAbsent(t *testing.T) {
	repo := NewDailyRecordRepository(openDB(t))
	ctx := t.Context()

	created, err := repo.CreateIfAbsent(ctx, record("2024-03-15"))
	require.NoError(t, err)
	assert.True(t, created)

	dup := record("2024-03-15")
	dup.NoteOfTheDay = "second writer"
	created, err = repo.CreateIfAbsent(ctx, dup)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := repo.FindByDate(ctx, "2024-03-15")
	require.NoError(t, err)
	assert.Empty(t, got.NoteOfTheDay)
	assert.Equal(t, int64(1), got.Version)
	require.Len(t, got.Meals, 1)
	assert.Equal(t, "2024-03-15-lunch", got.Meals[0].ID)

	_, err = repo.FindByDate(ctx, "2024-03-16")
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestDailyRecordSaveBumpsVersion(t *testing.T) {
	repo := NewDailyRecordRepository(openDB(t))
	ctx := t.Context()

	rec := record("2024-03-15")
	_, err := repo.CreateIfAbsent(ctx, rec)
	require.NoError(t, err)

	at := time.Date(2024, 3, 15, 13, 5, 0, 0, time.UTC)
	rec.Meals[0].Status = model.MealCompletedOnTime
	rec.Meals[0].CompletedAt = &at
	require.NoError(t, repo.Save(ctx, rec))
	assert.Equal(t, int64(2), rec.Version)

	got, err := repo.FindByDate(ctx, "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
	assert.Equal(t, model.MealCompletedOnTime, got.Meals[0].Status)
	require.NotNil(t, got.Meals[0].CompletedAt)
	assert.True(t, at.Equal(*got.Meals[0].CompletedAt))
}

func TestDailyRecordFindRange(t *testing.T) {
	repo := NewDailyRecordRepository(openDB(t))
	ctx := t.Context()

	for _, d := range []string{"2024-03-14", "2024-02-29", "2024-03-16", "2024-03-01"} {
		_, err := repo.CreateIfAbsent(ctx, record(d))
		require.NoError(t, err)
	}

	asc, err := repo.FindRange(ctx, "2024-03-01", "2024-03-15", false)
	require.NoError(t, err)
	require.Len(t, asc, 2)
	assert.Equal(t, "2024-03-01", asc[0].Date)

	desc, err := repo.FindRange(ctx, "2024-01-01", "2024-12-31", true)
	require.NoError(t, err)
	require.Len(t, desc, 4)
	assert.Equal(t, "2024-03-16", desc[0].Date)
	assert.Equal(t, "2024-02-29", desc[3].Date)
}

func TestProfileRepository(t *testing.T) {
	repo := NewProfileRepository(openDB(t))
	ctx := t.Context()

	_, err := repo.FindByID(ctx, model.ParticipantTracker)
	assert.ErrorIs(t, err, util.ErrNotFound)

	require.NoError(t, repo.CreateIfAbsent(ctx, &model.UserProfile{ID: model.ParticipantTracker, Name: "first"}))
	require.NoError(t, repo.CreateIfAbsent(ctx, &model.UserProfile{ID: model.ParticipantTracker, Name: "second"}))

	p, err := repo.FindByID(ctx, model.ParticipantTracker)
	require.NoError(t, err)
	assert.Equal(t, "first", p.Name)

	p.TotalPoints = -10
	require.NoError(t, repo.Save(ctx, p))
	p, err = repo.FindByID(ctx, model.ParticipantTracker)
	require.NoError(t, err)
	assert.Equal(t, -10, p.TotalPoints)
	assert.Equal(t, int64(2), p.Version)
}

func TestNotificationMarkRead(t *testing.T) {
	repo := NewNotificationRepository(openDB(t))
	ctx := t.Context()

	n := &model.Notification{ID: "n1", UserID: model.ParticipantTracker, Type: model.NotificationLevelUp, Timestamp: time.Now()}
	require.NoError(t, repo.Create(ctx, n))

	assert.ErrorIs(t, repo.MarkRead(ctx, model.ParticipantGuide, "n1"), util.ErrNotFound)
	require.NoError(t, repo.MarkRead(ctx, model.ParticipantTracker, "n1"))
	require.NoError(t, repo.MarkRead(ctx, model.ParticipantTracker, "n1"))

	unread, err := repo.FindUnread(ctx, model.ParticipantTracker)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestStoreFailureIsUnavailable(t *testing.T) {
	db := openDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = NewDailyRecordRepository(db).FindByDate(t.Context(), "2024-03-15")
	assert.ErrorIs(t, err, util.ErrStoreUnavailable)
}
