package service

import (
	"errors"
	"meal_streak_backend/internal/model"
	"meal_streak_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const breakfastID = testToday + "-breakfast"

func TestGetOrInitializeSnapshotsTemplates(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	rec, err := env.records.GetOrInitialize(ctx, testToday)
	require.NoError(t, err)

	require.Len(t, rec.Meals, 3)
	assert.Equal(t, breakfastID, rec.Meals[0].ID)
	assert.Equal(t, testToday+"-lunch", rec.Meals[1].ID)
	assert.Equal(t, testToday+"-dinner", rec.Meals[2].ID)
	for _, m := range rec.Meals {
		assert.Equal(t, model.MealPending, m.Status)
		assert.Equal(t, testToday, m.Date)
	}
	assert.Equal(t, 10, rec.DayBeginPoints)
	assert.Equal(t, 10, rec.DayEndPoints)
	assert.Equal(t, "06:00", rec.DayBeginTime)
	assert.Equal(t, 20, rec.TotalPoints)
	assert.Equal(t, "Have a wonderful day!", rec.NoteOfTheDay)

	past, err := env.records.GetOrInitialize(ctx, "2024-03-01")
	require.NoError(t, err)
	assert.Empty(t, past.NoteOfTheDay)
}

func TestGetOrInitializeIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	first, err := env.records.GetOrInitialize(ctx, testToday)
	require.NoError(t, err)

	// 模板修改不影响已创建的记录
	points := 99
	_, err = env.templates.UpdateTemplate(ctx, "breakfast", model.MealTemplateUpdate{PointsOnTime: &points})
	require.NoError(t, err)

	second, err := env.records.GetOrInitialize(ctx, testToday)
	require.NoError(t, err)

	assert.Equal(t, first.Version, second.Version)
	assert.Equal(t, first.TotalPoints, second.TotalPoints)
	assert.Equal(t, []model.Meal(first.Meals), []model.Meal(second.Meals))
	assert.Equal(t, 15, second.Meals[0].PointsOnTime)
}

func TestGetOrInitializeRejectsBadDate(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.records.GetOrInitialize(t.Context(), "15-03-2024")
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}

func TestGetRecordFutureDates(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	_, err := env.records.GetRecord(ctx, tracker, "2024-03-20")
	assert.ErrorIs(t, err, util.ErrNotFound)
	_, err = env.recordRepo.FindByDate(ctx, "2024-03-20")
	assert.ErrorIs(t, err, util.ErrNotFound)

	past, err := env.records.GetRecord(ctx, tracker, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", past.Date)

	planned, err := env.records.GetRecord(ctx, guide, "2024-03-20")
	require.NoError(t, err)
	got, err := env.records.GetRecord(ctx, tracker, "2024-03-20")
	require.NoError(t, err)
	assert.Equal(t, planned.Version, got.Version)

	_, err = env.records.GetRecord(ctx, tracker, "2024-3-1")
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}

func TestUpdateMealStatusScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	rec, err := env.records.UpdateMealStatus(ctx, tracker, testToday, breakfastID, model.MealCompletedOnTime)
	require.NoError(t, err)
	assert.Equal(t, 35, rec.TotalPoints)
	assert.NotNil(t, rec.Meals[0].CompletedAt)

	profile, err := env.users.GetProfile(ctx, model.ParticipantTracker)
	require.NoError(t, err)
	assert.Equal(t, 15, profile.TotalPoints)
	assert.Equal(t, 1, profile.TotalMealsCompleted)
	assert.Equal(t, 1, profile.TotalMealsOnTime)

	rec, err = env.records.UpdateMealStatus(ctx, guide, testToday, breakfastID, model.MealMissed)
	require.NoError(t, err)
	assert.Equal(t, 10, rec.TotalPoints)

	profile, err = env.users.GetProfile(ctx, model.ParticipantTracker)
	require.NoError(t, err)
	assert.Equal(t, -10, profile.TotalPoints)
	assert.Equal(t, 0, profile.TotalMealsCompleted)
	assert.Equal(t, 0, profile.TotalMealsOnTime)

	stored, err := env.recordRepo.FindByDate(ctx, testToday)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.TotalPoints)
	assert.Equal(t, CalculateTotalPoints(stored), stored.TotalPoints)
}

func TestMutationRollsBackWhenProfileWriteFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	before, err := env.records.GetOrInitialize(ctx, testToday)
	require.NoError(t, err)

	require.NoError(t, env.db.Callback().Update().Before("gorm:update").Register("test:fail_profile", func(db *gorm.DB) {
		if db.Statement.Table == "user_profiles" {
			db.AddError(errors.New("disk I/O error"))
		}
	}))

	daily := env.hub.Subscribe(DailyTopic(testToday))
	defer daily.Close()
	profile := env.hub.Subscribe(ProfileTopic(model.ParticipantTracker))
	defer profile.Close()

	_, err = env.records.UpdateMealStatus(ctx, tracker, testToday, breakfastID, model.MealCompletedOnTime)
	assert.ErrorIs(t, err, util.ErrStoreUnavailable)

	stored, err := env.recordRepo.FindByDate(ctx, testToday)
	require.NoError(t, err)
	assert.Equal(t, before.Version, stored.Version)
	assert.Equal(t, before.TotalPoints, stored.TotalPoints)
	assert.Equal(t, model.MealPending, stored.Meals[0].Status)

	select {
	case u := <-daily.C:
		t.Fatalf("rolled back record was published at version %d", u.Version)
	case u := <-profile.C:
		t.Fatalf("rolled back profile was published at version %d", u.Version)
	default:
	}
	assert.Empty(t, env.notifications.FetchUnread(ctx, model.ParticipantTracker))
	assert.Empty(t, env.notifications.FetchUnread(ctx, model.ParticipantGuide))

	require.NoError(t, env.db.Callback().Update().Remove("test:fail_profile"))
	rec, err := env.records.UpdateMealStatus(ctx, tracker, testToday, breakfastID, model.MealCompletedOnTime)
	require.NoError(t, err)
	assert.Equal(t, before.Version+1, rec.Version)
}

func TestResetToPendingClearsCompletion(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	_, err := env.records.UpdateMealStatus(ctx, tracker, testToday, breakfastID, model.MealCompletedLate)
	require.NoError(t, err)
	rec, err := env.records.UpdateMealStatus(ctx, guide, testToday, breakfastID, model.MealPending)
	require.NoError(t, err)

	assert.Nil(t, rec.Meals[0].CompletedAt)
	assert.Equal(t, 20, rec.TotalPoints)

	profile, err := env.users.GetProfile(ctx, model.ParticipantTracker)
	require.NoError(t, err)
	assert.Equal(t, 0, profile.TotalPoints)
	assert.Equal(t, 0, profile.TotalMealsCompleted)
}

func TestUpdateMealStatusPermissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	_, err := env.records.UpdateMealStatus(ctx, tracker, testToday, breakfastID, model.MealMissed)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = env.records.UpdateMealStatus(ctx, tracker, "2024-03-14", "2024-03-14-breakfast", model.MealCompletedOnTime)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = env.records.UpdateMealStatus(ctx, guide, "2024-03-14", "2024-03-14-breakfast", model.MealCompletedLate)
	assert.NoError(t, err)

	_, err = env.records.UpdateMealStatus(ctx, guide, testToday, breakfastID, "eaten")
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}

func TestUpdateMealStatusUnknownMeal(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	before, err := env.records.GetOrInitialize(ctx, testToday)
	require.NoError(t, err)

	_, err = env.records.UpdateMealStatus(ctx, guide, testToday, "nope", model.MealMissed)
	assert.ErrorIs(t, err, util.ErrMealNotFound)

	after, err := env.records.GetOrInitialize(ctx, testToday)
	require.NoError(t, err)
	assert.Equal(t, before.Version, after.Version)
}

func TestMealCompletedNotification(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	_, err := env.records.UpdateMealStatus(ctx, tracker, testToday, breakfastID, model.MealCompletedOnTime)
	require.NoError(t, err)

	unread := env.notifications.FetchUnread(ctx, model.ParticipantTracker)
	require.Len(t, unread, 1)
	assert.Equal(t, model.NotificationMealCompleted, unread[0].Type)
	assert.Equal(t, "Great job completing Breakfast on time!", unread[0].Message)
	require.NotNil(t, unread[0].Points)
	assert.Equal(t, 15, *unread[0].Points)
}

func TestAddBonusPointsLevelsUp(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	_, err := env.records.AddBonusPoints(ctx, tracker, testToday, 100, "nice")
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = env.records.AddBonusPoints(ctx, guide, testToday, 0, "nothing")
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	rec, err := env.records.AddBonusPoints(ctx, guide, testToday, 100, "Cooked dinner together")
	require.NoError(t, err)
	require.Len(t, rec.BonusPoints, 1)
	assert.Equal(t, 120, rec.TotalPoints)

	profile, err := env.users.GetProfile(ctx, model.ParticipantTracker)
	require.NoError(t, err)
	assert.Equal(t, 100, profile.TotalPoints)
	assert.Equal(t, 1, profile.CurrentLevel)

	var types []model.NotificationType
	for _, n := range env.notifications.FetchUnread(ctx, model.ParticipantTracker) {
		types = append(types, n.Type)
	}
	assert.ElementsMatch(t, []model.NotificationType{model.NotificationLevelUp, model.NotificationBonusPoints}, types)
}

func TestBonusOnArchivedDateAppliesToProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	_, err := env.records.AddBonusPoints(ctx, guide, "2024-01-02", -30, "late night snack")
	require.NoError(t, err)

	profile, err := env.users.GetProfile(ctx, model.ParticipantTracker)
	require.NoError(t, err)
	assert.Equal(t, -30, profile.TotalPoints)
	assert.Equal(t, 0, profile.CurrentLevel)
}

func TestUpdateNoteLeavesPointsAlone(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	_, err := env.records.UpdateNote(ctx, tracker, testToday, "hi")
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	rec, err := env.records.UpdateNote(ctx, guide, testToday, "Drink water!")
	require.NoError(t, err)
	assert.Equal(t, "Drink water!", rec.NoteOfTheDay)
	assert.Equal(t, 20, rec.TotalPoints)

	profile, err := env.users.GetProfile(ctx, model.ParticipantTracker)
	require.NoError(t, err)
	assert.Equal(t, 0, profile.TotalPoints)
}

func TestProfileTracksRecomputedTotals(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	initial, err := env.records.GetOrInitialize(ctx, testToday)
	require.NoError(t, err)

	steps := []struct {
		meal   string
		status model.MealStatus
	}{
		{"breakfast", model.MealCompletedOnTime},
		{"lunch", model.MealMissed},
		{"dinner", model.MealCompletedLate},
		{"lunch", model.MealCompletedOnTime},
		{"breakfast", model.MealPending},
	}
	for _, s := range steps {
		_, err := env.records.UpdateMealStatus(ctx, guide, testToday, testToday+"-"+s.meal, s.status)
		require.NoError(t, err)
	}
	_, err = env.records.AddBonusPoints(ctx, guide, testToday, 7, "extra")
	require.NoError(t, err)

	final, err := env.recordRepo.FindByDate(ctx, testToday)
	require.NoError(t, err)
	assert.Equal(t, CalculateTotalPoints(final), final.TotalPoints)

	profile, err := env.users.GetProfile(ctx, model.ParticipantTracker)
	require.NoError(t, err)
	assert.Equal(t, final.TotalPoints-initial.TotalPoints, profile.TotalPoints)
	assert.Equal(t, 2, profile.TotalMealsCompleted)
	assert.Equal(t, 1, profile.TotalMealsOnTime)
}

func TestStreakRefreshedAfterMealUpdates(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	for _, date := range []string{"2024-03-13", "2024-03-14", testToday} {
		for _, meal := range []string{"breakfast", "lunch", "dinner"} {
			_, err := env.records.UpdateMealStatus(ctx, guide, date, date+"-"+meal, model.MealCompletedOnTime)
			require.NoError(t, err)
		}
	}

	profile, err := env.users.GetProfile(ctx, model.ParticipantTracker)
	require.NoError(t, err)
	assert.Equal(t, 3, profile.CurrentStreak)
	assert.Equal(t, 3, profile.BestStreak)

	_, err = env.records.UpdateMealStatus(ctx, guide, testToday, breakfastID, model.MealMissed)
	require.NoError(t, err)

	profile, err = env.users.GetProfile(ctx, model.ParticipantTracker)
	require.NoError(t, err)
	assert.Equal(t, 0, profile.CurrentStreak)
	assert.Equal(t, 3, profile.BestStreak)
}

func TestMonthlySummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	_, err := env.records.UpdateMealStatus(ctx, guide, "2024-01-10", "2024-01-10-lunch", model.MealCompletedOnTime)
	require.NoError(t, err)
	_, err = env.records.UpdateMealStatus(ctx, tracker, testToday, breakfastID, model.MealCompletedOnTime)
	require.NoError(t, err)

	summary := env.records.GetMonthlySummary(ctx)
	require.Len(t, summary, 3)
	assert.Equal(t, "2024-01", summary[0].Month)
	assert.Equal(t, 40, summary[0].TotalPoints)
	assert.Equal(t, 1, summary[0].MealsCompleted)
	assert.Equal(t, 0, summary[1].TotalPoints)
	assert.Equal(t, 35, summary[2].TotalPoints)
}

func TestHistoryIsNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	for _, date := range []string{"2024-03-10", testToday, "2024-03-12", "2023-01-01"} {
		_, err := env.records.GetOrInitialize(ctx, date)
		require.NoError(t, err)
	}

	history := env.records.GetHistory(ctx)
	var dates []string
	for _, r := range history {
		dates = append(dates, r.Date)
	}
	assert.Equal(t, []string{testToday, "2024-03-12", "2024-03-10"}, dates)
}

func TestInitializeTodayFollowsClock(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	env.clock.Advance(13 * time.Hour)
	rec, err := env.records.InitializeToday(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-16", rec.Date)
}
