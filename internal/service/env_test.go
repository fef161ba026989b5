package service

import (
	"fmt"
	"meal_streak_backend/internal/config"
	"meal_streak_backend/internal/model"
	"meal_streak_backend/internal/repository"
	"meal_streak_backend/internal/util"
	"meal_streak_backend/pkg/database"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type testEnv struct {
	db            *gorm.DB
	clock         *fakeClock
	calendar      *Calendar
	hub           *RecordHub
	recordRepo    *repository.DailyRecordRepository
	profileRepo   *repository.ProfileRepository
	users         *UserService
	templates     *TemplateService
	notifications *NotificationService
	records       *DailyRecordService
	achievements  *AchievementService
	dashboard     *DashboardService
}

const testToday = "2024-03-15"

var (
	tracker = util.Session{Participant: model.ParticipantTracker}
	guide   = util.Session{Participant: model.ParticipantGuide}
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := openTestDB(t)

	clock := &fakeClock{now: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)}
	cal := NewCalendar(config.ScheduleConfig{Timezone: "UTC", HistoryDays: 90, DefaultNote: "Have a wonderful day!"})
	cal.Now = clock.Now

	env := &testEnv{
		db:          db,
		clock:       clock,
		calendar:    cal,
		hub:         NewRecordHub(nil),
		recordRepo:  repository.NewDailyRecordRepository(db),
		profileRepo: repository.NewProfileRepository(db),
	}
	env.users = NewUserService(env.profileRepo, env.recordRepo, env.hub, cal)
	env.templates = NewTemplateService(repository.NewTemplateRepository(db), repository.NewSettingsRepository(db))
	env.notifications = NewNotificationService(repository.NewNotificationRepository(db), env.hub, cal)
	env.records = NewDailyRecordService(db, env.recordRepo, env.profileRepo, env.templates, env.users, env.notifications, env.hub, cal)
	env.achievements = NewAchievementService(repository.NewAchievementRepository(db), env.records, env.notifications, env.hub, cal)
	env.dashboard = NewDashboardService(env.records, env.users, env.achievements, cal)

	ctx := t.Context()
	require.NoError(t, env.templates.InitializeDefaults(ctx))
	require.NoError(t, env.achievements.InitializeDefaults(ctx))
	return env
}
