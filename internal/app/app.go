package app

import (
	"context"
	"log"
	"meal_streak_backend/internal/config"
	"meal_streak_backend/internal/controller"
	"meal_streak_backend/internal/model"
	"meal_streak_backend/internal/repository"
	"meal_streak_backend/internal/service"
	"meal_streak_backend/pkg/configwatcher"
	"meal_streak_backend/pkg/database"
	"meal_streak_backend/pkg/logger"
	"meal_streak_backend/pkg/monitoring"
	"meal_streak_backend/pkg/security"
	"meal_streak_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	ConfigPath      string
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	stop            chan struct{}
	configCallbacks []func(*config.Config)
}

type repositories struct {
	record       *repository.DailyRecordRepository
	profile      *repository.ProfileRepository
	template     *repository.TemplateRepository
	settings     *repository.SettingsRepository
	achievement  *repository.AchievementRepository
	notification *repository.NotificationRepository
}

type services struct {
	calendar     *service.Calendar
	hub          *service.RecordHub
	auth         *service.AuthService
	user         *service.UserService
	template     *service.TemplateService
	notification *service.NotificationService
	record       *service.DailyRecordService
	achievement  *service.AchievementService
	dashboard    *service.DashboardService
	storage      *service.StorageService
	export       *service.ExportService
}

type controllers struct {
	auth         *controller.AuthController
	daily        *controller.DailyController
	template     *controller.TemplateController
	achievement  *controller.AchievementController
	notification *controller.NotificationController
	dashboard    *controller.DashboardController
	realtime     *controller.RealtimeController
	export       *controller.ExportController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		record:       repository.NewDailyRecordRepository(db),
		profile:      repository.NewProfileRepository(db),
		template:     repository.NewTemplateRepository(db),
		settings:     repository.NewSettingsRepository(db),
		achievement:  repository.NewAchievementRepository(db),
		notification: repository.NewNotificationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.calendar = service.NewCalendar(cfg.Schedule)
	s.hub = service.NewRecordHub(rdb)
	s.storage = service.NewStorageService(cfg)

	s.user = service.NewUserService(repos.profile, repos.record, s.hub, s.calendar)
	s.auth = service.NewAuthService(s.user, cfg)
	s.template = service.NewTemplateService(repos.template, repos.settings)
	s.notification = service.NewNotificationService(repos.notification, s.hub, s.calendar)
	s.record = service.NewDailyRecordService(
		db,
		repos.record,
		repos.profile,
		s.template,
		s.user,
		s.notification,
		s.hub,
		s.calendar,
	)
	s.achievement = service.NewAchievementService(repos.achievement, s.record, s.notification, s.hub, s.calendar)
	s.dashboard = service.NewDashboardService(s.record, s.user, s.achievement, s.calendar)
	s.export = service.NewExportService(repos.record, s.storage, s.calendar)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth, s.user),
		daily:        controller.NewDailyController(s.record),
		template:     controller.NewTemplateController(s.template),
		achievement:  controller.NewAchievementController(s.achievement),
		notification: controller.NewNotificationController(s.notification),
		dashboard:    controller.NewDashboardController(s.dashboard),
		realtime:     controller.NewRealtimeController(s.hub, s.record, s.user, s.achievement, s.notification),
		export:       controller.NewExportController(s.export),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	limiter := security.NewLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute)
	router.Use(security.RateLimiter(limiter, a.stop))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// seedDefaults creates the default templates, settings, achievements and both profiles on an empty store.
func (a *App) seedDefaults(ctx context.Context, s *services) error {
	if err := s.template.InitializeDefaults(ctx); err != nil {
		return err
	}
	if err := s.achievement.InitializeDefaults(ctx); err != nil {
		return err
	}
	for _, p := range []model.Participant{model.ParticipantTracker, model.ParticipantGuide} {
		if _, err := s.user.Initialize(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// tick keeps today's record in place across midnight and the streak current.
func (a *App) tick(ctx context.Context) {
	if _, err := a.services.record.InitializeToday(ctx); err != nil {
		logger.Log.Error("Ensure today's record failed", zap.Error(err))
	}
	if err := a.services.user.RefreshStreak(ctx); err != nil {
		logger.Log.Error("Refresh streak failed", zap.Error(err))
	}
}

func (a *App) startBackgroundTasks() {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-a.stop:
				return
			case <-ticker.C:
				a.tick(context.Background())
			}
		}
	}()

	if a.ConfigPath == "" {
		return
	}
	a.RegisterConfigCallback(func(cfg *config.Config) {
		a.services.calendar.Apply(cfg.Schedule)
		logger.ApplyMode(cfg.Server.Mode)
		logger.Log.Info("Schedule reloaded", zap.String("timezone", cfg.Schedule.Timezone))
	})
	go func() {
		err := configwatcher.WatchConfig(a.ConfigPath, func(cfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(cfg)
			}
		}, a.stop)
		if err != nil {
			logger.Log.Warn("Config watcher not started", zap.Error(err))
		}
	}()
}

// Build wires an App around an open database. Redis may be nil.
func Build(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*App, error) {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		stop:   make(chan struct{}),
	}

	repos := app.initRepositories(db)
	app.services = app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(app.services, db, rdb)

	if err := app.services.hub.Start(context.Background()); err != nil {
		return nil, err
	}
	if err := app.seedDefaults(context.Background(), app.services); err != nil {
		return nil, err
	}

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/exports", cfg.Storage.LocalPath)
	}
	return app, nil
}

func NewApp(cfg *config.Config, configPath string) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app, err := Build(cfg, db, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to build application", zap.Error(err))
	}
	app.ConfigPath = configPath

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("meal-streak-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	if _, err := app.services.record.InitializeToday(context.Background()); err != nil {
		logger.Log.Error("Initialize today's record failed", zap.Error(err))
	}
	app.startBackgroundTasks()
	return app
}

// Close stops background work and the realtime hub.
func (a *App) Close() {
	select {
	case <-a.stop:
		return
	default:
	}
	close(a.stop)
	if a.services != nil {
		a.services.hub.Stop()
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	logger.Log.Info("Server exiting")
}
