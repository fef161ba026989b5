package app

import (
	"meal_streak_backend/docs"
	"meal_streak_backend/internal/config"
	"meal_streak_backend/internal/middleware"
	"meal_streak_backend/internal/model"
	"meal_streak_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerParticipantRoutes(authGroup, c)
	}

	// 3. guide 管理接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerParticipantRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/profile", c.auth.GetProfile)
	group.GET("/dashboard", c.dashboard.GetDashboard)

	daily := group.Group("/daily")
	{
		daily.GET("/today", c.daily.GetToday)
		daily.GET("/history", c.daily.GetHistory)
		daily.GET("/monthly", c.daily.GetMonthly)
		daily.GET("/:date", c.daily.GetRecord)
		daily.PATCH("/:date/meals/:mealId", c.daily.UpdateMealStatus)
		daily.PUT("/:date/note", c.daily.UpdateNote)
	}

	group.GET("/achievements", c.achievement.GetAchievements)

	notifications := group.Group("/notifications")
	{
		notifications.GET("/unread", c.notification.GetUnread)
		notifications.POST("/read", c.notification.MarkRead)
	}

	group.GET("/templates", c.template.GetTemplates)
	group.GET("/settings/day", c.template.GetDaySettings)

	group.GET("/ws", c.realtime.Subscribe)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.ParticipantGuide))
	{
		admin.POST("/daily/:date/bonus", c.daily.AddBonus)

		admin.POST("/templates", c.template.CreateTemplate)
		admin.PUT("/templates/:id", c.template.UpdateTemplate)
		admin.DELETE("/templates/:id", c.template.DeleteTemplate)
		admin.PUT("/settings/day", c.template.UpdateDaySettings)

		admin.POST("/achievements", c.achievement.CreateAchievement)
		admin.PUT("/achievements/:id", c.achievement.UpdateAchievement)
		admin.DELETE("/achievements/:id", c.achievement.DeleteAchievement)
		admin.POST("/achievements/:id/complete", c.achievement.CompleteAchievement)

		admin.POST("/export", c.export.Export)
	}
}
