// @title Meal Streak API
// @version 1.0
// @description 两人餐食打卡与积分后端服务。

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"
	"meal_streak_backend/internal/app"
	"meal_streak_backend/internal/config"
	"meal_streak_backend/pkg/database"
	"meal_streak_backend/pkg/logger"
)

func main() {
	// 命令行参数
	configDir := flag.String("config", "configs", "配置文件目录")
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *migrateOnly {
		if _, err := database.InitDB(&cfg.Database, false); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("数据库迁移完成，退出程序")
		return
	}

	application := app.NewApp(cfg, *configDir)
	defer logger.Log.Sync()

	application.Run()
}
