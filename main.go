// @title Mock Interview 后端 API
// @version 1.0
// @description AI 模拟面试后端：题目生成、回答反馈、代码格式化与运行。

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"flag"
	"log"

	"mock_interview_backend/internal/app"
	"mock_interview_backend/internal/config"
	"mock_interview_backend/pkg/logger"
)

func main() {
	// 命令行参数
	configDir := flag.String("config", "configs", "配置文件目录")
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 设置迁移标志
	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	application.ConfigDir = *configDir
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		application.Close(context.Background())
		log.Println("数据库迁移完成，退出程序")
		return
	}

	application.Run()
}
