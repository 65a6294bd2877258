package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/user/celluloid/internal/config"
	"github.com/user/celluloid/internal/repository"
	"github.com/user/celluloid/internal/service"
	"github.com/user/celluloid/internal/utils"
)

func main() {
	// 加载环境变量
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	cfg := config.Load()

	db, err := repository.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	repos := repository.NewRepositories(db)
	embedder := utils.NewEmbeddingClient(cfg.OpenAIAPIKey)
	backfill := service.NewBackfillService(repos.Film, embedder, cfg.Backfill)

	// Ctrl+C 可中断，已完成的批次保持落库
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	total, err := backfill.Run(ctx)
	if err != nil {
		log.Fatalf("[Backfill] 回填中断: %v (已完成 %d 条)", err, total)
	}

	log.Printf("[Backfill] 回填完成，共处理 %d 条", total)
}
