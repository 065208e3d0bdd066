package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qs3c/recipe_club_server/config"
	"github.com/qs3c/recipe_club_server/internal/database"
	"github.com/qs3c/recipe_club_server/internal/pkg/email"
	"github.com/qs3c/recipe_club_server/internal/pkg/queue"
	"github.com/qs3c/recipe_club_server/internal/worker"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化回执队列和邮件服务
	receiptQueue := queue.NewQueue(rdb, cfg.Notify.ReceiptQueue)
	emailService := email.NewService(&cfg.Email)
	notifier := worker.NewNotifier(emailService)

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	maxWorkers := cfg.Notify.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	log.Printf("Receipt worker started, max workers: %d", maxWorkers)

	// 启动 worker 循环
	for i := 0; i < maxWorkers; i++ {
		go func(workerID int) {
			for {
				select {
				case <-ctx.Done():
					log.Printf("Worker %d shutting down", workerID)
					return
				default:
					msg, err := receiptQueue.Pop(ctx, 5*time.Second)
					if err != nil {
						if ctx.Err() != nil {
							return
						}
						log.Printf("Worker %d: failed to pop message: %v", workerID, err)
						continue
					}

					if msg == nil {
						continue // 超时，继续等待
					}

					if err := notifier.Process(ctx, msg); err != nil {
						log.Printf("Worker %d: %v", workerID, err)
					}
				}
			}
		}(i)
	}

	// 等待 context 取消
	<-ctx.Done()
	log.Println("Worker shutdown complete")
}
