package main

import (
	"flag"
	"log"
	"time"

	"github.com/qs3c/recipe_club_server/config"
	"github.com/qs3c/recipe_club_server/internal/database"
	"github.com/qs3c/recipe_club_server/internal/model"
	"github.com/qs3c/recipe_club_server/internal/repository"
)

// 手工执行的订阅展示状态刷新
// 服务内的定时任务每晚也会做同样的事，这个命令用于补跑和核对
// 展示状态只影响列表页的标签，访问判定始终按 subscription_ends_at 实时计算
var dryRun = flag.Bool("dry-run", true, "Only report affected users, don't update")

func main() {
	flag.Parse()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	now := time.Now()

	// 统计待刷新的用户数
	var count int64
	err = db.Model(&model.User{}).
		Where("subscription_status = ?", model.SubscriptionStatusActive).
		Where("subscription_ends_at IS NOT NULL AND subscription_ends_at <= ?", now).
		Count(&count).Error
	if err != nil {
		log.Fatalf("Failed to count lapsed users: %v", err)
	}

	log.Printf("Found %d users with lapsed subscriptions still marked active", count)

	if *dryRun {
		log.Println("Dry run mode, nothing updated. Run with -dry-run=false to apply.")
		return
	}

	userRepo := repository.NewUserRepository(db)
	affected, err := userRepo.SweepExpiredStatus(now)
	if err != nil {
		log.Fatalf("Status sweep failed: %v", err)
	}

	log.Printf("Status sweep completed, %d users marked inactive", affected)
}
