package main

import (
	"context"
	"fmt"
	"log"

	"github.com/qs3c/recipe_club_server/config"
	"github.com/qs3c/recipe_club_server/internal/api"
	"github.com/qs3c/recipe_club_server/internal/api/handler"
	"github.com/qs3c/recipe_club_server/internal/database"
	"github.com/qs3c/recipe_club_server/internal/pkg/cron"
	"github.com/qs3c/recipe_club_server/internal/pkg/email"
	"github.com/qs3c/recipe_club_server/internal/pkg/oauth"
	"github.com/qs3c/recipe_club_server/internal/pkg/pubsub"
	"github.com/qs3c/recipe_club_server/internal/pkg/queue"
	"github.com/qs3c/recipe_club_server/internal/pkg/ws"
	"github.com/qs3c/recipe_club_server/internal/repository"
	"github.com/qs3c/recipe_club_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 Queue 和 Pub/Sub
	receiptQueue := queue.NewQueue(rdb, cfg.Notify.ReceiptQueue)
	publisher := pubsub.NewPublisher(rdb)
	subscriber := pubsub.NewSubscriber(rdb)

	// 初始化 WebSocket Hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// 支付事件桥接到管理后台看板
	go func() {
		err := subscriber.Subscribe(context.Background(), func(event *pubsub.PaymentEvent) {
			if err := wsHub.Broadcast(&ws.Message{Type: event.Type, Data: event}); err != nil {
				log.Printf("Failed to broadcast payment event: %v", err)
			}
		})
		if err != nil {
			log.Printf("Payment event subscription stopped: %v", err)
		}
	}()

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	txnRepo := repository.NewTransactionRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	contentRepo := repository.NewContentRepository(db)

	// 初始化基础组件
	emailService := email.NewService(&cfg.Email)
	stateStore := oauth.NewStateStore(rdb)

	// 初始化 Service
	subscriptionService := service.NewSubscriptionService(userRepo)
	ledgerService := service.NewLedgerService(db, txnRepo, userRepo, subscriptionService, receiptQueue, publisher)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, contentRepo, subscriptionService)
	entitlementService := service.NewEntitlementService(subscriptionService, enrollmentService)
	contentService := service.NewContentService(contentRepo, enrollmentService, entitlementService)
	authService := service.NewAuthService(userRepo, subscriptionService, emailService, cfg)
	userService := service.NewUserService(userRepo, cfg)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService, stateStore)
	userHandler := handler.NewUserHandler(userService)
	billingHandler := handler.NewBillingHandler(ledgerService, subscriptionService, cfg)
	recipeHandler := handler.NewRecipeHandler(contentService)
	courseHandler := handler.NewCourseHandler(contentService, enrollmentService)
	adminHandler := handler.NewAdminHandler(ledgerService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, userRepo, cfg.JWT.Secret)

	// 启动定时任务
	cronService := cron.NewService(userRepo, receiptQueue)
	cronService.Start()
	defer cronService.Stop()

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		userHandler,
		billingHandler,
		recipeHandler,
		courseHandler,
		adminHandler,
		websocketHandler,
		userRepo,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
