package api

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/recipe_club_server/config"
	"github.com/qs3c/recipe_club_server/internal/api/handler"
	"github.com/qs3c/recipe_club_server/internal/api/middleware"
	"github.com/qs3c/recipe_club_server/internal/repository"
)

type Router struct {
	authHandler      *handler.AuthHandler
	userHandler      *handler.UserHandler
	billingHandler   *handler.BillingHandler
	recipeHandler    *handler.RecipeHandler
	courseHandler    *handler.CourseHandler
	adminHandler     *handler.AdminHandler
	websocketHandler *handler.WebSocketHandler
	userRepo         *repository.UserRepository
	cfg              *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	billingHandler *handler.BillingHandler,
	recipeHandler *handler.RecipeHandler,
	courseHandler *handler.CourseHandler,
	adminHandler *handler.AdminHandler,
	websocketHandler *handler.WebSocketHandler,
	userRepo *repository.UserRepository,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:      authHandler,
		userHandler:      userHandler,
		billingHandler:   billingHandler,
		recipeHandler:    recipeHandler,
		courseHandler:    courseHandler,
		adminHandler:     adminHandler,
		websocketHandler: websocketHandler,
		userRepo:         userRepo,
		cfg:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/verify-email", r.authHandler.VerifyEmail)
			auth.GET("/github", r.authHandler.GithubAuth)
			auth.GET("/github/callback", r.authHandler.GithubCallback)
		}

		// 公开接口 - 套餐
		api.GET("/plans", r.billingHandler.ListPlans)

		// 支付渠道回调，靠共享密钥鉴权，不走用户 JWT
		api.POST("/billing/webhook", r.billingHandler.Webhook)

		// 内容读取 - 可选认证，访问级别随登录态和订阅状态变化
		content := api.Group("")
		content.Use(middleware.OptionalAuth(r.cfg.JWT.Secret))
		{
			content.GET("/recipes", r.recipeHandler.List)
			content.GET("/recipes/:id", r.recipeHandler.Get)
			content.GET("/courses", r.courseHandler.List)
			content.GET("/courses/:id", r.courseHandler.Get)
			content.GET("/courses/:id/lessons/:lesson_id", r.courseHandler.GetLesson)
		}

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			// 用户
			user := authenticated.Group("/user")
			{
				user.GET("/profile", r.userHandler.GetProfile)
				user.PUT("/profile", r.userHandler.UpdateProfile)
				user.GET("/subscription", r.billingHandler.GetSubscription)
				user.GET("/transactions", r.billingHandler.ListTransactions)
			}

			// 支付
			authenticated.POST("/billing/checkout", r.billingHandler.Checkout)

			// 报名
			authenticated.POST("/courses/:id/enroll", r.courseHandler.Enroll)
		}

		// 管理接口
		admin := api.Group("/admin")
		{
			// WebSocket 握手在 handler 里自行校验 token 和角色
			admin.GET("/ws", r.websocketHandler.Handle)

			adminAuth := admin.Group("")
			adminAuth.Use(middleware.Auth(r.cfg.JWT.Secret))
			adminAuth.Use(middleware.AdminOnly(r.userRepo))
			{
				adminAuth.POST("/transactions/:id/finalize", r.adminHandler.FinalizeTransaction)
			}
		}
	}

	return engine
}
