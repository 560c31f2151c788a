package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/qs3c/classifieds_server/config"
	"github.com/qs3c/classifieds_server/internal/api/handler"
	"github.com/qs3c/classifieds_server/internal/api/middleware"
)

type Router struct {
	authHandler     *handler.AuthHandler
	accountHandler  *handler.AccountHandler
	categoryHandler *handler.CategoryHandler
	entryHandler    *handler.EntryHandler
	imageHandler    *handler.ImageHandler
	adminHandler    *handler.AdminHandler
	accountChecker  middleware.AccountChecker
	limiter         *middleware.IPRateLimiter
	cfg             *config.Config
	log             *slog.Logger

	// mediaDir 本地存储时挂载 /media 静态目录
	mediaDir string
}

func NewRouter(
	authHandler *handler.AuthHandler,
	accountHandler *handler.AccountHandler,
	categoryHandler *handler.CategoryHandler,
	entryHandler *handler.EntryHandler,
	imageHandler *handler.ImageHandler,
	adminHandler *handler.AdminHandler,
	accountChecker middleware.AccountChecker,
	limiter *middleware.IPRateLimiter,
	cfg *config.Config,
	log *slog.Logger,
) *Router {
	return &Router{
		authHandler:     authHandler,
		accountHandler:  accountHandler,
		categoryHandler: categoryHandler,
		entryHandler:    entryHandler,
		imageHandler:    imageHandler,
		adminHandler:    adminHandler,
		accountChecker:  accountChecker,
		limiter:         limiter,
		cfg:             cfg,
		log:             log,
	}
}

// ServeMedia 本地存储时调用
func (r *Router) ServeMedia(dir string) {
	r.mediaDir = dir
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(r.log))
	engine.Use(middleware.Metrics())
	engine.Use(middleware.CORS(r.cfg.CORS))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if r.mediaDir != "" {
		engine.Static("/media", r.mediaDir)
	}

	api := engine.Group("/api/v1")
	{
		// 公开接口 - 注册与登录，按 IP 限流
		throttled := api.Group("")
		throttled.Use(middleware.RateLimit(r.limiter, r.log))
		{
			throttled.POST("/users", r.authHandler.Register)
			throttled.POST("/token", r.authHandler.Login)
		}

		// 公开接口 - 分类
		api.GET("/categories", r.categoryHandler.List)

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret, r.accountChecker))
		{
			me := authenticated.Group("/me")
			{
				me.GET("", r.accountHandler.GetProfile)
				me.PUT("", r.accountHandler.ReplaceProfile)
				me.PATCH("", r.accountHandler.UpdateProfile)
				me.GET("/quota", r.accountHandler.GetQuota)
			}

			entries := authenticated.Group("/entries")
			{
				entries.GET("", r.entryHandler.List)
				entries.POST("", r.entryHandler.Create)
				entries.GET("/:id", r.entryHandler.Get)
				entries.PUT("/:id", r.entryHandler.Replace)
				entries.PATCH("/:id", r.entryHandler.Patch)
				entries.DELETE("/:id", r.entryHandler.Delete)
				entries.POST("/:id/upload-image", r.imageHandler.Upload)
				entries.DELETE("/:id/images/:imageId", r.imageHandler.Delete)
			}
		}

		// 管理端
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(r.cfg.JWT.Secret, r.accountChecker), middleware.RequireStaff(r.accountChecker))
		{
			admin.GET("/plans", r.adminHandler.ListPlans)
			admin.POST("/plans", r.adminHandler.CreatePlan)
			admin.POST("/categories", r.adminHandler.CreateCategory)
			admin.GET("/users", r.adminHandler.ListAccounts)
			admin.PUT("/users/:id/plan", r.adminHandler.AssignPlan)
			admin.PATCH("/users/:id/active", r.adminHandler.SetActive)
		}
	}

	return engine
}
