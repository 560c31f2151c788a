package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qs3c/classifieds_server/config"
	"github.com/qs3c/classifieds_server/internal/api"
	"github.com/qs3c/classifieds_server/internal/api/handler"
	"github.com/qs3c/classifieds_server/internal/api/middleware"
	"github.com/qs3c/classifieds_server/internal/database"
	"github.com/qs3c/classifieds_server/internal/pkg/cache"
	"github.com/qs3c/classifieds_server/internal/pkg/cron"
	"github.com/qs3c/classifieds_server/internal/pkg/logger"
	"github.com/qs3c/classifieds_server/internal/pkg/storage"
	"github.com/qs3c/classifieds_server/internal/repository"
	"github.com/qs3c/classifieds_server/internal/service"
)

func main() {
	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	// 初始化数据库
	db, err := database.Open(&cfg.Database)
	if err != nil {
		log.Error("Failed to connect database", "error", err)
		os.Exit(1)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}
	if _, err := database.Seed(db, cfg); err != nil {
		log.Error("Failed to seed database", "error", err)
		os.Exit(1)
	}
	log.Info("Database ready", "driver", cfg.Database.Driver)

	// 初始化 Redis（可选）
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, category cache disabled", "error", err)
		rdb = nil
	}
	categoryCache := cache.New(rdb, "classifieds:", time.Duration(cfg.Redis.CacheTTLSeconds)*time.Second)

	// 初始化图片存储
	store, err := storage.New(&cfg.Storage)
	if err != nil {
		log.Error("Failed to init storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage initialized", "driver", cfg.Storage.Driver)

	// 初始化 Repository
	planRepo := repository.NewPlanRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	imageRepo := repository.NewImageRepository(db)

	// 初始化 Service
	planService := service.NewPlanService(planRepo, cfg)
	accountService := service.NewAccountService(accountRepo, planService)
	authService := service.NewAuthService(accountRepo, cfg)
	quotaService := service.NewQuotaService(accountRepo, entryRepo, imageRepo)
	categoryService := service.NewCategoryService(categoryRepo, entryRepo, categoryCache, log)
	entryService := service.NewEntryService(entryRepo, accountRepo, quotaService, categoryService, store, log)
	imageService := service.NewImageService(entryService, accountRepo, imageRepo, quotaService, store, cfg.Upload, log)
	lifecycleService := service.NewLifecycleService(planRepo, entryRepo, store, log)

	// 初始化 Router
	router := api.NewRouter(
		handler.NewAuthHandler(accountService, authService),
		handler.NewAccountHandler(accountService, quotaService),
		handler.NewCategoryHandler(categoryService),
		handler.NewEntryHandler(entryService),
		handler.NewImageHandler(imageService, cfg),
		handler.NewAdminHandler(planService, categoryService, accountService),
		accountService,
		middleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		cfg,
		log,
	)
	if local, ok := store.(*storage.LocalStore); ok {
		router.ServeMedia(local.Dir())
	}
	engine := router.Setup()

	// 启动过期扫描
	sweeper := cron.NewService(lifecycleService, cfg.Lifecycle.SweepIntervalMinutes, cfg.Lifecycle.PurgeAfterDays, log)
	sweeper.Start()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info("Received shutdown signal")

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", "error", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info("Server shutdown complete")
}
