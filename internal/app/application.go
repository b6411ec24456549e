package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"block-builder-backend/internal/blocks"
	"block-builder-backend/internal/config"
	"block-builder-backend/internal/handlers"
	"block-builder-backend/internal/middleware"
	"block-builder-backend/internal/models"
	"block-builder-backend/internal/repository"
	"block-builder-backend/internal/service"
	"block-builder-backend/pkg/cache"
	"block-builder-backend/pkg/logger"
)

type Options struct {
	// DB replaces the configured database connection, mainly for tests.
	DB *gorm.DB
	// Generator replaces the default block generator.
	Generator *blocks.Generator
}

type Application struct {
	cfg     *config.Config
	options Options

	db          *gorm.DB
	cache       *cache.Cache
	rateLimiter *middleware.RateLimitManager

	repositories repositoryContainer
	services     serviceContainer
	handlers     handlerContainer

	router *gin.Engine
	server *http.Server
}

type repositoryContainer struct {
	User        repository.UserRepository
	BlockConfig repository.BlockConfigRepository
}

type serviceContainer struct {
	Auth      *service.AuthService
	Block     *service.BlockService
	Generator *service.GeneratorService
}

type handlerContainer struct {
	Auth      *handlers.AuthHandler
	Block     *handlers.BlockHandler
	Generator *handlers.GeneratorHandler
}

func New(cfg *config.Config, opts Options) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg:     cfg,
		options: opts,
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.runMigrations(); err != nil {
		return nil, err
	}

	if err := app.initCache(); err != nil {
		return nil, err
	}

	app.initRepositories()
	app.initServices()
	app.initHandlers()
	app.initRouter()

	app.server = &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        app.router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return app, nil
}

func (a *Application) Run() error {
	logger.Info("Server starting", map[string]interface{}{
		"port":        a.cfg.Port,
		"environment": a.cfg.Environment,
		"db_driver":   a.cfg.DBDriver,
	})

	return a.server.ListenAndServe()
}

func (a *Application) Shutdown(ctx context.Context) error {
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return err
		}
	}

	if a.rateLimiter != nil {
		_ = a.rateLimiter.Shutdown()
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Error(err, "Failed to close cache connection", nil)
		}
	}

	if a.db != nil && a.options.DB == nil {
		if sqlDB, err := a.db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	return nil
}

func (a *Application) Router() *gin.Engine {
	return a.router
}

func (a *Application) initDatabase() error {
	if a.options.DB != nil {
		a.db = a.options.DB
		return nil
	}

	logger.Info("Connecting to database", map[string]interface{}{"driver": a.cfg.DBDriver})

	var dialector gorm.Dialector
	switch a.cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(a.cfg.SQLitePath)
	default:
		dialector = postgres.Open(a.cfg.DatabaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.NewGormLogger(),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if a.cfg.DBDriver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	a.db = db
	return nil
}

func (a *Application) runMigrations() error {
	if a.db == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	logger.Info("Running database migrations", nil)

	if err := a.db.AutoMigrate(
		&models.User{},
		&models.BlockConfig{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Database migration completed", nil)
	return nil
}

func (a *Application) initCache() error {
	c, err := cache.NewCache(a.cfg.RedisURL, a.cfg.EnableCache)
	if err != nil {
		logger.Warn("Cache unavailable, continuing without it", map[string]interface{}{"error": err.Error()})
		c, _ = cache.NewCache("", false)
	}
	// Cached records may predate the current schema.
	if err := c.InvalidateAllBlocks(); err != nil {
		logger.Warn("Failed to flush cached blocks", map[string]interface{}{"error": err.Error()})
	}
	a.cache = c
	return nil
}

func (a *Application) initRepositories() {
	a.repositories = repositoryContainer{
		User:        repository.NewUserRepository(a.db),
		BlockConfig: repository.NewBlockConfigRepository(a.db),
	}
}

func (a *Application) initServices() {
	generator := service.NewGeneratorService(a.options.Generator)

	blockService := service.NewBlockService(a.repositories.BlockConfig, generator, a.cache)
	blockService.SetBlockLimit(a.cfg.MaxBlocksPerUser)

	a.services = serviceContainer{
		Auth:      service.NewAuthService(a.repositories.User, a.cfg.JWTSecret, a.cfg.TokenTTL, a.cfg.OwnerOpenID),
		Block:     blockService,
		Generator: generator,
	}
}

func (a *Application) initHandlers() {
	a.handlers = handlerContainer{
		Auth:      handlers.NewAuthHandler(a.services.Auth, a.cfg.SessionCookie, int(a.cfg.TokenTTL.Seconds())),
		Block:     handlers.NewBlockHandler(a.services.Block),
		Generator: handlers.NewGeneratorHandler(a.services.Generator),
	}
}

func (a *Application) initRouter() {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	a.rateLimiter = middleware.NewRateLimitManager(context.Background())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(logger.GinLogger())
	if a.cfg.EnableMetrics {
		router.Use(middleware.MetricsMiddleware())
	}
	router.Use(middleware.SecurityHeadersMiddleware())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", a.health)
	if a.cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	authRequired := middleware.AuthMiddleware(a.services.Auth, a.cfg.SessionCookie)
	authOptional := middleware.OptionalAuthMiddleware(a.services.Auth, a.cfg.SessionCookie)
	rateLimited := middleware.RateLimitMiddleware(a.cfg, a.rateLimiter)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RobotsTagMiddleware())
	{
		public := v1.Group("")
		{
			public.GET("/blocks/templates", a.handlers.Generator.Templates)
			public.POST("/blocks/generate", rateLimited, a.handlers.Generator.Generate)

			public.GET("/auth/me", authOptional, a.handlers.Auth.Me)
			public.POST("/auth/logout", a.handlers.Auth.Logout)
			if a.cfg.IsDevelopment() {
				public.POST("/auth/login", rateLimited, a.handlers.Auth.Login)
			}
		}

		protected := v1.Group("/blocks")
		protected.Use(authRequired)
		{
			protected.POST("", a.handlers.Block.Create)
			protected.GET("", a.handlers.Block.List)
			protected.GET("/:id", a.handlers.Block.GetByID)
			protected.PUT("/:id", a.handlers.Block.Update)
			protected.DELETE("/:id", a.handlers.Block.Delete)
			protected.POST("/:id/generate", a.handlers.Block.Regenerate)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	a.router = router
}

func (a *Application) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{"database": "ok", "cache": "disabled"}

	if sqlDB, err := a.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		status = http.StatusServiceUnavailable
		checks["database"] = "unavailable"
	}
	if a.cache.Enabled() {
		checks["cache"] = "ok"
		if err := a.cache.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			checks["cache"] = "unavailable"
		}
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{
		"status": state,
		"checks": checks,
		"time":   time.Now().Format(time.RFC3339),
	})
}
