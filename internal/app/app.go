package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pictora/server/internal/module/album"
	"github.com/pictora/server/internal/module/category"
	"github.com/pictora/server/internal/module/ledger"
	"github.com/pictora/server/internal/module/storage"
	"github.com/pictora/server/internal/module/task"
	"github.com/pictora/server/internal/shared/cache"
	"github.com/pictora/server/internal/shared/config"
	"github.com/pictora/server/internal/shared/database"
	"github.com/pictora/server/internal/utils/metrics"
	"github.com/pictora/server/internal/utils/middleware"
)

// App wires every module together and owns the HTTP server.
type App struct {
	cfg    *config.Config
	log    *zap.Logger
	db     *gorm.DB
	redis  *redis.Client
	server *http.Server
}

// New builds the application from configuration.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrate(
		&ledger.Account{}, &ledger.Transaction{},
		&album.Album{}, &category.Config{},
	); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The balance cache is advisory, so a missing Redis degrades to
		// database reads instead of failing startup.
		log.Warn("redis unavailable, balance cache disabled", zap.Error(err))
		redisClient = nil
	}

	ledgerSvc := ledger.NewService(
		ledger.NewRepository(db),
		ledger.NewBalanceCache(redisClient),
		log.Named("ledger"),
	)
	dispatcher := task.NewDispatcher(cfg.Vendor, log.Named("dispatcher"))
	orchestrator := task.NewOrchestrator(ledgerSvc, dispatcher, log.Named("orchestrator"))
	poller := task.NewPoller(cfg.Vendor, log.Named("poller"))
	albumSvc := album.NewService(album.NewRepository(db), log.Named("album"))
	categorySvc := category.NewService(category.NewRepository(db), log.Named("category"))

	storageSvc, err := storage.NewService(ctx, cfg.Storage, log.Named("storage"))
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	router := newRouter(cfg, log,
		task.NewHandler(orchestrator, poller, log.Named("task")),
		ledger.NewHandler(ledgerSvc, log.Named("ledger")),
		album.NewHandler(albumSvc, log.Named("album")),
		category.NewHandler(categorySvc, log.Named("category")),
		storage.NewHandler(storageSvc, log.Named("storage")),
	)

	return &App{
		cfg:   cfg,
		log:   log,
		db:    db,
		redis: redisClient,
		server: &http.Server{
			Addr:         cfg.Server.Address,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}, nil
}

func newRouter(
	cfg *config.Config,
	log *zap.Logger,
	taskHandler *task.Handler,
	ledgerHandler *ledger.Handler,
	albumHandler *album.Handler,
	categoryHandler *category.Handler,
	storageHandler *storage.Handler,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logging(log.Named("http")),
		middleware.Recovery(log.Named("http")),
		middleware.CORS(),
		metrics.Middleware(),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")

	// Tokenless routes: clients poll shared task links without a login.
	api.GET("/public/tasks/:id", taskHandler.QueryTask)
	api.GET("/albums", albumHandler.List)
	api.GET("/albums/:id", albumHandler.Get)
	api.GET("/categories", categoryHandler.List)

	authed := api.Group("", middleware.Auth(cfg.Auth.JWTSecret))
	authed.POST("/tasks", taskHandler.CreateTask)
	authed.GET("/tasks/:id", taskHandler.QueryTask)
	authed.GET("/users/:uid/balance", ledgerHandler.GetBalance)
	authed.GET("/users/:uid/transactions", ledgerHandler.ListTransactions)
	authed.POST("/uploads", storageHandler.Upload)

	admin := api.Group("/admin", middleware.AdminAuth(cfg.Auth.JWTSecret))
	admin.GET("/albums", albumHandler.ListAll)
	admin.POST("/albums", albumHandler.Create)
	admin.PUT("/albums/:id", albumHandler.Update)
	admin.DELETE("/albums/:id", albumHandler.Delete)
	admin.POST("/categories", categoryHandler.Create)
	admin.PUT("/categories/:categoryId", categoryHandler.Update)
	admin.POST("/transactions", ledgerHandler.Credit)

	return router
}

// Run starts the HTTP server and blocks until it stops.
func (a *App) Run() error {
	a.log.Info("server starting", zap.String("address", a.cfg.Server.Address))
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and closes connections.
func (a *App) Shutdown(ctx context.Context) error {
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("close redis", zap.Error(err))
		}
	}
	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Warn("close database", zap.Error(err))
		}
	}
	return nil
}
