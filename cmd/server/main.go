package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"artifact-approval-service/internal/adapters/primary/http/handlers"
	"artifact-approval-service/internal/adapters/primary/http/middleware"
	"artifact-approval-service/internal/adapters/secondary/postgres"
	"artifact-approval-service/internal/adapters/secondary/sqlite"
	"artifact-approval-service/internal/config"
	"artifact-approval-service/internal/core/ports/output"
	"artifact-approval-service/internal/core/services"
	"artifact-approval-service/internal/tracing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

const (
	serviceName    = "artifact-approval-service"
	serviceVersion = "0.1.0"
)

// storage is the set of repositories plus the hooks main needs for health
// checks and shutdown, independent of the driver behind them.
type storage struct {
	projects  ports.ProjectRepository
	artifacts ports.ArtifactRepository
	versions  ports.ArtifactVersionRepository
	ping      func(ctx context.Context) error
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	if cfg.Tracing.Enabled {
		if err := tracing.Init(serviceName, serviceVersion, cfg.Tracing.Output); err != nil {
			log.Fatalf("init tracing: %v", err)
		}
		log.Info("tracing enabled")
	}

	store, err := openStorage(context.Background(), cfg)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer store.close()
	log.WithField("driver", cfg.Storage.Driver).Info("storage ready")

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Core Services (Application Layer)
	artifactSvc := services.NewArtifactService(store.artifacts, store.projects)
	versionSvc := services.NewArtifactVersionService(store.versions)

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(artifactSvc, versionSvc)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	api := router.Group("/api")
	h.RegisterRoutes(api)

	// Health check with storage ping
	router.GET("/healthz", func(c *gin.Context) {
		if err := store.ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("server forced shutdown: %v", err)
	}
	if err := tracing.Shutdown(ctx); err != nil {
		log.Warnf("tracing shutdown: %v", err)
	}

	log.Info("server stopped")
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		return &storage{
			projects:  store.Projects(),
			artifacts: store.Artifacts(),
			versions:  store.Versions(),
			ping:      store.Ping,
			close: func() {
				if err := store.Close(); err != nil {
					log.Warnf("close sqlite store: %v", err)
				}
			},
		}, nil

	default:
		// Create database pool
		poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("parse db config: %w", err)
		}
		poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
		poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
		poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, fmt.Errorf("create db pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping db: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate db: %w", err)
		}
		log.Info("database connection established")

		return &storage{
			projects:  postgres.NewProjectRepository(pool),
			artifacts: postgres.NewArtifactRepository(pool),
			versions:  postgres.NewArtifactVersionRepository(pool),
			ping:      pool.Ping,
			close:     pool.Close,
		}, nil
	}
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
