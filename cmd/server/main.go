package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dentara/api/internal/config"
	v1 "github.com/dentara/api/internal/handler/v1"
	"github.com/dentara/api/internal/middleware"
	"github.com/dentara/api/internal/platform"
	"github.com/dentara/api/internal/repository"
	"github.com/dentara/api/internal/service"
	"github.com/dentara/api/pkg/auth"
	"github.com/dentara/api/pkg/logger"
	"github.com/dentara/api/pkg/metrics"
	"github.com/dentara/api/pkg/tracer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("loading config: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("building logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	if cfg.Tracing.Enabled {
		tp, err := tracer.Init(cfg.Tracing)
		if err != nil {
			return err
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Warn("tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	collector := metrics.NewCollector(cfg.App.Name)

	// The audit trail writes with the service-role key so entries land
	// regardless of the acting caller's row visibility. Without the key
	// the trail is disabled, not degraded to caller-scoped writes.
	var auditSvc *service.AuditService
	if cfg.Platform.ServiceKey != "" {
		auditClient := platform.New(cfg.Platform, "Bearer "+cfg.Platform.ServiceKey, log).WithCollector(collector)
		auditSvc = service.NewAuditService(repository.NewAuditRepository(auditClient), collector, log)
	} else {
		log.Warn("no platform service key configured; audit trail disabled")
		auditSvc = service.NewAuditService(nil, collector, log)
	}
	defer auditSvc.Shutdown()

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logging(log),
		middleware.Metrics(collector),
		middleware.CORS(cfg.CORS),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": cfg.App.Version})
	})
	router.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := router.Group("/api/v1", middleware.Auth(auth.NewValidator(cfg.Platform.JWTSecret)))
	v1.NewPatientHandler(cfg, auditSvc, collector, log).Register(api)
	v1.NewSubmissionHandler(cfg, auditSvc, log).Register(api)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.App.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}
