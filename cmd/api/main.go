package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/kaamlink/kaamlink/internal/adapters/http"
	"github.com/kaamlink/kaamlink/internal/adapters/location"
	natsadapter "github.com/kaamlink/kaamlink/internal/adapters/nats"
	"github.com/kaamlink/kaamlink/internal/adapters/notify"
	"github.com/kaamlink/kaamlink/internal/adapters/postgres"
	"github.com/kaamlink/kaamlink/internal/adapters/valkey"
	"github.com/kaamlink/kaamlink/internal/core/ports"
	"github.com/kaamlink/kaamlink/internal/core/usecases"
	"github.com/kaamlink/kaamlink/internal/pkg/config"
	"github.com/kaamlink/kaamlink/internal/pkg/logging"
	"github.com/kaamlink/kaamlink/internal/pkg/metrics"
	"github.com/kaamlink/kaamlink/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("kaamlink-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Export pool stats for Prometheus
	go func() {
		t := time.NewTicker(15 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Cache. The interface stays nil on failure so services never see a
	// typed-nil *valkey.Cache behind a non-nil interface.
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		defer cache.Close()
		cacheSvc = cache
	}

	// NATS. Same rule: only a live publisher goes into the interface.
	var pub ports.EventPublisher
	nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer nc.Close()
		pub = nc
	}

	// Raw NATS connection for the WebSocket relay and push gateway
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}
	var notifier ports.NotificationService
	if natsConn != nil {
		notifier = notify.NewPushNotifier(natsConn)
	}

	// Server-side location fallback for clients without coordinates
	locProvider := location.FromConfig(cfg.Location)

	// Repos
	workerRepo := postgres.NewWorkerRepo(db)
	employerRepo := postgres.NewEmployerRepo(db)
	jobRepo := postgres.NewJobRepo(db)
	appRepo := postgres.NewApplicationRepo(db)
	urgentRepo := postgres.NewUrgentJobRepo(db)
	trainingRepo := postgres.NewTrainingRepo(db)
	certRepo := postgres.NewCertificationRepo(db)
	kycRepo := postgres.NewKYCRepo(db)

	// Use cases
	jobSvc := usecases.NewJobService(jobRepo, cacheSvc)
	appSvc := usecases.NewApplicationService(appRepo, jobRepo)
	urgentSvc := usecases.NewUrgentJobService(urgentRepo, workerRepo, pub, locProvider)
	trainingSvc := usecases.NewTrainingService(trainingRepo, cacheSvc)
	certSvc := usecases.NewCertificationService(certRepo, trainingRepo, notifier)
	kycSvc := usecases.NewKYCService(kycRepo, workerRepo, pub)
	workerSvc := usecases.NewWorkerService(workerRepo)
	employerSvc := usecases.NewEmployerService(employerRepo)

	deps := &http.Dependencies{
		Jobs:           jobSvc,
		Applications:   appSvc,
		Urgent:         urgentSvc,
		Training:       trainingSvc,
		Certifications: certSvc,
		KYC:            kycSvc,
		Workers:        workerSvc,
		Employers:      employerSvc,
		NATS:           natsConn,
		DB:             db,
		Cache:          cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "KaamLink API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.kaamlink.com.np",
		AllowMethods:     "GET,POST,PUT,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
