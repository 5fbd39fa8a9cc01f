package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	natsadapter "github.com/kaamlink/kaamlink/internal/adapters/nats"
	"github.com/kaamlink/kaamlink/internal/adapters/postgres"
	"github.com/kaamlink/kaamlink/internal/core/domain"
	"github.com/kaamlink/kaamlink/internal/core/usecases"
	"github.com/kaamlink/kaamlink/internal/pkg/config"
	"github.com/kaamlink/kaamlink/internal/pkg/logging"
	"github.com/kaamlink/kaamlink/internal/pkg/metrics"
)

// The matcher consumes urgent-job announcements from JetStream, finds
// nearby verified workers, and records and publishes the matches.
func main() {
	cfg, err := config.Load("kaamlink-matcher")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// NATS — the matcher is useless without it, so fail hard
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats publisher: %v", err)
	}
	defer pub.Close()

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer sub.Close()

	urgentRepo := postgres.NewUrgentJobRepo(db)
	workerRepo := postgres.NewWorkerRepo(db)
	svc := usecases.NewUrgentJobService(urgentRepo, workerRepo, pub, nil)

	err = sub.SubscribeUrgentJobs(ctx, func(ctx context.Context, job *domain.UrgentJob) error {
		start := time.Now()
		matches, err := svc.MatchWorkers(ctx, job, 10)
		if err != nil {
			slog.Error("matching failed", "urgent_job_id", job.ID, "error", err)
			return err
		}
		metrics.MatchDuration.Observe(time.Since(start).Seconds())
		metrics.MatchesMade.WithLabelValues(job.Category).Add(float64(len(matches)))
		slog.Info("urgent job matched",
			"urgent_job_id", job.ID,
			"category", job.Category,
			"matches", len(matches),
		)
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	// Prometheus scrape endpoint
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(":9100", mux); err != nil {
			slog.Error("metrics server", "error", err)
		}
	}()

	slog.Info("matcher started", "nats", cfg.NATS.URL)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutting down matcher", "signal", sig.String())
	cancel()
}
