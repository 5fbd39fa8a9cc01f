package main

import (
	"context"
	"log"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/kaamlink/kaamlink/internal/adapters/nats"
	"github.com/kaamlink/kaamlink/internal/adapters/notify"
	"github.com/kaamlink/kaamlink/internal/adapters/postgres"
	"github.com/kaamlink/kaamlink/internal/core/ports"
	"github.com/kaamlink/kaamlink/internal/core/usecases"
	"github.com/kaamlink/kaamlink/internal/pkg/config"
	"github.com/kaamlink/kaamlink/internal/workflows"
)

func main() {
	cfg, err := config.Load("kaamlink-certifier")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	certRepo := postgres.NewCertificationRepo(db)
	trainingRepo := postgres.NewTrainingRepo(db)

	// The workflow sends the notification itself (with compensation on
	// failure), so the service gets no notifier here.
	certSvc := usecases.NewCertificationService(certRepo, trainingRepo, nil)

	var notifier ports.NotificationService
	nc, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		log.Printf("nats unavailable, pushes will be logged only: %v", err)
	} else {
		defer nc.Drain()
		notifier = notify.NewPushNotifier(nc)
	}

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort: "localhost:7233",
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, "certification-queue", worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.CertificationWorkflow)
	w.RegisterActivity(&workflows.CertificationActivities{
		Certifications: certSvc,
		CertRepo:       certRepo,
		Training:       trainingRepo,
		Notifier:       notifier,
	})

	log.Println("certifier worker started")
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
