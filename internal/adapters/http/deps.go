package http

import (
	"github.com/nats-io/nats.go"

	"github.com/kaamlink/kaamlink/internal/adapters/postgres"
	"github.com/kaamlink/kaamlink/internal/adapters/valkey"
	"github.com/kaamlink/kaamlink/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Jobs           *usecases.JobService
	Applications   *usecases.ApplicationService
	Urgent         *usecases.UrgentJobService
	Training       *usecases.TrainingService
	Certifications *usecases.CertificationService
	KYC            *usecases.KYCService
	Workers        *usecases.WorkerService
	Employers      *usecases.EmployerService
	NATS           *nats.Conn
	DB             *postgres.DB
	Cache          *valkey.Cache
}
