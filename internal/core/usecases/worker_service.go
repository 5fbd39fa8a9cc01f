package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/kaamlink/kaamlink/internal/core/domain"
	"github.com/kaamlink/kaamlink/internal/core/ports"
)

// WorkerService handles worker registration and availability.
type WorkerService struct {
	workers ports.WorkerRepository
}

// NewWorkerService creates a new WorkerService.
func NewWorkerService(workers ports.WorkerRepository) *WorkerService {
	return &WorkerService{workers: workers}
}

// Register creates a worker profile. New workers start unverified.
func (s *WorkerService) Register(ctx context.Context, w *domain.Worker) error {
	if w.FullName == "" || w.Phone == "" {
		return fmt.Errorf("full_name and phone are required")
	}
	w.KYCStatus = domain.KYCPending
	w.CreatedAt = time.Now()
	return s.workers.Create(ctx, w)
}

// GetByID returns a worker profile.
func (s *WorkerService) GetByID(ctx context.Context, id string) (*domain.Worker, error) {
	return s.workers.GetByID(ctx, id)
}

// SetAvailability toggles availability and, optionally, refreshes the
// worker's last known position.
func (s *WorkerService) SetAvailability(ctx context.Context, id string, available bool, loc *domain.GeoPoint) error {
	if loc != nil {
		if loc.Lat < -90 || loc.Lat > 90 || loc.Lon < -180 || loc.Lon > 180 {
			return fmt.Errorf("invalid coordinates: %.4f, %.4f", loc.Lat, loc.Lon)
		}
	}
	return s.workers.UpdateAvailability(ctx, id, available, loc)
}
