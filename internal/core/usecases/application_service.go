package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/kaamlink/kaamlink/internal/core/domain"
	"github.com/kaamlink/kaamlink/internal/core/ports"
)

// ApplicationService handles job applications.
type ApplicationService struct {
	applications ports.ApplicationRepository
	jobs         ports.JobRepository
}

// NewApplicationService creates a new ApplicationService.
func NewApplicationService(applications ports.ApplicationRepository, jobs ports.JobRepository) *ApplicationService {
	return &ApplicationService{applications: applications, jobs: jobs}
}

// Apply submits an application to an open job.
func (s *ApplicationService) Apply(ctx context.Context, app *domain.Application) error {
	if app.JobID == "" || app.WorkerID == "" {
		return fmt.Errorf("job_id and worker_id are required")
	}

	job, err := s.jobs.GetByID(ctx, app.JobID)
	if err != nil {
		return fmt.Errorf("job not found: %w", err)
	}
	if job.Status != domain.JobOpen {
		return fmt.Errorf("job %s is %s, applications are closed", job.ID, job.Status)
	}

	app.Status = domain.ApplicationPending
	app.AppliedAt = time.Now()
	app.UpdatedAt = app.AppliedAt
	return s.applications.Create(ctx, app)
}

// ListByJob returns all applications for a posting.
func (s *ApplicationService) ListByJob(ctx context.Context, jobID string) ([]domain.Application, error) {
	return s.applications.ListByJob(ctx, jobID)
}

// ListByWorker returns a worker's applications.
func (s *ApplicationService) ListByWorker(ctx context.Context, workerID string) ([]domain.Application, error) {
	return s.applications.ListByWorker(ctx, workerID)
}

// validApplicationTransitions maps a current status to its allowed successors.
var validApplicationTransitions = map[string][]string{
	domain.ApplicationPending:     {domain.ApplicationShortlisted, domain.ApplicationAccepted, domain.ApplicationRejected, domain.ApplicationWithdrawn},
	domain.ApplicationShortlisted: {domain.ApplicationAccepted, domain.ApplicationRejected, domain.ApplicationWithdrawn},
}

// Decide moves an application to a new status, enforcing transitions.
func (s *ApplicationService) Decide(ctx context.Context, id, status string) error {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return err
	}

	allowed := validApplicationTransitions[app.Status]
	for _, next := range allowed {
		if next == status {
			return s.applications.SetStatus(ctx, id, status)
		}
	}
	return fmt.Errorf("cannot move application from %s to %s", app.Status, status)
}
