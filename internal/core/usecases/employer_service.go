package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/kaamlink/kaamlink/internal/core/domain"
	"github.com/kaamlink/kaamlink/internal/core/ports"
)

// EmployerService handles employer accounts.
type EmployerService struct {
	employers ports.EmployerRepository
}

// NewEmployerService creates a new EmployerService.
func NewEmployerService(employers ports.EmployerRepository) *EmployerService {
	return &EmployerService{employers: employers}
}

// Register creates an employer account.
func (s *EmployerService) Register(ctx context.Context, e *domain.Employer) error {
	if e.Name == "" || e.Slug == "" {
		return fmt.Errorf("name and slug are required")
	}
	e.CreatedAt = time.Now()
	return s.employers.Create(ctx, e)
}

// GetBySlug returns an employer by slug.
func (s *EmployerService) GetBySlug(ctx context.Context, slug string) (*domain.Employer, error) {
	return s.employers.GetBySlug(ctx, slug)
}

// List returns all employers.
func (s *EmployerService) List(ctx context.Context) ([]domain.Employer, error) {
	return s.employers.List(ctx)
}
