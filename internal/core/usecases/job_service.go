package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kaamlink/kaamlink/internal/core/domain"
	"github.com/kaamlink/kaamlink/internal/core/ports"
)

// JobService handles job-posting business logic.
type JobService struct {
	jobs  ports.JobRepository
	cache ports.CacheService
}

// NewJobService creates a new JobService.
func NewJobService(jobs ports.JobRepository, cache ports.CacheService) *JobService {
	return &JobService{jobs: jobs, cache: cache}
}

// Create validates and stores a new posting.
func (s *JobService) Create(ctx context.Context, job *domain.JobPosting) error {
	if job.Title == "" {
		return fmt.Errorf("title is required")
	}
	if job.EmployerID == "" {
		return fmt.Errorf("employer_id is required")
	}
	if job.WageMax > 0 && job.WageMin > job.WageMax {
		return fmt.Errorf("wage_min %.0f exceeds wage_max %.0f", job.WageMin, job.WageMax)
	}
	job.Status = domain.JobOpen
	job.CreatedAt = time.Now()
	return s.jobs.Create(ctx, job)
}

// List returns postings filtered by category and status, with the total
// count for pagination.
func (s *JobService) List(ctx context.Context, category, status string, limit, offset int) ([]domain.JobPosting, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	if status == "" {
		status = domain.JobOpen
	}

	// Try cache for the common first page
	cacheKey := fmt.Sprintf("jobs:list:%s:%s:%d:%d", category, status, limit, offset)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var cached struct {
				Jobs  []domain.JobPosting `json:"jobs"`
				Total int                 `json:"total"`
			}
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached.Jobs, cached.Total, nil
			}
		}
	}

	jobs, total, err := s.jobs.List(ctx, category, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	// Listings churn quickly, keep the cache short
	if s.cache != nil {
		payload := struct {
			Jobs  []domain.JobPosting `json:"jobs"`
			Total int                 `json:"total"`
		}{jobs, total}
		if data, err := json.Marshal(payload); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 60)
		}
	}

	return jobs, total, nil
}

// Search performs fuzzy + full-text search on titles and descriptions.
func (s *JobService) Search(ctx context.Context, query string, limit int) ([]domain.JobPosting, error) {
	if query == "" {
		return nil, fmt.Errorf("search query must not be empty")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.jobs.Search(ctx, query, limit)
}

// GetByID returns a single posting.
func (s *JobService) GetByID(ctx context.Context, id string) (*domain.JobPosting, error) {
	cacheKey := "jobs:id:" + id
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var job domain.JobPosting
			if err := json.Unmarshal(data, &job); err == nil {
				return &job, nil
			}
		}
	}

	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(job); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}

	return job, nil
}

// Close marks an open posting closed and invalidates its cache entry.
func (s *JobService) Close(ctx context.Context, id string) error {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if job.Status != domain.JobOpen {
		return fmt.Errorf("job %s is %s, only open jobs can be closed", id, job.Status)
	}
	if err := s.jobs.SetStatus(ctx, id, domain.JobClosed); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "jobs:id:"+id)
	}
	return nil
}
