package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kaamlink/kaamlink/internal/core/domain"
	"github.com/kaamlink/kaamlink/internal/core/ports"
)

// TrainingService handles courses, enrollment, and progress tracking.
type TrainingService struct {
	training ports.TrainingRepository
	cache    ports.CacheService
}

// NewTrainingService creates a new TrainingService.
func NewTrainingService(training ports.TrainingRepository, cache ports.CacheService) *TrainingService {
	return &TrainingService{training: training, cache: cache}
}

// ListCourses returns the course catalogue, optionally filtered by category.
func (s *TrainingService) ListCourses(ctx context.Context, category string) ([]domain.TrainingCourse, error) {
	cacheKey := "courses:list:" + category
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var courses []domain.TrainingCourse
			if err := json.Unmarshal(data, &courses); err == nil {
				return courses, nil
			}
		}
	}

	courses, err := s.training.ListCourses(ctx, category)
	if err != nil {
		return nil, err
	}

	// Catalogue changes rarely; cache for 10 minutes
	if s.cache != nil {
		if data, err := json.Marshal(courses); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}

	return courses, nil
}

// GetCourse returns a single course.
func (s *TrainingService) GetCourse(ctx context.Context, id string) (*domain.TrainingCourse, error) {
	return s.training.GetCourse(ctx, id)
}

// Enroll creates an enrollment for a worker; enrolling twice in the same
// course returns the existing enrollment unchanged.
func (s *TrainingService) Enroll(ctx context.Context, courseID, workerID string) (*domain.Enrollment, error) {
	if courseID == "" || workerID == "" {
		return nil, fmt.Errorf("course_id and worker_id are required")
	}

	if existing, err := s.training.GetEnrollment(ctx, courseID, workerID); err == nil && existing != nil {
		return existing, nil
	}

	if _, err := s.training.GetCourse(ctx, courseID); err != nil {
		return nil, fmt.Errorf("course not found: %w", err)
	}

	now := time.Now()
	e := &domain.Enrollment{
		CourseID:       courseID,
		WorkerID:       workerID,
		Progress:       0,
		EnrolledAt:     now,
		LastActivityAt: now,
	}
	if err := s.training.CreateEnrollment(ctx, e); err != nil {
		return nil, fmt.Errorf("create enrollment: %w", err)
	}
	return e, nil
}

// RecordProgress applies a client autosave: adds study minutes, raises the
// progress percentage (never lowers it), and stamps completion at 100.
// Safe to call repeatedly with the same values.
func (s *TrainingService) RecordProgress(ctx context.Context, courseID, workerID string, progress float64, minutesDelta int) (*domain.Enrollment, error) {
	e, err := s.training.GetEnrollment(ctx, courseID, workerID)
	if err != nil {
		return nil, fmt.Errorf("enrollment not found: %w", err)
	}

	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	if progress > e.Progress {
		e.Progress = progress
	}
	if minutesDelta > 0 {
		e.MinutesSpent += minutesDelta
	}
	e.LastActivityAt = time.Now()

	if e.Progress >= 100 && e.CompletedAt == nil {
		now := time.Now()
		e.CompletedAt = &now
	}

	if err := s.training.UpdateEnrollment(ctx, e); err != nil {
		return nil, fmt.Errorf("update enrollment: %w", err)
	}
	return e, nil
}

// ListEnrollments returns a worker's enrollments.
func (s *TrainingService) ListEnrollments(ctx context.Context, workerID string) ([]domain.Enrollment, error) {
	return s.training.ListEnrollmentsByWorker(ctx, workerID)
}
