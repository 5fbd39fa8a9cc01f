package usecases

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/kaamlink/kaamlink/internal/core/domain"
	"github.com/kaamlink/kaamlink/internal/core/ports"
	"github.com/kaamlink/kaamlink/internal/pkg/geo"
)

// UrgentJobService handles short-notice gig posting, listing, and matching.
type UrgentJobService struct {
	urgent    ports.UrgentJobRepository
	workers   ports.WorkerRepository
	publisher ports.EventPublisher
	location  ports.LocationProvider
}

// NewUrgentJobService creates a new UrgentJobService.
func NewUrgentJobService(
	urgent ports.UrgentJobRepository,
	workers ports.WorkerRepository,
	publisher ports.EventPublisher,
	location ports.LocationProvider,
) *UrgentJobService {
	return &UrgentJobService{urgent: urgent, workers: workers, publisher: publisher, location: location}
}

// AnnotateDistances fills DistanceKm on every job that carries coordinates,
// measured from ref. Jobs without coordinates are left unannotated; that is
// a data condition, not an error.
func AnnotateDistances(jobs []domain.UrgentJob, ref domain.GeoPoint) {
	for i := range jobs {
		if jobs[i].Location == nil {
			jobs[i].DistanceKm = nil
			continue
		}
		d := geo.Haversine(ref.Lat, ref.Lon, jobs[i].Location.Lat, jobs[i].Location.Lon)
		jobs[i].DistanceKm = &d
	}
}

// SortByDistance orders jobs ascending by annotated distance. Jobs without
// a distance compare as +Inf, so they keep their relative order at the end.
func SortByDistance(jobs []domain.UrgentJob) {
	dist := func(j *domain.UrgentJob) float64 {
		if j.DistanceKm == nil {
			return math.Inf(1)
		}
		return *j.DistanceKm
	}
	sort.SliceStable(jobs, func(i, k int) bool {
		return dist(&jobs[i]) < dist(&jobs[k])
	})
}

// Post validates and stores an urgent job, then announces it for matching.
func (s *UrgentJobService) Post(ctx context.Context, job *domain.UrgentJob) error {
	if job.Title == "" {
		return fmt.Errorf("title is required")
	}
	if job.Location != nil {
		if job.Location.Lat < -90 || job.Location.Lat > 90 ||
			job.Location.Lon < -180 || job.Location.Lon > 180 {
			return fmt.Errorf("invalid coordinates: %.4f, %.4f", job.Location.Lat, job.Location.Lon)
		}
	}
	if job.RadiusKm <= 0 || job.RadiusKm > 50 {
		job.RadiusKm = 5
	}
	job.Status = domain.UrgentOpen
	job.PostedAt = time.Now()
	if job.ExpiresAt.IsZero() {
		job.ExpiresAt = job.PostedAt.Add(4 * time.Hour)
	}

	if err := s.urgent.Create(ctx, job); err != nil {
		return fmt.Errorf("create urgent job: %w", err)
	}

	// Matching happens out of band; a lost announcement only delays it.
	if s.publisher != nil {
		_ = s.publisher.PublishUrgentJob(ctx, job)
	}

	return nil
}

// Nearby returns open urgent jobs within radiusKm of a point, annotated and
// nearest first.
func (s *UrgentJobService) Nearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]domain.UrgentJob, error) {
	if radiusKm <= 0 || radiusKm > 50 {
		radiusKm = 10
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.urgent.FindNearby(ctx, lat, lon, radiusKm, limit)
}

// Feed returns the open urgent-job listing. When ref is nil the caller's
// position is resolved through the LocationProvider; if that fails with
// ErrLocationUnavailable the listing is returned unannotated and unsorted
// rather than failing the request. The second return reports whether
// distances were annotated.
func (s *UrgentJobService) Feed(ctx context.Context, category string, ref *domain.GeoPoint, sortMode string, limit int) ([]domain.UrgentJob, bool, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	jobs, err := s.urgent.ListOpen(ctx, category, limit)
	if err != nil {
		return nil, false, err
	}

	if ref == nil && s.location != nil {
		p, err := s.location.Resolve(ctx)
		switch {
		case err == nil:
			ref = p
		case errors.Is(err, domain.ErrLocationUnavailable):
			// Degrade: listing without distances.
		default:
			return nil, false, err
		}
	}
	if ref == nil {
		return jobs, false, nil
	}

	AnnotateDistances(jobs, *ref)
	if sortMode == "distance" {
		SortByDistance(jobs)
	}
	return jobs, true, nil
}

// GetByID returns a single urgent job.
func (s *UrgentJobService) GetByID(ctx context.Context, id string) (*domain.UrgentJob, error) {
	return s.urgent.GetByID(ctx, id)
}

// Matches lists the matches recorded for an urgent job.
func (s *UrgentJobService) Matches(ctx context.Context, urgentJobID string) ([]domain.UrgentMatch, error) {
	return s.urgent.ListMatches(ctx, urgentJobID)
}

// Accept marks a match accepted by the worker. Only KYC-approved workers
// may accept.
func (s *UrgentJobService) Accept(ctx context.Context, urgentJobID, workerID string) (*domain.UrgentMatch, error) {
	w, err := s.workers.GetByID(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("worker not found: %w", err)
	}
	if w.KYCStatus != domain.KYCApproved {
		return nil, fmt.Errorf("worker %s is not verified", workerID)
	}

	m, err := s.urgent.AcceptMatch(ctx, urgentJobID, workerID)
	if err != nil {
		return nil, fmt.Errorf("accept match: %w", err)
	}
	return m, nil
}

// Cancel marks an open urgent job as cancelled.
func (s *UrgentJobService) Cancel(ctx context.Context, id string) error {
	job, err := s.urgent.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if job.Status != domain.UrgentOpen {
		return fmt.Errorf("urgent job %s is %s, only open jobs can be cancelled", id, job.Status)
	}
	return s.urgent.SetStatus(ctx, id, domain.UrgentCancelled)
}

// MatchWorkers finds available KYC-approved workers inside the job's own
// radius, records matches, and publishes notifications. Returns the matches
// made. Jobs without coordinates cannot be matched.
func (s *UrgentJobService) MatchWorkers(ctx context.Context, job *domain.UrgentJob, limit int) ([]domain.UrgentMatch, error) {
	if job.Location == nil {
		return nil, fmt.Errorf("urgent job %s has no coordinates", job.ID)
	}
	if limit <= 0 || limit > 20 {
		limit = 10
	}

	workers, err := s.workers.FindNearby(ctx, job.Location.Lat, job.Location.Lon, job.RadiusKm, job.Category, limit)
	if err != nil {
		return nil, fmt.Errorf("find nearby workers: %w", err)
	}

	var matches []domain.UrgentMatch
	for _, w := range workers {
		if w.KYCStatus != domain.KYCApproved || w.Location == nil {
			continue
		}
		m := domain.UrgentMatch{
			UrgentJobID: job.ID,
			WorkerID:    w.ID,
			DistanceKm:  geo.Haversine(job.Location.Lat, job.Location.Lon, w.Location.Lat, w.Location.Lon),
			NotifiedAt:  time.Now(),
		}
		if err := s.urgent.RecordMatch(ctx, &m); err != nil {
			return matches, fmt.Errorf("record match: %w", err)
		}
		if s.publisher != nil {
			_ = s.publisher.PublishMatch(ctx, &m)
		}
		matches = append(matches, m)
	}

	if len(matches) > 0 {
		if err := s.urgent.SetStatus(ctx, job.ID, domain.UrgentMatched); err != nil {
			return matches, fmt.Errorf("set matched: %w", err)
		}
	}
	return matches, nil
}
