package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kaamlink/kaamlink/internal/core/domain"
	"github.com/kaamlink/kaamlink/internal/core/usecases"
)

// --- Mock UrgentJobRepository ---

type mockUrgentRepo struct {
	createFn     func(ctx context.Context, job *domain.UrgentJob) error
	getByIDFn    func(ctx context.Context, id string) (*domain.UrgentJob, error)
	listOpenFn   func(ctx context.Context, category string, limit int) ([]domain.UrgentJob, error)
	findNearbyFn func(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]domain.UrgentJob, error)
	setStatusFn  func(ctx context.Context, id, status string) error
	matches      []domain.UrgentMatch
}

func (m *mockUrgentRepo) Create(ctx context.Context, job *domain.UrgentJob) error {
	if m.createFn != nil {
		return m.createFn(ctx, job)
	}
	return nil
}

func (m *mockUrgentRepo) GetByID(ctx context.Context, id string) (*domain.UrgentJob, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUrgentRepo) ListOpen(ctx context.Context, category string, limit int) ([]domain.UrgentJob, error) {
	if m.listOpenFn != nil {
		return m.listOpenFn(ctx, category, limit)
	}
	return nil, nil
}

func (m *mockUrgentRepo) FindNearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]domain.UrgentJob, error) {
	if m.findNearbyFn != nil {
		return m.findNearbyFn(ctx, lat, lon, radiusKm, limit)
	}
	return nil, nil
}

func (m *mockUrgentRepo) SetStatus(ctx context.Context, id, status string) error {
	if m.setStatusFn != nil {
		return m.setStatusFn(ctx, id, status)
	}
	return nil
}

func (m *mockUrgentRepo) RecordMatch(ctx context.Context, match *domain.UrgentMatch) error {
	m.matches = append(m.matches, *match)
	return nil
}

func (m *mockUrgentRepo) ListMatches(ctx context.Context, urgentJobID string) ([]domain.UrgentMatch, error) {
	return m.matches, nil
}

func (m *mockUrgentRepo) AcceptMatch(ctx context.Context, urgentJobID, workerID string) (*domain.UrgentMatch, error) {
	for i := range m.matches {
		if m.matches[i].UrgentJobID == urgentJobID && m.matches[i].WorkerID == workerID {
			if m.matches[i].AcceptedAt == nil {
				now := time.Now()
				m.matches[i].AcceptedAt = &now
			}
			return &m.matches[i], nil
		}
	}
	return nil, errors.New("no such match")
}

// --- Mock WorkerRepository ---

type mockWorkerRepo struct {
	findNearbyFn func(ctx context.Context, lat, lon, radiusKm float64, skill string, limit int) ([]domain.Worker, error)
}

func (m *mockWorkerRepo) Create(ctx context.Context, w *domain.Worker) error { return nil }
func (m *mockWorkerRepo) GetByID(ctx context.Context, id string) (*domain.Worker, error) {
	return nil, nil
}
func (m *mockWorkerRepo) UpdateAvailability(ctx context.Context, id string, available bool, loc *domain.GeoPoint) error {
	return nil
}
func (m *mockWorkerRepo) SetKYCStatus(ctx context.Context, id string, status string) error {
	return nil
}
func (m *mockWorkerRepo) FindNearby(ctx context.Context, lat, lon, radiusKm float64, skill string, limit int) ([]domain.Worker, error) {
	if m.findNearbyFn != nil {
		return m.findNearbyFn(ctx, lat, lon, radiusKm, skill, limit)
	}
	return nil, nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	urgentJobs []domain.UrgentJob
	matchess   []domain.UrgentMatch
}

func (m *mockPublisher) PublishUrgentJob(ctx context.Context, job *domain.UrgentJob) error {
	m.urgentJobs = append(m.urgentJobs, *job)
	return nil
}
func (m *mockPublisher) PublishMatch(ctx context.Context, match *domain.UrgentMatch) error {
	m.matchess = append(m.matchess, *match)
	return nil
}
func (m *mockPublisher) PublishKYCDecision(ctx context.Context, rec *domain.KYCRecord) error {
	return nil
}
func (m *mockPublisher) PublishBroadcast(ctx context.Context, data []byte) error { return nil }

// --- Mock LocationProvider ---

type mockLocation struct {
	point *domain.GeoPoint
	err   error
}

func (m *mockLocation) Resolve(ctx context.Context) (*domain.GeoPoint, error) {
	return m.point, m.err
}

func pt(lat, lon float64) *domain.GeoPoint { return &domain.GeoPoint{Lat: lat, Lon: lon} }

// --- Distance annotation and sorting ---

func TestAnnotateDistances_SkipsMissingCoordinates(t *testing.T) {
	jobs := []domain.UrgentJob{
		{ID: "a", Location: pt(27.7172, 85.3240)},
		{ID: "b"}, // no coordinates
		{ID: "c", Location: pt(28.2096, 83.9856)},
	}

	usecases.AnnotateDistances(jobs, domain.GeoPoint{Lat: 27.7172, Lon: 85.3240})

	if jobs[0].DistanceKm == nil || *jobs[0].DistanceKm != 0 {
		t.Errorf("job at reference point should have distance 0, got %v", jobs[0].DistanceKm)
	}
	if jobs[1].DistanceKm != nil {
		t.Errorf("job without coordinates must not be annotated, got %v", *jobs[1].DistanceKm)
	}
	if jobs[2].DistanceKm == nil {
		t.Fatal("job with coordinates was not annotated")
	}
	if d := *jobs[2].DistanceKm; d < 140 || d > 145 {
		t.Errorf("Kathmandu-Pokhara distance = %.1f, want ~142.4", d)
	}
}

func TestSortByDistance_MissingCoordinatesLast(t *testing.T) {
	// 5 jobs, 2 without coordinates. The 3 locatable jobs must come first
	// in ascending distance order; the other 2 keep their relative order.
	jobs := []domain.UrgentJob{
		{ID: "far", Location: pt(28.2096, 83.9856)},   // ~142 km
		{ID: "nocoord-1"},                             //
		{ID: "near", Location: pt(27.7154, 85.3123)},  // ~1 km
		{ID: "nocoord-2"},                             //
		{ID: "mid", Location: pt(27.6710, 85.42984)},  // ~12 km
	}

	usecases.AnnotateDistances(jobs, domain.GeoPoint{Lat: 27.7172, Lon: 85.3240})
	usecases.SortByDistance(jobs)

	want := []string{"near", "mid", "far", "nocoord-1", "nocoord-2"}
	for i, id := range want {
		if jobs[i].ID != id {
			t.Fatalf("position %d: got %s, want %s (order %v)", i, jobs[i].ID, id, ids(jobs))
		}
	}
}

func ids(jobs []domain.UrgentJob) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

// --- Feed ---

func TestFeed_LocationUnavailable_DegradesToUnsorted(t *testing.T) {
	original := []domain.UrgentJob{
		{ID: "far", Location: pt(28.2096, 83.9856)},
		{ID: "near", Location: pt(27.7154, 85.3123)},
	}
	repo := &mockUrgentRepo{
		listOpenFn: func(ctx context.Context, category string, limit int) ([]domain.UrgentJob, error) {
			jobs := make([]domain.UrgentJob, len(original))
			copy(jobs, original)
			return jobs, nil
		},
	}
	loc := &mockLocation{err: domain.ErrLocationUnavailable}

	svc := usecases.NewUrgentJobService(repo, &mockWorkerRepo{}, &mockPublisher{}, loc)
	jobs, annotated, err := svc.Feed(context.Background(), "", nil, "distance", 10)
	if err != nil {
		t.Fatalf("feed must not fail on location unavailability: %v", err)
	}
	if annotated {
		t.Error("expected distance_available=false")
	}
	// The listing is unmodified: same membership, same order, no distances.
	if len(jobs) != 2 || jobs[0].ID != "far" || jobs[1].ID != "near" {
		t.Fatalf("job list modified: %v", ids(jobs))
	}
	for _, j := range jobs {
		if j.DistanceKm != nil {
			t.Errorf("job %s annotated without a location fix", j.ID)
		}
	}
}

func TestFeed_ProviderFix_SortsByDistance(t *testing.T) {
	repo := &mockUrgentRepo{
		listOpenFn: func(ctx context.Context, category string, limit int) ([]domain.UrgentJob, error) {
			return []domain.UrgentJob{
				{ID: "far", Location: pt(28.2096, 83.9856)},
				{ID: "near", Location: pt(27.7154, 85.3123)},
			}, nil
		},
	}
	loc := &mockLocation{point: pt(27.7172, 85.3240)}

	svc := usecases.NewUrgentJobService(repo, &mockWorkerRepo{}, &mockPublisher{}, loc)
	jobs, annotated, err := svc.Feed(context.Background(), "", nil, "distance", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !annotated {
		t.Fatal("expected distances to be annotated")
	}
	if jobs[0].ID != "near" || jobs[1].ID != "far" {
		t.Errorf("wrong order: %v", ids(jobs))
	}
}

func TestFeed_ExplicitRefWins(t *testing.T) {
	repo := &mockUrgentRepo{
		listOpenFn: func(ctx context.Context, category string, limit int) ([]domain.UrgentJob, error) {
			return []domain.UrgentJob{{ID: "a", Location: pt(27.7, 85.3)}}, nil
		},
	}
	// Provider would fail, but the client supplied coordinates.
	loc := &mockLocation{err: domain.ErrLocationUnavailable}

	svc := usecases.NewUrgentJobService(repo, &mockWorkerRepo{}, &mockPublisher{}, loc)
	_, annotated, err := svc.Feed(context.Background(), "", pt(27.7172, 85.3240), "", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !annotated {
		t.Error("client-supplied coordinates should annotate distances")
	}
}

// --- Post ---

func TestPost_DefaultsAndPublish(t *testing.T) {
	var created *domain.UrgentJob
	repo := &mockUrgentRepo{
		createFn: func(ctx context.Context, job *domain.UrgentJob) error {
			created = job
			return nil
		},
	}
	pub := &mockPublisher{}

	svc := usecases.NewUrgentJobService(repo, &mockWorkerRepo{}, pub, nil)
	job := &domain.UrgentJob{Title: "Plumber needed", Category: "plumbing", Location: pt(27.7, 85.3), RadiusKm: 400}
	if err := svc.Post(context.Background(), job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created.Status != domain.UrgentOpen {
		t.Errorf("status = %s, want open", created.Status)
	}
	if created.RadiusKm != 5 {
		t.Errorf("out-of-range radius should fall back to 5, got %v", created.RadiusKm)
	}
	if len(pub.urgentJobs) != 1 {
		t.Errorf("expected 1 published urgent job, got %d", len(pub.urgentJobs))
	}
}

func TestPost_WithoutPublisher(t *testing.T) {
	var created *domain.UrgentJob
	repo := &mockUrgentRepo{
		createFn: func(ctx context.Context, job *domain.UrgentJob) error {
			created = job
			return nil
		},
	}

	// No broker configured: posting must still persist the job.
	svc := usecases.NewUrgentJobService(repo, &mockWorkerRepo{}, nil, nil)
	job := &domain.UrgentJob{Title: "Shift cover", Category: "cleaning"}
	if err := svc.Post(context.Background(), job); err != nil {
		t.Fatalf("post without publisher: %v", err)
	}
	if created == nil {
		t.Fatal("job was not persisted")
	}
}

func TestPost_RejectsInvalidCoordinates(t *testing.T) {
	svc := usecases.NewUrgentJobService(&mockUrgentRepo{}, &mockWorkerRepo{}, &mockPublisher{}, nil)
	job := &domain.UrgentJob{Title: "x", Location: pt(120, 85.3)}
	if err := svc.Post(context.Background(), job); err == nil {
		t.Error("expected error for latitude out of range")
	}
}

// --- Matching ---

func TestMatchWorkers_FiltersUnverified(t *testing.T) {
	repo := &mockUrgentRepo{}
	workers := &mockWorkerRepo{
		findNearbyFn: func(ctx context.Context, lat, lon, radiusKm float64, skill string, limit int) ([]domain.Worker, error) {
			return []domain.Worker{
				{ID: "w1", KYCStatus: domain.KYCApproved, Location: pt(27.716, 85.32)},
				{ID: "w2", KYCStatus: domain.KYCPending, Location: pt(27.716, 85.32)},
				{ID: "w3", KYCStatus: domain.KYCApproved, Location: nil},
			}, nil
		},
	}
	pub := &mockPublisher{}

	svc := usecases.NewUrgentJobService(repo, workers, pub, nil)
	job := &domain.UrgentJob{ID: "uj1", Category: "plumbing", Location: pt(27.7172, 85.3240), RadiusKm: 5}

	matches, err := svc.MatchWorkers(context.Background(), job, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 || matches[0].WorkerID != "w1" {
		t.Fatalf("expected only the verified locatable worker, got %+v", matches)
	}
	if matches[0].DistanceKm <= 0 || matches[0].DistanceKm > 1 {
		t.Errorf("match distance %.3f km out of expected range", matches[0].DistanceKm)
	}
	if len(pub.matchess) != 1 {
		t.Errorf("expected 1 published match, got %d", len(pub.matchess))
	}
}

func TestMatchWorkers_NoCoordinates(t *testing.T) {
	svc := usecases.NewUrgentJobService(&mockUrgentRepo{}, &mockWorkerRepo{}, &mockPublisher{}, nil)
	_, err := svc.MatchWorkers(context.Background(), &domain.UrgentJob{ID: "uj1"}, 10)
	if err == nil {
		t.Error("expected error for urgent job without coordinates")
	}
}

func TestCancel_OnlyOpenJobs(t *testing.T) {
	repo := &mockUrgentRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.UrgentJob, error) {
			return &domain.UrgentJob{ID: id, Status: domain.UrgentMatched}, nil
		},
	}
	svc := usecases.NewUrgentJobService(repo, &mockWorkerRepo{}, &mockPublisher{}, nil)
	if err := svc.Cancel(context.Background(), "uj1"); err == nil {
		t.Error("expected error cancelling a matched job")
	}
}
