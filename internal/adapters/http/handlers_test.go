package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	handler "github.com/kaamlink/kaamlink/internal/adapters/http"
	"github.com/kaamlink/kaamlink/internal/core/domain"
	"github.com/kaamlink/kaamlink/internal/core/usecases"
)

// ---- Mock repositories ----

type mockJobRepo struct {
	createFn  func(ctx context.Context, job *domain.JobPosting) error
	getByIDFn func(ctx context.Context, id string) (*domain.JobPosting, error)
	listFn    func(ctx context.Context, category, status string, limit, offset int) ([]domain.JobPosting, int, error)
	searchFn  func(ctx context.Context, query string, limit int) ([]domain.JobPosting, error)
}

func (m *mockJobRepo) Create(ctx context.Context, job *domain.JobPosting) error {
	if m.createFn != nil {
		return m.createFn(ctx, job)
	}
	return nil
}
func (m *mockJobRepo) GetByID(ctx context.Context, id string) (*domain.JobPosting, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, errors.New("not found")
}
func (m *mockJobRepo) List(ctx context.Context, category, status string, limit, offset int) ([]domain.JobPosting, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, category, status, limit, offset)
	}
	return nil, 0, nil
}
func (m *mockJobRepo) Search(ctx context.Context, query string, limit int) ([]domain.JobPosting, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return nil, nil
}
func (m *mockJobRepo) SetStatus(ctx context.Context, id, status string) error { return nil }

type mockApplicationRepo struct {
	createFn  func(ctx context.Context, app *domain.Application) error
	getByIDFn func(ctx context.Context, id string) (*domain.Application, error)
}

func (m *mockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	if m.createFn != nil {
		return m.createFn(ctx, app)
	}
	return nil
}
func (m *mockApplicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, errors.New("not found")
}
func (m *mockApplicationRepo) ListByJob(ctx context.Context, jobID string) ([]domain.Application, error) {
	return nil, nil
}
func (m *mockApplicationRepo) ListByWorker(ctx context.Context, workerID string) ([]domain.Application, error) {
	return nil, nil
}
func (m *mockApplicationRepo) SetStatus(ctx context.Context, id, status string) error { return nil }

type mockUrgentRepo struct {
	listOpenFn   func(ctx context.Context, category string, limit int) ([]domain.UrgentJob, error)
	findNearbyFn func(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]domain.UrgentJob, error)
	getByIDFn    func(ctx context.Context, id string) (*domain.UrgentJob, error)
}

func (m *mockUrgentRepo) Create(ctx context.Context, job *domain.UrgentJob) error { return nil }
func (m *mockUrgentRepo) GetByID(ctx context.Context, id string) (*domain.UrgentJob, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, errors.New("not found")
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
func (m *mockUrgentRepo) SetStatus(ctx context.Context, id, status string) error { return nil }
func (m *mockUrgentRepo) RecordMatch(ctx context.Context, match *domain.UrgentMatch) error {
	return nil
}
func (m *mockUrgentRepo) ListMatches(ctx context.Context, urgentJobID string) ([]domain.UrgentMatch, error) {
	return nil, nil
}
func (m *mockUrgentRepo) AcceptMatch(ctx context.Context, urgentJobID, workerID string) (*domain.UrgentMatch, error) {
	return nil, errors.New("no such match")
}

type mockWorkerRepo struct {
	getByIDFn func(ctx context.Context, id string) (*domain.Worker, error)
}

func (m *mockWorkerRepo) Create(ctx context.Context, w *domain.Worker) error { return nil }
func (m *mockWorkerRepo) GetByID(ctx context.Context, id string) (*domain.Worker, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, errors.New("not found")
}
func (m *mockWorkerRepo) UpdateAvailability(ctx context.Context, id string, available bool, loc *domain.GeoPoint) error {
	return nil
}
func (m *mockWorkerRepo) SetKYCStatus(ctx context.Context, id string, status string) error {
	return nil
}
func (m *mockWorkerRepo) FindNearby(ctx context.Context, lat, lon, radiusKm float64, skill string, limit int) ([]domain.Worker, error) {
	return nil, nil
}

type mockEmployerRepo struct {
	listFn func(ctx context.Context) ([]domain.Employer, error)
}

func (m *mockEmployerRepo) Create(ctx context.Context, e *domain.Employer) error { return nil }
func (m *mockEmployerRepo) GetBySlug(ctx context.Context, slug string) (*domain.Employer, error) {
	return nil, errors.New("not found")
}
func (m *mockEmployerRepo) List(ctx context.Context) ([]domain.Employer, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

type mockTrainingRepo struct {
	getCourseFn     func(ctx context.Context, id string) (*domain.TrainingCourse, error)
	getEnrollmentFn func(ctx context.Context, courseID, workerID string) (*domain.Enrollment, error)
}

func (m *mockTrainingRepo) ListCourses(ctx context.Context, category string) ([]domain.TrainingCourse, error) {
	return nil, nil
}
func (m *mockTrainingRepo) GetCourse(ctx context.Context, id string) (*domain.TrainingCourse, error) {
	if m.getCourseFn != nil {
		return m.getCourseFn(ctx, id)
	}
	return nil, errors.New("not found")
}
func (m *mockTrainingRepo) CreateEnrollment(ctx context.Context, e *domain.Enrollment) error {
	return nil
}
func (m *mockTrainingRepo) GetEnrollment(ctx context.Context, courseID, workerID string) (*domain.Enrollment, error) {
	if m.getEnrollmentFn != nil {
		return m.getEnrollmentFn(ctx, courseID, workerID)
	}
	return nil, errors.New("not found")
}
func (m *mockTrainingRepo) UpdateEnrollment(ctx context.Context, e *domain.Enrollment) error {
	return nil
}
func (m *mockTrainingRepo) ListEnrollmentsByWorker(ctx context.Context, workerID string) ([]domain.Enrollment, error) {
	return nil, nil
}

type mockCertRepo struct {
	getByCodeFn func(ctx context.Context, code string) (*domain.Certification, error)
}

func (m *mockCertRepo) Create(ctx context.Context, cert *domain.Certification) error { return nil }
func (m *mockCertRepo) GetByCode(ctx context.Context, code string) (*domain.Certification, error) {
	if m.getByCodeFn != nil {
		return m.getByCodeFn(ctx, code)
	}
	return nil, errors.New("not found")
}
func (m *mockCertRepo) ListByWorker(ctx context.Context, workerID string) ([]domain.Certification, error) {
	return nil, nil
}
func (m *mockCertRepo) Revoke(ctx context.Context, code string) error { return nil }
func (m *mockCertRepo) Delete(ctx context.Context, code string) error { return nil }

type mockKYCRepo struct {
	latestFn func(ctx context.Context, workerID string) (*domain.KYCRecord, error)
}

func (m *mockKYCRepo) Create(ctx context.Context, rec *domain.KYCRecord) error { return nil }
func (m *mockKYCRepo) GetByID(ctx context.Context, id string) (*domain.KYCRecord, error) {
	return nil, errors.New("not found")
}
func (m *mockKYCRepo) LatestByWorker(ctx context.Context, workerID string) (*domain.KYCRecord, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx, workerID)
	}
	return nil, nil
}
func (m *mockKYCRepo) ListByStatus(ctx context.Context, status string, limit int) ([]domain.KYCRecord, error) {
	return nil, nil
}
func (m *mockKYCRepo) SetStatus(ctx context.Context, id, status, notes string) error { return nil }

type mockPublisher struct{}

func (mockPublisher) PublishUrgentJob(ctx context.Context, job *domain.UrgentJob) error { return nil }
func (mockPublisher) PublishMatch(ctx context.Context, m *domain.UrgentMatch) error     { return nil }
func (mockPublisher) PublishKYCDecision(ctx context.Context, rec *domain.KYCRecord) error {
	return nil
}
func (mockPublisher) PublishBroadcast(ctx context.Context, data []byte) error { return nil }

// noLocation simulates a deployment without a usable location fallback.
type noLocation struct{}

func (noLocation) Resolve(ctx context.Context) (*domain.GeoPoint, error) {
	return nil, domain.ErrLocationUnavailable
}

// ---- Test helpers ----

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func makeDeps(opts ...func(*handler.Dependencies)) *handler.Dependencies {
	d := &handler.Dependencies{
		Jobs:           usecases.NewJobService(&mockJobRepo{}, nil),
		Applications:   usecases.NewApplicationService(&mockApplicationRepo{}, &mockJobRepo{}),
		Urgent:         usecases.NewUrgentJobService(&mockUrgentRepo{}, &mockWorkerRepo{}, mockPublisher{}, noLocation{}),
		Training:       usecases.NewTrainingService(&mockTrainingRepo{}, nil),
		Certifications: usecases.NewCertificationService(&mockCertRepo{}, &mockTrainingRepo{}, nil),
		KYC:            usecases.NewKYCService(&mockKYCRepo{}, &mockWorkerRepo{}, mockPublisher{}),
		Workers:        usecases.NewWorkerService(&mockWorkerRepo{}),
		Employers:      usecases.NewEmployerService(&mockEmployerRepo{}),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func readBody(t *testing.T, body io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return b
}

func urgentAt(id string, lat, lon float64) domain.UrgentJob {
	return domain.UrgentJob{
		ID:       id,
		Title:    "job " + id,
		Category: "plumbing",
		Status:   domain.UrgentOpen,
		Location: &domain.GeoPoint{Lat: lat, Lon: lon},
	}
}

// ---- Urgent feed tests ----

func TestUrgentFeed_DegradesWithoutLocation(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Urgent = usecases.NewUrgentJobService(&mockUrgentRepo{
			listOpenFn: func(ctx context.Context, category string, limit int) ([]domain.UrgentJob, error) {
				return []domain.UrgentJob{
					urgentAt("u1", 27.71, 85.32),
					{ID: "u2", Title: "no coords", Status: domain.UrgentOpen},
				}, nil
			},
		}, &mockWorkerRepo{}, mockPublisher{}, noLocation{})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/urgent-jobs?sort=distance", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Jobs              []domain.UrgentJob `json:"jobs"`
		Count             int                `json:"count"`
		DistanceAvailable bool               `json:"distance_available"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.DistanceAvailable {
		t.Error("expected distance_available=false without a position")
	}
	if result.Count != 2 {
		t.Errorf("expected 2 jobs, got %d", result.Count)
	}
	for _, j := range result.Jobs {
		if j.DistanceKm != nil {
			t.Errorf("job %s should not carry a distance", j.ID)
		}
	}
}

func TestUrgentFeed_SortsByDistance(t *testing.T) {
	// Caller is in Kathmandu; far job is in Pokhara, one job has no coords.
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Urgent = usecases.NewUrgentJobService(&mockUrgentRepo{
			listOpenFn: func(ctx context.Context, category string, limit int) ([]domain.UrgentJob, error) {
				return []domain.UrgentJob{
					urgentAt("far", 28.2096, 83.9856),
					{ID: "nocoord", Title: "no coords", Status: domain.UrgentOpen},
					urgentAt("near", 27.7180, 85.3250),
				}, nil
			},
		}, &mockWorkerRepo{}, mockPublisher{}, noLocation{})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/urgent-jobs?sort=distance&lat=27.7172&lon=85.3240", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Jobs              []domain.UrgentJob `json:"jobs"`
		DistanceAvailable bool               `json:"distance_available"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if !result.DistanceAvailable {
		t.Fatal("expected distance_available=true")
	}
	if len(result.Jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(result.Jobs))
	}
	want := []string{"near", "far", "nocoord"}
	for i, id := range want {
		if result.Jobs[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, result.Jobs[i].ID)
		}
	}
	if result.Jobs[2].DistanceKm != nil {
		t.Error("coordinate-less job should carry no distance")
	}
}

func TestUrgentFeed_InvalidCoordinates(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/urgent-jobs?lat=91&lon=0", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestNearbyUrgentJobs_MissingParams(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/urgent-jobs/nearby", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var apiErr struct {
		Status int    `json:"status"`
		Code   string `json:"code"`
	}
	json.NewDecoder(resp.Body).Decode(&apiErr)
	if apiErr.Code != "bad_request" {
		t.Errorf("expected bad_request error, got %s", apiErr.Code)
	}
}

func TestPostUrgentJob_DefaultsRadius(t *testing.T) {
	app := setupApp(makeDeps())

	body := `{"employer_id":"e1","title":"Fix burst pipe","category":"plumbing","location":{"lat":27.7,"lon":85.3},"wage_offer":1500}`
	req := httptest.NewRequest("POST", "/v1/urgent-jobs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, readBody(t, resp.Body))
	}

	var job domain.UrgentJob
	json.NewDecoder(resp.Body).Decode(&job)
	if job.RadiusKm != 5 {
		t.Errorf("expected default radius 5, got %g", job.RadiusKm)
	}
	if job.Status != domain.UrgentOpen {
		t.Errorf("expected open status, got %s", job.Status)
	}
}

func TestGetUrgentJob_NotFound(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/urgent-jobs/nope", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestLegacyGigsAlias_DeprecationHeaders(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/gigs", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Deprecation") != "true" {
		t.Error("expected Deprecation header on legacy alias")
	}
	if resp.Header.Get("Sunset") == "" {
		t.Error("expected Sunset header on legacy alias")
	}
}

// ---- Job posting tests ----

func TestListJobs_PaginationAndDistance(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Jobs = usecases.NewJobService(&mockJobRepo{
			listFn: func(ctx context.Context, category, status string, limit, offset int) ([]domain.JobPosting, int, error) {
				return []domain.JobPosting{
					{ID: "j1", Title: "Mason", Location: &domain.GeoPoint{Lat: 27.70, Lon: 85.32}},
					{ID: "j2", Title: "Cook"},
				}, 12, nil
			},
		}, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/jobs?lat=27.7172&lon=85.3240&limit=2", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Link"), `rel="next"`) {
		t.Error("expected next link header")
	}

	var result struct {
		Data []domain.JobPosting `json:"data"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if len(result.Data) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(result.Data))
	}
	if result.Data[0].DistanceKm == nil {
		t.Error("expected distance on job with coordinates")
	}
	if result.Data[1].DistanceKm != nil {
		t.Error("expected no distance on job without coordinates")
	}
}

func TestSearchJobs_MissingQuery(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/jobs/search", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateJob_Validation(t *testing.T) {
	app := setupApp(makeDeps())

	body := `{"employer_id":"e1","title":"","category":"masonry"}`
	req := httptest.NewRequest("POST", "/v1/jobs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestApply_ClosedJob(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Applications = usecases.NewApplicationService(&mockApplicationRepo{}, &mockJobRepo{
			getByIDFn: func(ctx context.Context, id string) (*domain.JobPosting, error) {
				return &domain.JobPosting{ID: id, Status: domain.JobClosed}, nil
			},
		})
	})
	app := setupApp(deps)

	body := `{"worker_id":"w1","cover_note":"I can start today"}`
	req := httptest.NewRequest("POST", "/v1/jobs/j1/applications", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 422 {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestDecideApplication_InvalidTransition(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Applications = usecases.NewApplicationService(&mockApplicationRepo{
			getByIDFn: func(ctx context.Context, id string) (*domain.Application, error) {
				return &domain.Application{ID: id, Status: domain.ApplicationRejected}, nil
			},
		}, &mockJobRepo{})
	})
	app := setupApp(deps)

	body := `{"status":"accepted"}`
	req := httptest.NewRequest("POST", "/v1/applications/a1/decision", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 409 {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

// ---- Training & certification tests ----

func TestProgress_NotEnrolled(t *testing.T) {
	app := setupApp(makeDeps())

	body := `{"worker_id":"w1","progress":50,"minutes_delta":10}`
	req := httptest.NewRequest("POST", "/v1/courses/c1/progress", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 422 {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestVerifyCertification_Revoked(t *testing.T) {
	revoked := time.Now().Add(-time.Hour)
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Certifications = usecases.NewCertificationService(&mockCertRepo{
			getByCodeFn: func(ctx context.Context, code string) (*domain.Certification, error) {
				return &domain.Certification{
					Code:      code,
					ExpiresAt: time.Now().AddDate(1, 0, 0),
					RevokedAt: &revoked,
				}, nil
			},
		}, &mockTrainingRepo{}, nil)
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/certifications/verify/KL-abc123", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Valid bool `json:"valid"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Valid {
		t.Error("revoked certification should not verify")
	}
}

func TestVerifyCertification_NotFound(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/certifications/verify/KL-unknown", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

// ---- KYC tests ----

func TestSubmitKYC_AlreadyPending(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.KYC = usecases.NewKYCService(&mockKYCRepo{
			latestFn: func(ctx context.Context, workerID string) (*domain.KYCRecord, error) {
				return &domain.KYCRecord{WorkerID: workerID, Status: domain.KYCPending}, nil
			},
		}, &mockWorkerRepo{}, mockPublisher{})
	})
	app := setupApp(deps)

	body := `{"worker_id":"w1","document_type":"citizenship","document_number":"12-34-56"}`
	req := httptest.NewRequest("POST", "/v1/kyc", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 409 {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestKYCStatus_NoSubmission(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/workers/w1/kyc", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

// ---- Employer & misc tests ----

func TestListEmployers_Pagination(t *testing.T) {
	employers := make([]domain.Employer, 5)
	for i := range employers {
		employers[i] = domain.Employer{ID: fmt.Sprintf("e%d", i), Name: fmt.Sprintf("Employer %d", i)}
	}

	deps := makeDeps(func(d *handler.Dependencies) {
		d.Employers = usecases.NewEmployerService(&mockEmployerRepo{
			listFn: func(ctx context.Context) ([]domain.Employer, error) { return employers, nil },
		})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/v1/employers?offset=2&limit=2", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data       []domain.Employer `json:"data"`
		Pagination struct {
			Offset int `json:"offset"`
			Total  int `json:"total"`
		} `json:"pagination"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Pagination.Total != 5 {
		t.Errorf("expected total 5, got %d", result.Pagination.Total)
	}
	if len(result.Data) != 2 {
		t.Errorf("expected 2 employers in page, got %d", len(result.Data))
	}
}

func TestHealthHandler(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("GET", "/v1/health", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Status string `json:"status"`
	}
	json.NewDecoder(resp.Body).Decode(&body)
	if body.Status != "healthy" {
		t.Errorf("expected healthy, got %s", body.Status)
	}
}

func TestGraphQL_VerifyCertification(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Certifications = usecases.NewCertificationService(&mockCertRepo{
			getByCodeFn: func(ctx context.Context, code string) (*domain.Certification, error) {
				return &domain.Certification{Code: code, ExpiresAt: time.Now().AddDate(1, 0, 0)}, nil
			},
		}, &mockTrainingRepo{}, nil)
	})
	app := setupApp(deps)

	body := `{"query":"{ verifyCertification(code: \"KL-abc\") { valid } }"}`
	req := httptest.NewRequest("POST", "/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data struct {
			VerifyCertification struct {
				Valid bool `json:"valid"`
			} `json:"verifyCertification"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if !result.Data.VerifyCertification.Valid {
		t.Error("expected valid certification")
	}
}
