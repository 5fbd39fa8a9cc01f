package usecases_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/kaamlink/kaamlink/internal/core/domain"
	"github.com/kaamlink/kaamlink/internal/core/usecases"
)

// --- Mock KYCRepository ---

type mockKYCRepo struct {
	records map[string]*domain.KYCRecord
	latest  map[string]*domain.KYCRecord // workerID -> record
	nextID  int
}

func newMockKYCRepo() *mockKYCRepo {
	return &mockKYCRepo{
		records: make(map[string]*domain.KYCRecord),
		latest:  make(map[string]*domain.KYCRecord),
	}
}

func (m *mockKYCRepo) Create(ctx context.Context, rec *domain.KYCRecord) error {
	m.nextID++
	rec.ID = fmt.Sprintf("kyc-%d", m.nextID)
	m.records[rec.ID] = rec
	m.latest[rec.WorkerID] = rec
	return nil
}

func (m *mockKYCRepo) GetByID(ctx context.Context, id string) (*domain.KYCRecord, error) {
	if r, ok := m.records[id]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("no record %s", id)
}

func (m *mockKYCRepo) LatestByWorker(ctx context.Context, workerID string) (*domain.KYCRecord, error) {
	if r, ok := m.latest[workerID]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("no record for %s", workerID)
}

func (m *mockKYCRepo) ListByStatus(ctx context.Context, status string, limit int) ([]domain.KYCRecord, error) {
	var out []domain.KYCRecord
	for _, r := range m.records {
		if r.Status == status {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockKYCRepo) SetStatus(ctx context.Context, id, status, notes string) error {
	r, ok := m.records[id]
	if !ok {
		return fmt.Errorf("no record %s", id)
	}
	r.Status = status
	r.Notes = notes
	return nil
}

type recordingWorkerRepo struct {
	mockWorkerRepo
	statuses map[string]string
}

func (m *recordingWorkerRepo) SetKYCStatus(ctx context.Context, id string, status string) error {
	if m.statuses == nil {
		m.statuses = make(map[string]string)
	}
	m.statuses[id] = status
	return nil
}

func submit(t *testing.T, svc *usecases.KYCService, workerID string) *domain.KYCRecord {
	t.Helper()
	rec := &domain.KYCRecord{WorkerID: workerID, DocumentType: "citizenship", DocumentNumber: "12-345"}
	if err := svc.Submit(context.Background(), rec); err != nil {
		t.Fatalf("submit: %v", err)
	}
	return rec
}

// --- Tests ---

func TestKYC_SubmitAndApprove(t *testing.T) {
	repo := newMockKYCRepo()
	workers := &recordingWorkerRepo{}
	svc := usecases.NewKYCService(repo, workers, &mockPublisher{})

	rec := submit(t, svc, "w1")
	if rec.Status != domain.KYCPending {
		t.Fatalf("status after submit = %s", rec.Status)
	}

	if err := svc.BeginReview(context.Background(), rec.ID); err != nil {
		t.Fatalf("begin review: %v", err)
	}
	if err := svc.Decide(context.Background(), rec.ID, domain.KYCApproved, "documents ok"); err != nil {
		t.Fatalf("decide: %v", err)
	}

	got, _ := svc.Status(context.Background(), "w1")
	if got.Status != domain.KYCApproved {
		t.Errorf("record status = %s, want approved", got.Status)
	}
	if workers.statuses["w1"] != domain.KYCApproved {
		t.Errorf("worker status = %s, want approved", workers.statuses["w1"])
	}
}

func TestKYC_DecideWithoutPublisher(t *testing.T) {
	repo := newMockKYCRepo()
	workers := &recordingWorkerRepo{}

	// No broker configured: the decision must still land.
	svc := usecases.NewKYCService(repo, workers, nil)

	rec := submit(t, svc, "w9")
	if err := svc.BeginReview(context.Background(), rec.ID); err != nil {
		t.Fatalf("begin review: %v", err)
	}
	if err := svc.Decide(context.Background(), rec.ID, domain.KYCApproved, "documents ok"); err != nil {
		t.Fatalf("decide without publisher: %v", err)
	}
	if workers.statuses["w9"] != domain.KYCApproved {
		t.Errorf("worker status = %s, want approved", workers.statuses["w9"])
	}
}

func TestKYC_DoubleSubmitBlocked(t *testing.T) {
	repo := newMockKYCRepo()
	svc := usecases.NewKYCService(repo, &recordingWorkerRepo{}, &mockPublisher{})

	submit(t, svc, "w1")
	rec := &domain.KYCRecord{WorkerID: "w1", DocumentType: "passport", DocumentNumber: "P-99"}
	if err := svc.Submit(context.Background(), rec); err == nil {
		t.Error("expected error submitting while pending")
	}
}

func TestKYC_ResubmitAfterRejection(t *testing.T) {
	repo := newMockKYCRepo()
	svc := usecases.NewKYCService(repo, &recordingWorkerRepo{}, &mockPublisher{})

	first := submit(t, svc, "w1")
	if err := svc.Decide(context.Background(), first.ID, domain.KYCRejected, "blurry document"); err != nil {
		t.Fatalf("reject: %v", err)
	}

	rec := &domain.KYCRecord{WorkerID: "w1", DocumentType: "citizenship", DocumentNumber: "12-345"}
	if err := svc.Submit(context.Background(), rec); err != nil {
		t.Errorf("rejected worker must be able to resubmit: %v", err)
	}
}

func TestKYC_InvalidDecision(t *testing.T) {
	repo := newMockKYCRepo()
	svc := usecases.NewKYCService(repo, &recordingWorkerRepo{}, &mockPublisher{})

	rec := submit(t, svc, "w1")
	if err := svc.Decide(context.Background(), rec.ID, "maybe", ""); err == nil {
		t.Error("expected error for unknown decision")
	}
}

func TestKYC_DecideTwiceBlocked(t *testing.T) {
	repo := newMockKYCRepo()
	svc := usecases.NewKYCService(repo, &recordingWorkerRepo{}, &mockPublisher{})

	rec := submit(t, svc, "w1")
	if err := svc.Decide(context.Background(), rec.ID, domain.KYCApproved, ""); err != nil {
		t.Fatal(err)
	}
	if err := svc.Decide(context.Background(), rec.ID, domain.KYCRejected, ""); err == nil {
		t.Error("expected error deciding an already-approved record")
	}
}
