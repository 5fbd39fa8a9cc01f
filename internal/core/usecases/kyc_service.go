package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/kaamlink/kaamlink/internal/core/domain"
	"github.com/kaamlink/kaamlink/internal/core/ports"
)

// KYCService handles identity-verification submissions and reviews.
type KYCService struct {
	kyc       ports.KYCRepository
	workers   ports.WorkerRepository
	publisher ports.EventPublisher
}

// NewKYCService creates a new KYCService.
func NewKYCService(kyc ports.KYCRepository, workers ports.WorkerRepository, publisher ports.EventPublisher) *KYCService {
	return &KYCService{kyc: kyc, workers: workers, publisher: publisher}
}

// Submit files a new KYC record for a worker. A worker with a pending or
// approved record cannot submit again; a rejected worker may resubmit.
func (s *KYCService) Submit(ctx context.Context, rec *domain.KYCRecord) error {
	if rec.WorkerID == "" || rec.DocumentType == "" || rec.DocumentNumber == "" {
		return fmt.Errorf("worker_id, document_type and document_number are required")
	}

	if latest, err := s.kyc.LatestByWorker(ctx, rec.WorkerID); err == nil && latest != nil {
		switch latest.Status {
		case domain.KYCPending, domain.KYCInReview:
			return fmt.Errorf("a submission is already under review")
		case domain.KYCApproved:
			return fmt.Errorf("worker is already verified")
		}
	}

	rec.Status = domain.KYCPending
	rec.SubmittedAt = time.Now()
	if err := s.kyc.Create(ctx, rec); err != nil {
		return fmt.Errorf("create kyc record: %w", err)
	}
	return s.workers.SetKYCStatus(ctx, rec.WorkerID, domain.KYCPending)
}

// Status returns a worker's latest KYC record.
func (s *KYCService) Status(ctx context.Context, workerID string) (*domain.KYCRecord, error) {
	return s.kyc.LatestByWorker(ctx, workerID)
}

// PendingQueue returns submissions awaiting review.
func (s *KYCService) PendingQueue(ctx context.Context, limit int) ([]domain.KYCRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.kyc.ListByStatus(ctx, domain.KYCPending, limit)
}

// BeginReview moves a pending record into review.
func (s *KYCService) BeginReview(ctx context.Context, id string) error {
	rec, err := s.kyc.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec.Status != domain.KYCPending {
		return fmt.Errorf("record is %s, expected %s", rec.Status, domain.KYCPending)
	}
	return s.kyc.SetStatus(ctx, id, domain.KYCInReview, "")
}

// Decide approves or rejects a record under review, mirrors the decision
// onto the worker, and publishes it.
func (s *KYCService) Decide(ctx context.Context, id, decision, notes string) error {
	if decision != domain.KYCApproved && decision != domain.KYCRejected {
		return fmt.Errorf("decision must be %s or %s", domain.KYCApproved, domain.KYCRejected)
	}

	rec, err := s.kyc.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec.Status != domain.KYCInReview && rec.Status != domain.KYCPending {
		return fmt.Errorf("cannot decide a record in state %s", rec.Status)
	}

	if err := s.kyc.SetStatus(ctx, id, decision, notes); err != nil {
		return err
	}
	if err := s.workers.SetKYCStatus(ctx, rec.WorkerID, decision); err != nil {
		return err
	}

	rec.Status = decision
	rec.Notes = notes
	if s.publisher != nil {
		_ = s.publisher.PublishKYCDecision(ctx, rec)
	}
	return nil
}
