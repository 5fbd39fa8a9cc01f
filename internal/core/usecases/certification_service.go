package usecases

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/kaamlink/kaamlink/internal/core/domain"
	"github.com/kaamlink/kaamlink/internal/core/ports"
)

// CertificationService issues and verifies course certifications.
type CertificationService struct {
	certifications ports.CertificationRepository
	training       ports.TrainingRepository
	notifier       ports.NotificationService
}

// NewCertificationService creates a new CertificationService.
func NewCertificationService(
	certifications ports.CertificationRepository,
	training ports.TrainingRepository,
	notifier ports.NotificationService,
) *CertificationService {
	return &CertificationService{
		certifications: certifications,
		training:       training,
		notifier:       notifier,
	}
}

// Issue creates a certification for a completed enrollment and notifies the
// worker. Certifications are valid for two years.
func (s *CertificationService) Issue(ctx context.Context, courseID, workerID string) (*domain.Certification, error) {
	e, err := s.training.GetEnrollment(ctx, courseID, workerID)
	if err != nil {
		return nil, fmt.Errorf("enrollment not found: %w", err)
	}
	if e.CompletedAt == nil {
		return nil, fmt.Errorf("course not completed: progress %.0f%%", e.Progress)
	}

	code, err := generateCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}

	cert := &domain.Certification{
		WorkerID:  workerID,
		CourseID:  courseID,
		Code:      code,
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().AddDate(2, 0, 0),
	}
	if err := s.certifications.Create(ctx, cert); err != nil {
		return nil, fmt.Errorf("create certification: %w", err)
	}

	// Best-effort
	if s.notifier != nil {
		course, err := s.training.GetCourse(ctx, courseID)
		name := courseID
		if err == nil {
			name = course.Title
		}
		body := fmt.Sprintf("Your certificate for %s is ready. Code: %s", name, code)
		_ = s.notifier.SendPush(ctx, workerID, "Certification issued", body)
	}

	return cert, nil
}

// Verify looks up a certification by code and reports whether it is
// currently valid.
func (s *CertificationService) Verify(ctx context.Context, code string) (*domain.Certification, bool, error) {
	cert, err := s.certifications.GetByCode(ctx, code)
	if err != nil {
		return nil, false, err
	}
	valid := cert.RevokedAt == nil && time.Now().Before(cert.ExpiresAt)
	return cert, valid, nil
}

// Revoke invalidates a certification.
func (s *CertificationService) Revoke(ctx context.Context, code string) error {
	return s.certifications.Revoke(ctx, code)
}

// ListByWorker returns a worker's certifications.
func (s *CertificationService) ListByWorker(ctx context.Context, workerID string) ([]domain.Certification, error) {
	return s.certifications.ListByWorker(ctx, workerID)
}

func generateCode() (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "KL-" + hex.EncodeToString(b), nil
}
