package workflows

import (
	"context"
	"fmt"
	"log"

	"github.com/kaamlink/kaamlink/internal/core/ports"
	"github.com/kaamlink/kaamlink/internal/core/usecases"
)

// CertificationActivities holds the activity implementations for the
// certification workflow.
type CertificationActivities struct {
	Certifications *usecases.CertificationService
	CertRepo       ports.CertificationRepository
	Training       ports.TrainingRepository
	Notifier       ports.NotificationService
}

// IssueCertificate creates the certification and returns its code.
func (a *CertificationActivities) IssueCertificate(ctx context.Context, courseID, workerID string) (string, error) {
	// Delegate to the CertificationService which already handles
	// completion checks, code generation, and persistence. The workflow
	// owns the notification step, so the service is wired without a
	// notifier.
	cert, err := a.Certifications.Issue(ctx, courseID, workerID)
	if err != nil {
		return "", fmt.Errorf("issue certification: %w", err)
	}
	return cert.Code, nil
}

// GetCourseTitle returns the title of a course by ID.
func (a *CertificationActivities) GetCourseTitle(ctx context.Context, courseID string) (string, error) {
	course, err := a.Training.GetCourse(ctx, courseID)
	if err != nil {
		return "", fmt.Errorf("get course %s: %w", courseID, err)
	}
	return course.Title, nil
}

// SendPushNotification sends a push notification to the worker.
func (a *CertificationActivities) SendPushNotification(ctx context.Context, workerID, courseTitle, code string) error {
	if a.Notifier == nil {
		log.Printf("PUSH (no notifier) → worker=%s course=%s code=%s", workerID, courseTitle, code)
		return nil
	}
	title := "Certification issued"
	body := fmt.Sprintf("Your certificate for %s is ready. Code: %s", courseTitle, code)
	return a.Notifier.SendPush(ctx, workerID, title, body)
}

// DeleteCertificate removes a certificate (saga compensation / rollback).
func (a *CertificationActivities) DeleteCertificate(ctx context.Context, code string) error {
	if err := a.CertRepo.Delete(ctx, code); err != nil {
		return fmt.Errorf("delete certification %s: %w", code, err)
	}
	log.Printf("Certification %s deleted (saga compensation)", code)
	return nil
}
