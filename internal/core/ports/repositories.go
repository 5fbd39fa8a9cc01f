package ports

import (
	"context"

	"github.com/kaamlink/kaamlink/internal/core/domain"
)

// WorkerRepository persists workers.
type WorkerRepository interface {
	Create(ctx context.Context, w *domain.Worker) error
	GetByID(ctx context.Context, id string) (*domain.Worker, error)
	UpdateAvailability(ctx context.Context, id string, available bool, loc *domain.GeoPoint) error
	SetKYCStatus(ctx context.Context, id string, status string) error
	// FindNearby returns available workers within radiusKm of a point,
	// nearest first, optionally filtered by skill.
	FindNearby(ctx context.Context, lat, lon, radiusKm float64, skill string, limit int) ([]domain.Worker, error)
}

// EmployerRepository persists employers.
type EmployerRepository interface {
	Create(ctx context.Context, e *domain.Employer) error
	GetBySlug(ctx context.Context, slug string) (*domain.Employer, error)
	List(ctx context.Context) ([]domain.Employer, error)
}

// JobRepository persists job postings.
type JobRepository interface {
	Create(ctx context.Context, job *domain.JobPosting) error
	GetByID(ctx context.Context, id string) (*domain.JobPosting, error)
	List(ctx context.Context, category, status string, limit, offset int) ([]domain.JobPosting, int, error)
	Search(ctx context.Context, query string, limit int) ([]domain.JobPosting, error)
	SetStatus(ctx context.Context, id, status string) error
}

// ApplicationRepository persists applications.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	ListByJob(ctx context.Context, jobID string) ([]domain.Application, error)
	ListByWorker(ctx context.Context, workerID string) ([]domain.Application, error)
	SetStatus(ctx context.Context, id, status string) error
}

// UrgentJobRepository persists urgent jobs and their matches.
type UrgentJobRepository interface {
	Create(ctx context.Context, job *domain.UrgentJob) error
	GetByID(ctx context.Context, id string) (*domain.UrgentJob, error)
	ListOpen(ctx context.Context, category string, limit int) ([]domain.UrgentJob, error)
	// FindNearby returns open urgent jobs within radiusKm of a point,
	// nearest first, with DistanceKm populated.
	FindNearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]domain.UrgentJob, error)
	SetStatus(ctx context.Context, id, status string) error
	RecordMatch(ctx context.Context, m *domain.UrgentMatch) error
	ListMatches(ctx context.Context, urgentJobID string) ([]domain.UrgentMatch, error)
	// AcceptMatch stamps a worker's acceptance; idempotent once set.
	AcceptMatch(ctx context.Context, urgentJobID, workerID string) (*domain.UrgentMatch, error)
}

// TrainingRepository persists courses and enrollments.
type TrainingRepository interface {
	ListCourses(ctx context.Context, category string) ([]domain.TrainingCourse, error)
	GetCourse(ctx context.Context, id string) (*domain.TrainingCourse, error)
	CreateEnrollment(ctx context.Context, e *domain.Enrollment) error
	GetEnrollment(ctx context.Context, courseID, workerID string) (*domain.Enrollment, error)
	UpdateEnrollment(ctx context.Context, e *domain.Enrollment) error
	ListEnrollmentsByWorker(ctx context.Context, workerID string) ([]domain.Enrollment, error)
}

// CertificationRepository persists certifications.
type CertificationRepository interface {
	Create(ctx context.Context, cert *domain.Certification) error
	GetByCode(ctx context.Context, code string) (*domain.Certification, error)
	ListByWorker(ctx context.Context, workerID string) ([]domain.Certification, error)
	Revoke(ctx context.Context, code string) error
	Delete(ctx context.Context, code string) error
}

// KYCRepository persists KYC submissions.
type KYCRepository interface {
	Create(ctx context.Context, rec *domain.KYCRecord) error
	GetByID(ctx context.Context, id string) (*domain.KYCRecord, error)
	LatestByWorker(ctx context.Context, workerID string) (*domain.KYCRecord, error)
	ListByStatus(ctx context.Context, status string, limit int) ([]domain.KYCRecord, error)
	SetStatus(ctx context.Context, id, status, notes string) error
}
