package postgres

import (
	"context"

	"github.com/kaamlink/kaamlink/internal/core/domain"
)

// CertificationRepo implements ports.CertificationRepository with pgx.
type CertificationRepo struct {
	db *DB
}

// NewCertificationRepo creates a new CertificationRepo.
func NewCertificationRepo(db *DB) *CertificationRepo {
	return &CertificationRepo{db: db}
}

func (r *CertificationRepo) Create(ctx context.Context, cert *domain.Certification) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO certifications (worker_id, course_id, code, issued_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, cert.WorkerID, cert.CourseID, cert.Code, cert.IssuedAt, cert.ExpiresAt).
		Scan(&cert.ID)
}

func (r *CertificationRepo) GetByCode(ctx context.Context, code string) (*domain.Certification, error) {
	var cert domain.Certification
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, worker_id, course_id, code, issued_at, expires_at, revoked_at
		FROM certifications WHERE code = $1
	`, code).Scan(&cert.ID, &cert.WorkerID, &cert.CourseID, &cert.Code,
		&cert.IssuedAt, &cert.ExpiresAt, &cert.RevokedAt)
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *CertificationRepo) ListByWorker(ctx context.Context, workerID string) ([]domain.Certification, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, worker_id, course_id, code, issued_at, expires_at, revoked_at
		FROM certifications WHERE worker_id = $1
		ORDER BY issued_at DESC
	`, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var certs []domain.Certification
	for rows.Next() {
		var cert domain.Certification
		if err := rows.Scan(&cert.ID, &cert.WorkerID, &cert.CourseID, &cert.Code,
			&cert.IssuedAt, &cert.ExpiresAt, &cert.RevokedAt); err != nil {
			return nil, err
		}
		certs = append(certs, cert)
	}
	return certs, rows.Err()
}

func (r *CertificationRepo) Revoke(ctx context.Context, code string) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE certifications SET revoked_at = now() WHERE code = $1 AND revoked_at IS NULL
	`, code)
	return err
}

// Delete removes a certification outright. Used by workflow compensation
// when notification delivery fails after issuance.
func (r *CertificationRepo) Delete(ctx context.Context, code string) error {
	_, err := r.db.Pool.Exec(ctx, `
		DELETE FROM certifications WHERE code = $1
	`, code)
	return err
}
