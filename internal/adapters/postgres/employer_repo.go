package postgres

import (
	"context"

	"github.com/kaamlink/kaamlink/internal/core/domain"
)

// EmployerRepo implements ports.EmployerRepository with pgx.
type EmployerRepo struct {
	db *DB
}

// NewEmployerRepo creates a new EmployerRepo.
func NewEmployerRepo(db *DB) *EmployerRepo {
	return &EmployerRepo{db: db}
}

func (r *EmployerRepo) Create(ctx context.Context, e *domain.Employer) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO employers (slug, name, phone, verified)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, e.Slug, e.Name, e.Phone, e.Verified).Scan(&e.ID, &e.CreatedAt)
}

func (r *EmployerRepo) GetBySlug(ctx context.Context, slug string) (*domain.Employer, error) {
	var e domain.Employer
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, slug, name, COALESCE(phone, ''), verified, created_at
		FROM employers WHERE slug = $1
	`, slug).Scan(&e.ID, &e.Slug, &e.Name, &e.Phone, &e.Verified, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EmployerRepo) List(ctx context.Context) ([]domain.Employer, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, slug, name, COALESCE(phone, ''), verified, created_at
		FROM employers ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employers []domain.Employer
	for rows.Next() {
		var e domain.Employer
		if err := rows.Scan(&e.ID, &e.Slug, &e.Name, &e.Phone, &e.Verified, &e.CreatedAt); err != nil {
			return nil, err
		}
		employers = append(employers, e)
	}
	return employers, rows.Err()
}
