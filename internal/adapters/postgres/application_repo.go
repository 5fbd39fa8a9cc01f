package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/kaamlink/kaamlink/internal/core/domain"
)

// ApplicationRepo implements ports.ApplicationRepository with pgx.
type ApplicationRepo struct {
	db *DB
}

// NewApplicationRepo creates a new ApplicationRepo.
func NewApplicationRepo(db *DB) *ApplicationRepo {
	return &ApplicationRepo{db: db}
}

func (r *ApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO applications (job_id, worker_id, cover_note, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, applied_at, updated_at
	`, app.JobID, app.WorkerID, app.CoverNote, app.Status).
		Scan(&app.ID, &app.AppliedAt, &app.UpdatedAt)
}

func (r *ApplicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	var app domain.Application
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, job_id, worker_id, COALESCE(cover_note, ''), status, applied_at, updated_at
		FROM applications WHERE id = $1
	`, id).Scan(&app.ID, &app.JobID, &app.WorkerID, &app.CoverNote, &app.Status,
		&app.AppliedAt, &app.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepo) ListByJob(ctx context.Context, jobID string) ([]domain.Application, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, job_id, worker_id, COALESCE(cover_note, ''), status, applied_at, updated_at
		FROM applications WHERE job_id = $1
		ORDER BY applied_at
	`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

func (r *ApplicationRepo) ListByWorker(ctx context.Context, workerID string) ([]domain.Application, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, job_id, worker_id, COALESCE(cover_note, ''), status, applied_at, updated_at
		FROM applications WHERE worker_id = $1
		ORDER BY applied_at DESC
	`, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

func (r *ApplicationRepo) SetStatus(ctx context.Context, id, status string) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE applications SET status = $2, updated_at = now() WHERE id = $1
	`, id, status)
	return err
}

func scanApplications(rows pgx.Rows) ([]domain.Application, error) {
	var apps []domain.Application
	for rows.Next() {
		var app domain.Application
		if err := rows.Scan(&app.ID, &app.JobID, &app.WorkerID, &app.CoverNote,
			&app.Status, &app.AppliedAt, &app.UpdatedAt); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}
