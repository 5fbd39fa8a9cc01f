package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/kaamlink/kaamlink/internal/core/domain"
)

// KYCRepo implements ports.KYCRepository with pgx.
type KYCRepo struct {
	db *DB
}

// NewKYCRepo creates a new KYCRepo.
func NewKYCRepo(db *DB) *KYCRepo {
	return &KYCRepo{db: db}
}

func (r *KYCRepo) Create(ctx context.Context, rec *domain.KYCRecord) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO kyc_records (worker_id, document_type, document_number, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, submitted_at
	`, rec.WorkerID, rec.DocumentType, rec.DocumentNumber, rec.Status).
		Scan(&rec.ID, &rec.SubmittedAt)
}

func (r *KYCRepo) GetByID(ctx context.Context, id string) (*domain.KYCRecord, error) {
	return r.scanOne(r.db.Pool.QueryRow(ctx, `
		SELECT id, worker_id, document_type, document_number, status,
		       COALESCE(notes, ''), submitted_at, reviewed_at
		FROM kyc_records WHERE id = $1
	`, id))
}

// LatestByWorker returns the most recent submission for a worker, or nil
// when the worker has never submitted.
func (r *KYCRepo) LatestByWorker(ctx context.Context, workerID string) (*domain.KYCRecord, error) {
	rec, err := r.scanOne(r.db.Pool.QueryRow(ctx, `
		SELECT id, worker_id, document_type, document_number, status,
		       COALESCE(notes, ''), submitted_at, reviewed_at
		FROM kyc_records WHERE worker_id = $1
		ORDER BY submitted_at DESC
		LIMIT 1
	`, workerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

func (r *KYCRepo) ListByStatus(ctx context.Context, status string, limit int) ([]domain.KYCRecord, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, worker_id, document_type, document_number, status,
		       COALESCE(notes, ''), submitted_at, reviewed_at
		FROM kyc_records WHERE status = $1
		ORDER BY submitted_at
		LIMIT $2
	`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.KYCRecord
	for rows.Next() {
		var rec domain.KYCRecord
		if err := rows.Scan(&rec.ID, &rec.WorkerID, &rec.DocumentType, &rec.DocumentNumber,
			&rec.Status, &rec.Notes, &rec.SubmittedAt, &rec.ReviewedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *KYCRepo) SetStatus(ctx context.Context, id, status, notes string) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE kyc_records
		SET status = $2, notes = $3, reviewed_at = now()
		WHERE id = $1
	`, id, status, notes)
	return err
}

func (r *KYCRepo) scanOne(row pgx.Row) (*domain.KYCRecord, error) {
	var rec domain.KYCRecord
	err := row.Scan(&rec.ID, &rec.WorkerID, &rec.DocumentType, &rec.DocumentNumber,
		&rec.Status, &rec.Notes, &rec.SubmittedAt, &rec.ReviewedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
