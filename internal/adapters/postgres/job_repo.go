package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/kaamlink/kaamlink/internal/core/domain"
)

// JobRepo implements ports.JobRepository with pgx.
type JobRepo struct {
	db *DB
}

// NewJobRepo creates a new JobRepo.
func NewJobRepo(db *DB) *JobRepo {
	return &JobRepo{db: db}
}

func (r *JobRepo) Create(ctx context.Context, job *domain.JobPosting) error {
	var lon, lat *float64
	if job.Location != nil {
		lon, lat = &job.Location.Lon, &job.Location.Lat
	}
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO job_postings
			(employer_id, title, description, category, location, address,
			 wage_min, wage_max, wage_period, status, metadata, expires_at)
		VALUES ($1, $2, $3, $4,
		        CASE WHEN $5::float8 IS NULL THEN NULL
		             ELSE ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography END,
		        $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at
	`, job.EmployerID, job.Title, job.Description, job.Category, lon, lat,
		job.Address, job.WageMin, job.WageMax, job.WagePeriod, job.Status,
		job.Metadata, job.ExpiresAt).
		Scan(&job.ID, &job.CreatedAt)
}

func (r *JobRepo) GetByID(ctx context.Context, id string) (*domain.JobPosting, error) {
	var job domain.JobPosting
	var lat, lon *float64
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, employer_id, title, COALESCE(description, ''), category,
		       ST_Y(location::geometry), ST_X(location::geometry),
		       COALESCE(address, ''), wage_min, wage_max, COALESCE(wage_period, ''),
		       status, COALESCE(metadata, '{}'), created_at, expires_at
		FROM job_postings WHERE id = $1
	`, id).Scan(
		&job.ID, &job.EmployerID, &job.Title, &job.Description, &job.Category,
		&lat, &lon, &job.Address, &job.WageMin, &job.WageMax, &job.WagePeriod,
		&job.Status, &job.Metadata, &job.CreatedAt, &job.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	if lat != nil && lon != nil {
		job.Location = &domain.GeoPoint{Lat: *lat, Lon: *lon}
	}
	return &job, nil
}

// List returns a page of postings plus the total count for pagination
// headers. Empty category or status means no filter.
func (r *JobRepo) List(ctx context.Context, category, status string, limit, offset int) ([]domain.JobPosting, int, error) {
	var total int
	err := r.db.Pool.QueryRow(ctx, `
		SELECT count(*) FROM job_postings
		WHERE ($1 = '' OR category = $1) AND ($2 = '' OR status = $2)
	`, category, status).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, employer_id, title, COALESCE(description, ''), category,
		       ST_Y(location::geometry), ST_X(location::geometry),
		       COALESCE(address, ''), wage_min, wage_max, COALESCE(wage_period, ''),
		       status, created_at, expires_at
		FROM job_postings
		WHERE ($1 = '' OR category = $1) AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, category, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	jobs, err := scanJobRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// Search runs a trigram-backed fuzzy match over title and description.
func (r *JobRepo) Search(ctx context.Context, query string, limit int) ([]domain.JobPosting, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, employer_id, title, COALESCE(description, ''), category,
		       ST_Y(location::geometry), ST_X(location::geometry),
		       COALESCE(address, ''), wage_min, wage_max, COALESCE(wage_period, ''),
		       status, created_at, expires_at
		FROM job_postings
		WHERE status = 'open'
		  AND (title % $1 OR title ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
		ORDER BY similarity(title, $1) DESC
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobRows(rows)
}

func (r *JobRepo) SetStatus(ctx context.Context, id, status string) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE job_postings SET status = $2 WHERE id = $1
	`, id, status)
	return err
}

func scanJobRows(rows pgx.Rows) ([]domain.JobPosting, error) {
	var jobs []domain.JobPosting
	for rows.Next() {
		var job domain.JobPosting
		var lat, lon *float64
		if err := rows.Scan(
			&job.ID, &job.EmployerID, &job.Title, &job.Description, &job.Category,
			&lat, &lon, &job.Address, &job.WageMin, &job.WageMax, &job.WagePeriod,
			&job.Status, &job.CreatedAt, &job.ExpiresAt,
		); err != nil {
			return nil, err
		}
		if lat != nil && lon != nil {
			job.Location = &domain.GeoPoint{Lat: *lat, Lon: *lon}
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}
