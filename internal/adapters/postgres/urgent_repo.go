package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/kaamlink/kaamlink/internal/core/domain"
)

// UrgentJobRepo implements ports.UrgentJobRepository with pgx.
type UrgentJobRepo struct {
	db *DB
}

// NewUrgentJobRepo creates a new UrgentJobRepo.
func NewUrgentJobRepo(db *DB) *UrgentJobRepo {
	return &UrgentJobRepo{db: db}
}

func (r *UrgentJobRepo) Create(ctx context.Context, job *domain.UrgentJob) error {
	var lon, lat *float64
	if job.Location != nil {
		lon, lat = &job.Location.Lon, &job.Location.Lat
	}
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO urgent_jobs
			(employer_id, title, category, location, address, radius_km,
			 wage_offer, status, expires_at)
		VALUES ($1, $2, $3,
		        CASE WHEN $4::float8 IS NULL THEN NULL
		             ELSE ST_SetSRID(ST_MakePoint($4, $5), 4326)::geography END,
		        $6, $7, $8, $9, $10)
		RETURNING id, posted_at
	`, job.EmployerID, job.Title, job.Category, lon, lat, job.Address,
		job.RadiusKm, job.WageOffer, job.Status, job.ExpiresAt).
		Scan(&job.ID, &job.PostedAt)
}

func (r *UrgentJobRepo) GetByID(ctx context.Context, id string) (*domain.UrgentJob, error) {
	var job domain.UrgentJob
	var lat, lon *float64
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, employer_id, title, category,
		       ST_Y(location::geometry), ST_X(location::geometry),
		       COALESCE(address, ''), radius_km, wage_offer, status,
		       posted_at, expires_at
		FROM urgent_jobs WHERE id = $1
	`, id).Scan(
		&job.ID, &job.EmployerID, &job.Title, &job.Category, &lat, &lon,
		&job.Address, &job.RadiusKm, &job.WageOffer, &job.Status,
		&job.PostedAt, &job.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	if lat != nil && lon != nil {
		job.Location = &domain.GeoPoint{Lat: *lat, Lon: *lon}
	}
	return &job, nil
}

// ListOpen returns unexpired open urgent jobs, newest first. Distances are
// not computed here; callers annotate against a reference point.
func (r *UrgentJobRepo) ListOpen(ctx context.Context, category string, limit int) ([]domain.UrgentJob, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, employer_id, title, category,
		       ST_Y(location::geometry), ST_X(location::geometry),
		       COALESCE(address, ''), radius_km, wage_offer, status,
		       posted_at, expires_at
		FROM urgent_jobs
		WHERE status = 'open' AND expires_at > now()
		  AND ($1 = '' OR category = $1)
		ORDER BY posted_at DESC
		LIMIT $2
	`, category, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUrgentJobs(rows, false)
}

// FindNearby returns open urgent jobs within radiusKm of a point, nearest
// first, with DistanceKm populated from ST_Distance (meters, converted).
func (r *UrgentJobRepo) FindNearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]domain.UrgentJob, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, employer_id, title, category,
		       ST_Y(location::geometry), ST_X(location::geometry),
		       COALESCE(address, ''), radius_km, wage_offer, status,
		       posted_at, expires_at,
		       ST_Distance(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) / 1000.0
		FROM urgent_jobs
		WHERE status = 'open' AND expires_at > now()
		  AND location IS NOT NULL
		  AND ST_DWithin(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		ORDER BY location <-> ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography
		LIMIT $4
	`, lon, lat, radiusKm*1000, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUrgentJobs(rows, true)
}

func (r *UrgentJobRepo) SetStatus(ctx context.Context, id, status string) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE urgent_jobs SET status = $2 WHERE id = $1
	`, id, status)
	return err
}

func (r *UrgentJobRepo) RecordMatch(ctx context.Context, m *domain.UrgentMatch) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO urgent_matches (urgent_job_id, worker_id, distance_km)
		VALUES ($1, $2, $3)
		ON CONFLICT (urgent_job_id, worker_id) DO UPDATE SET distance_km = EXCLUDED.distance_km
		RETURNING id, notified_at
	`, m.UrgentJobID, m.WorkerID, m.DistanceKm).Scan(&m.ID, &m.NotifiedAt)
}

// AcceptMatch stamps acceptance once; repeated calls keep the first stamp.
func (r *UrgentJobRepo) AcceptMatch(ctx context.Context, urgentJobID, workerID string) (*domain.UrgentMatch, error) {
	var m domain.UrgentMatch
	err := r.db.Pool.QueryRow(ctx, `
		UPDATE urgent_matches
		SET accepted_at = COALESCE(accepted_at, now())
		WHERE urgent_job_id = $1 AND worker_id = $2
		RETURNING id, urgent_job_id, worker_id, distance_km, notified_at, accepted_at
	`, urgentJobID, workerID).Scan(&m.ID, &m.UrgentJobID, &m.WorkerID,
		&m.DistanceKm, &m.NotifiedAt, &m.AcceptedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *UrgentJobRepo) ListMatches(ctx context.Context, urgentJobID string) ([]domain.UrgentMatch, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, urgent_job_id, worker_id, distance_km, notified_at, accepted_at
		FROM urgent_matches WHERE urgent_job_id = $1
		ORDER BY distance_km
	`, urgentJobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []domain.UrgentMatch
	for rows.Next() {
		var m domain.UrgentMatch
		if err := rows.Scan(&m.ID, &m.UrgentJobID, &m.WorkerID, &m.DistanceKm,
			&m.NotifiedAt, &m.AcceptedAt); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func scanUrgentJobs(rows pgx.Rows, withDistance bool) ([]domain.UrgentJob, error) {
	var jobs []domain.UrgentJob
	for rows.Next() {
		var job domain.UrgentJob
		var lat, lon *float64
		dest := []any{
			&job.ID, &job.EmployerID, &job.Title, &job.Category, &lat, &lon,
			&job.Address, &job.RadiusKm, &job.WageOffer, &job.Status,
			&job.PostedAt, &job.ExpiresAt,
		}
		var dist float64
		if withDistance {
			dest = append(dest, &dist)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if lat != nil && lon != nil {
			job.Location = &domain.GeoPoint{Lat: *lat, Lon: *lon}
		}
		if withDistance {
			d := dist
			job.DistanceKm = &d
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}
