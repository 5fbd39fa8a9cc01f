package postgres

import (
	"context"

	"github.com/kaamlink/kaamlink/internal/core/domain"
)

// WorkerRepo implements ports.WorkerRepository with pgx.
type WorkerRepo struct {
	db *DB
}

// NewWorkerRepo creates a new WorkerRepo.
func NewWorkerRepo(db *DB) *WorkerRepo {
	return &WorkerRepo{db: db}
}

// Create inserts a worker and fills in the generated ID.
func (r *WorkerRepo) Create(ctx context.Context, w *domain.Worker) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO workers (full_name, phone, skills, available, kyc_status, rating, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, w.FullName, w.Phone, w.Skills, w.Available, w.KYCStatus, w.Rating, w.Metadata).
		Scan(&w.ID, &w.CreatedAt)
}

// GetByID returns a worker by UUID.
func (r *WorkerRepo) GetByID(ctx context.Context, id string) (*domain.Worker, error) {
	var w domain.Worker
	var lat, lon *float64
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, full_name, phone, skills, available, kyc_status, rating,
		       ST_Y(location::geometry), ST_X(location::geometry),
		       COALESCE(metadata, '{}'), created_at
		FROM workers WHERE id = $1
	`, id).Scan(
		&w.ID, &w.FullName, &w.Phone, &w.Skills, &w.Available, &w.KYCStatus, &w.Rating,
		&lat, &lon, &w.Metadata, &w.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lat != nil && lon != nil {
		w.Location = &domain.GeoPoint{Lat: *lat, Lon: *lon}
	}
	return &w, nil
}

// UpdateAvailability toggles availability and optionally refreshes the
// worker's position.
func (r *WorkerRepo) UpdateAvailability(ctx context.Context, id string, available bool, loc *domain.GeoPoint) error {
	if loc == nil {
		_, err := r.db.Pool.Exec(ctx, `
			UPDATE workers SET available = $2 WHERE id = $1
		`, id, available)
		return err
	}
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE workers
		SET available = $2,
		    location = ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography
		WHERE id = $1
	`, id, available, loc.Lon, loc.Lat)
	return err
}

// SetKYCStatus mirrors the latest KYC decision onto the worker row.
func (r *WorkerRepo) SetKYCStatus(ctx context.Context, id string, status string) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE workers SET kyc_status = $2 WHERE id = $1
	`, id, status)
	return err
}

// FindNearby returns available workers within radiusKm using PostGIS
// ST_DWithin, nearest first. skill filters on the skills array when set.
func (r *WorkerRepo) FindNearby(ctx context.Context, lat, lon, radiusKm float64, skill string, limit int) ([]domain.Worker, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, full_name, phone, skills, available, kyc_status, rating,
		       ST_Y(location::geometry), ST_X(location::geometry),
		       created_at
		FROM workers
		WHERE available
		  AND location IS NOT NULL
		  AND ST_DWithin(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		  AND ($4 = '' OR $4 = ANY(skills))
		ORDER BY location <-> ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography
		LIMIT $5
	`, lon, lat, radiusKm*1000, skill, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workers []domain.Worker
	for rows.Next() {
		var w domain.Worker
		var wlat, wlon *float64
		if err := rows.Scan(
			&w.ID, &w.FullName, &w.Phone, &w.Skills, &w.Available, &w.KYCStatus, &w.Rating,
			&wlat, &wlon, &w.CreatedAt,
		); err != nil {
			return nil, err
		}
		if wlat != nil && wlon != nil {
			w.Location = &domain.GeoPoint{Lat: *wlat, Lon: *wlon}
		}
		workers = append(workers, w)
	}
	return workers, rows.Err()
}
