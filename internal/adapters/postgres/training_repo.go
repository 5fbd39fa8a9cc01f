package postgres

import (
	"context"

	"github.com/kaamlink/kaamlink/internal/core/domain"
)

// TrainingRepo implements ports.TrainingRepository with pgx.
type TrainingRepo struct {
	db *DB
}

// NewTrainingRepo creates a new TrainingRepo.
func NewTrainingRepo(db *DB) *TrainingRepo {
	return &TrainingRepo{db: db}
}

func (r *TrainingRepo) ListCourses(ctx context.Context, category string) ([]domain.TrainingCourse, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, title, COALESCE(description, ''), category,
		       duration_minutes, module_count, created_at
		FROM training_courses
		WHERE ($1 = '' OR category = $1)
		ORDER BY title
	`, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []domain.TrainingCourse
	for rows.Next() {
		var c domain.TrainingCourse
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Category,
			&c.DurationMinutes, &c.ModuleCount, &c.CreatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (r *TrainingRepo) GetCourse(ctx context.Context, id string) (*domain.TrainingCourse, error) {
	var c domain.TrainingCourse
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, title, COALESCE(description, ''), category,
		       duration_minutes, module_count, created_at
		FROM training_courses WHERE id = $1
	`, id).Scan(&c.ID, &c.Title, &c.Description, &c.Category,
		&c.DurationMinutes, &c.ModuleCount, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *TrainingRepo) CreateEnrollment(ctx context.Context, e *domain.Enrollment) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO enrollments (course_id, worker_id, progress, minutes_spent)
		VALUES ($1, $2, $3, $4)
		RETURNING id, last_activity_at, enrolled_at
	`, e.CourseID, e.WorkerID, e.Progress, e.MinutesSpent).
		Scan(&e.ID, &e.LastActivityAt, &e.EnrolledAt)
}

func (r *TrainingRepo) GetEnrollment(ctx context.Context, courseID, workerID string) (*domain.Enrollment, error) {
	var e domain.Enrollment
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, course_id, worker_id, progress, minutes_spent,
		       completed_at, last_activity_at, enrolled_at
		FROM enrollments WHERE course_id = $1 AND worker_id = $2
	`, courseID, workerID).Scan(&e.ID, &e.CourseID, &e.WorkerID, &e.Progress,
		&e.MinutesSpent, &e.CompletedAt, &e.LastActivityAt, &e.EnrolledAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *TrainingRepo) UpdateEnrollment(ctx context.Context, e *domain.Enrollment) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE enrollments
		SET progress = $2, minutes_spent = $3, completed_at = $4, last_activity_at = now()
		WHERE id = $1
	`, e.ID, e.Progress, e.MinutesSpent, e.CompletedAt)
	return err
}

func (r *TrainingRepo) ListEnrollmentsByWorker(ctx context.Context, workerID string) ([]domain.Enrollment, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, course_id, worker_id, progress, minutes_spent,
		       completed_at, last_activity_at, enrolled_at
		FROM enrollments WHERE worker_id = $1
		ORDER BY enrolled_at DESC
	`, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []domain.Enrollment
	for rows.Next() {
		var e domain.Enrollment
		if err := rows.Scan(&e.ID, &e.CourseID, &e.WorkerID, &e.Progress,
			&e.MinutesSpent, &e.CompletedAt, &e.LastActivityAt, &e.EnrolledAt); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}
