package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lectern/courseport-backend/internal/model"
)

// EnrollmentRepository handles enrollment data access.
//
// The UNIQUE (email, course_id) index on the enrollments table is the
// authoritative uniqueness invariant; application-level existence checks
// are only an early exit.
type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

// NewEnrollmentRepository creates a new EnrollmentRepository.
func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

// Exists reports whether the student email is already enrolled in the course.
func (r *EnrollmentRepository) Exists(ctx context.Context, email string, courseID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM enrollments WHERE email = $1 AND course_id = $2)`,
		email, courseID,
	).Scan(&exists)
	return exists, err
}

// Create inserts an enrollment row. Concurrent duplicate enrolls collapse
// onto the unique index: ON CONFLICT DO NOTHING makes the insert a no-op
// and Create reports created=false.
func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO enrollments (student_name, email, course_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (email, course_id) DO NOTHING`,
		e.StudentName, e.Email, e.CourseID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ListByCourse retrieves the roster for a course.
func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID int) ([]model.Enrollment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, student_name, email, course_id, created_at
		 FROM enrollments WHERE course_id = $1 ORDER BY student_name`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []model.Enrollment
	for rows.Next() {
		var e model.Enrollment
		if err := rows.Scan(&e.ID, &e.StudentName, &e.Email, &e.CourseID, &e.CreatedAt); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

// ListEmailsByCourse retrieves the enrolled email addresses for a course.
// Used to build broadcast recipient sets for new-resource notifications.
func (r *EnrollmentRepository) ListEmailsByCourse(ctx context.Context, courseID int) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT email FROM enrollments WHERE course_id = $1 ORDER BY email`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}
