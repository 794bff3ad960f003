package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lectern/courseport-backend/internal/model"
)

// CourseRepository handles course data access.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// GetByID retrieves a course by its ID.
func (r *CourseRepository) GetByID(ctx context.Context, id int) (*model.Course, error) {
	c := &model.Course{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, instructor, description, submission_url, created_at
		 FROM courses WHERE id = $1`, id,
	).Scan(&c.ID, &c.Title, &c.Instructor, &c.Description, &c.SubmissionURL, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List retrieves all courses, newest first.
func (r *CourseRepository) List(ctx context.Context) ([]model.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, instructor, description, submission_url, created_at
		 FROM courses ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Instructor, &c.Description, &c.SubmissionURL, &c.CreatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// ListByStudentEmail retrieves the courses a student is enrolled in.
func (r *CourseRepository) ListByStudentEmail(ctx context.Context, email string) ([]model.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.title, c.instructor, c.description, c.submission_url, c.created_at
		 FROM courses c
		 JOIN enrollments e ON c.id = e.course_id
		 WHERE e.email = $1
		 ORDER BY c.id DESC`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Instructor, &c.Description, &c.SubmissionURL, &c.CreatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO courses (title, instructor, description, submission_url)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		c.Title, c.Instructor, c.Description, c.SubmissionURL,
	).Scan(&c.ID, &c.CreatedAt)
}

// SeedDefault inserts the default course if no course with that title
// exists yet. Safe to call on every startup.
func (r *CourseRepository) SeedDefault(ctx context.Context, c *model.Course) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO courses (title, instructor, description, submission_url)
		 SELECT $1, $2, $3, $4
		 WHERE NOT EXISTS (SELECT 1 FROM courses WHERE title = $1)`,
		c.Title, c.Instructor, c.Description, c.SubmissionURL,
	)
	return err
}

// Delete removes a course by ID. Enrollments, lectures and assignments
// referencing it are removed by the ON DELETE CASCADE constraints.
func (r *CourseRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	return err
}
