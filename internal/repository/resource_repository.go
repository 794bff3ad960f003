package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lectern/courseport-backend/internal/model"
)

// ResourceRepository handles lecture and assignment metadata access.
type ResourceRepository struct {
	pool *pgxpool.Pool
}

// NewResourceRepository creates a new ResourceRepository.
func NewResourceRepository(pool *pgxpool.Pool) *ResourceRepository {
	return &ResourceRepository{pool: pool}
}

// ListLectures retrieves all lectures for a course.
func (r *ResourceRepository) ListLectures(ctx context.Context, courseID int) ([]model.Lecture, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, filename, course_id, created_at
		 FROM lectures WHERE course_id = $1 ORDER BY id`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lectures []model.Lecture
	for rows.Next() {
		var l model.Lecture
		if err := rows.Scan(&l.ID, &l.Title, &l.Filename, &l.CourseID, &l.CreatedAt); err != nil {
			return nil, err
		}
		lectures = append(lectures, l)
	}
	return lectures, rows.Err()
}

// ListAssignments retrieves all assignments for a course.
func (r *ResourceRepository) ListAssignments(ctx context.Context, courseID int) ([]model.Assignment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, filename, due_date, course_id, created_at
		 FROM assignments WHERE course_id = $1 ORDER BY id`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		var a model.Assignment
		if err := rows.Scan(&a.ID, &a.Title, &a.Filename, &a.DueDate, &a.CourseID, &a.CreatedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// CreateLecture inserts lecture metadata. Called only after the file
// bytes have been written successfully.
func (r *ResourceRepository) CreateLecture(ctx context.Context, l *model.Lecture) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO lectures (title, filename, course_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		l.Title, l.Filename, l.CourseID,
	).Scan(&l.ID, &l.CreatedAt)
}

// CreateAssignment inserts assignment metadata. Called only after the
// file bytes have been written successfully.
func (r *ResourceRepository) CreateAssignment(ctx context.Context, a *model.Assignment) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO assignments (title, filename, due_date, course_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		a.Title, a.Filename, a.DueDate, a.CourseID,
	).Scan(&a.ID, &a.CreatedAt)
}

// GetLectureByFilename resolves a lecture by its stored filename within a course.
func (r *ResourceRepository) GetLectureByFilename(ctx context.Context, courseID int, filename string) (*model.Lecture, error) {
	l := &model.Lecture{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, filename, course_id, created_at
		 FROM lectures WHERE course_id = $1 AND filename = $2`, courseID, filename,
	).Scan(&l.ID, &l.Title, &l.Filename, &l.CourseID, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// GetAssignmentByFilename resolves an assignment by its stored filename within a course.
func (r *ResourceRepository) GetAssignmentByFilename(ctx context.Context, courseID int, filename string) (*model.Assignment, error) {
	a := &model.Assignment{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, filename, due_date, course_id, created_at
		 FROM assignments WHERE course_id = $1 AND filename = $2`, courseID, filename,
	).Scan(&a.ID, &a.Title, &a.Filename, &a.DueDate, &a.CourseID, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}
