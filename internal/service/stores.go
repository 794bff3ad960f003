package service

import (
	"context"

	"github.com/lectern/courseport-backend/internal/model"
	"github.com/lectern/courseport-backend/internal/notify"
)

// Narrow store interfaces consumed by the core services. The pgx
// repositories satisfy them; tests substitute in-memory fakes.
//
// Lookups that find no row return pgx.ErrNoRows, matching the repository
// layer; services translate that into their own sentinels.

// CourseStore is the course registry surface.
type CourseStore interface {
	GetByID(ctx context.Context, id int) (*model.Course, error)
	ListByStudentEmail(ctx context.Context, email string) ([]model.Course, error)
}

// StudentStore is the credential store surface.
type StudentStore interface {
	GetByID(ctx context.Context, id int) (*model.Student, error)
	GetByEmail(ctx context.Context, email string) (*model.Student, error)
	Create(ctx context.Context, s *model.Student) error
	ClearAll(ctx context.Context) error
}

// EnrollmentStore is the enrollment ledger surface.
type EnrollmentStore interface {
	Exists(ctx context.Context, email string, courseID int) (bool, error)
	Create(ctx context.Context, e *model.Enrollment) (bool, error)
	ListByCourse(ctx context.Context, courseID int) ([]model.Enrollment, error)
	ListEmailsByCourse(ctx context.Context, courseID int) ([]string, error)
}

// Notifier is the fire-and-forget notification surface. Enqueue never
// returns an error to its caller; dispatch failures are logged inside.
type Notifier interface {
	Enqueue(ctx context.Context, msg notify.Message)
}

// ResourceStore is the resource catalog surface.
type ResourceStore interface {
	ListLectures(ctx context.Context, courseID int) ([]model.Lecture, error)
	ListAssignments(ctx context.Context, courseID int) ([]model.Assignment, error)
	CreateLecture(ctx context.Context, l *model.Lecture) error
	CreateAssignment(ctx context.Context, a *model.Assignment) error
	GetLectureByFilename(ctx context.Context, courseID int, filename string) (*model.Lecture, error)
	GetAssignmentByFilename(ctx context.Context, courseID int, filename string) (*model.Assignment, error)
}
