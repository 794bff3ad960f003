package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lectern/courseport-backend/internal/model"
	"github.com/lectern/courseport-backend/internal/notify"
	"github.com/rs/zerolog"
)

// ErrSessionInvalid means the session references a student that no longer
// exists. Defensive: should not occur under a correct session lifecycle.
var ErrSessionInvalid = errors.New("session references a missing student")

// EnrollmentResult reports whether Enroll created a new row.
type EnrollmentResult struct {
	Created bool `json:"created"`
}

// EnrollmentService maintains the enrollment relation. Uniqueness is
// pair-scoped (email, course_id) and is ultimately enforced by the
// storage-level unique index — the in-service existence check is only an
// early exit, so concurrent identical enrolls still collapse to one row.
type EnrollmentService struct {
	students    StudentStore
	courses     CourseStore
	enrollments EnrollmentStore
	dispatcher  Notifier
	log         zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService.
func NewEnrollmentService(students StudentStore, courses CourseStore, enrollments EnrollmentStore, dispatcher Notifier, log zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{
		students:    students,
		courses:     courses,
		enrollments: enrollments,
		dispatcher:  dispatcher,
		log:         log.With().Str("component", "enrollment_service").Logger(),
	}
}

// Enroll enrolls a student in a course. Enrolling an already-enrolled
// student is a successful no-op that reports Created=false and never
// re-triggers the confirmation notification.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID int) (EnrollmentResult, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return EnrollmentResult{}, ErrSessionInvalid
		}
		return EnrollmentResult{}, fmt.Errorf("get student: %w", err)
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return EnrollmentResult{}, ErrCourseNotFound
		}
		return EnrollmentResult{}, fmt.Errorf("get course: %w", err)
	}

	// Early exit; the unique index remains the real guard.
	exists, err := s.enrollments.Exists(ctx, student.Email, courseID)
	if err != nil {
		return EnrollmentResult{}, fmt.Errorf("check enrollment: %w", err)
	}
	if exists {
		return EnrollmentResult{Created: false}, nil
	}

	created, err := s.enrollments.Create(ctx, &model.Enrollment{
		StudentName: student.Name,
		Email:       student.Email,
		CourseID:    courseID,
	})
	if err != nil {
		return EnrollmentResult{}, fmt.Errorf("create enrollment: %w", err)
	}

	if created {
		s.dispatcher.Enqueue(ctx, notify.EnrollmentConfirmed(student.Email, course.Title))
		s.log.Info().
			Str("email", student.Email).
			Int("course_id", courseID).
			Msg("Student enrolled")
	}

	return EnrollmentResult{Created: created}, nil
}

// ListEnrolledCourses returns the courses a student may access.
func (s *EnrollmentService) ListEnrolledCourses(ctx context.Context, studentID int) ([]model.Course, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionInvalid
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	return s.courses.ListByStudentEmail(ctx, student.Email)
}
