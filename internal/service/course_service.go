package service

import (
	"context"

	"github.com/lectern/courseport-backend/internal/model"
	"github.com/lectern/courseport-backend/internal/repository"
	"github.com/rs/zerolog"
)

// CourseService handles course registry business logic. Authorization is
// decided by the AccessService before any mutating call lands here.
type CourseService struct {
	courseRepo *repository.CourseRepository
	log        zerolog.Logger
}

// NewCourseService creates a new CourseService.
func NewCourseService(courseRepo *repository.CourseRepository, log zerolog.Logger) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		log:        log.With().Str("component", "course_service").Logger(),
	}
}

// List retrieves all courses.
func (s *CourseService) List(ctx context.Context) ([]model.Course, error) {
	return s.courseRepo.List(ctx)
}

// Create publishes a new course.
func (s *CourseService) Create(ctx context.Context, course *model.Course) error {
	return s.courseRepo.Create(ctx, course)
}

// Delete removes a course; enrollments, lectures and assignments cascade
// at the storage layer.
func (s *CourseService) Delete(ctx context.Context, id int) error {
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int("course_id", id).Msg("Course deleted")
	return nil
}

// SeedDefault idempotently inserts the configured default course. Called
// once at startup when DEFAULT_COURSE_TITLE is set (single-course mode).
func (s *CourseService) SeedDefault(ctx context.Context, title, instructor, description, submissionURL string) error {
	course := &model.Course{
		Title:       title,
		Instructor:  instructor,
		Description: description,
	}
	if submissionURL != "" {
		course.SubmissionURL = &submissionURL
	}

	if err := s.courseRepo.SeedDefault(ctx, course); err != nil {
		return err
	}
	s.log.Info().Str("title", title).Msg("Default course ensured")
	return nil
}
