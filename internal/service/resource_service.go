package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/jackc/pgx/v5"
	"github.com/lectern/courseport-backend/internal/model"
	"github.com/lectern/courseport-backend/internal/notify"
	"github.com/rs/zerolog"
)

// UploadStorage is the file persistence surface the catalog depends on.
// *StorageService satisfies it; tests substitute an in-memory fake.
type UploadStorage interface {
	SaveUpload(kind ResourceKind, file multipart.File, header *multipart.FileHeader) (string, error)
	Resolve(kind ResourceKind, filename string) (string, error)
	Remove(kind ResourceKind, filename string) error
}

// ResourceService maintains the lecture/assignment catalog. The file
// write always precedes the metadata insert: a failed write prevents the
// insert, and a failed insert removes the freshly written file so no
// partial state survives either way.
type ResourceService struct {
	courses     CourseStore
	enrollments EnrollmentStore
	resources   ResourceStore
	storage     UploadStorage
	dispatcher  Notifier
	log         zerolog.Logger
}

// NewResourceService creates a new ResourceService.
func NewResourceService(courses CourseStore, enrollments EnrollmentStore, resources ResourceStore, storage UploadStorage, dispatcher Notifier, log zerolog.Logger) *ResourceService {
	return &ResourceService{
		courses:     courses,
		enrollments: enrollments,
		resources:   resources,
		storage:     storage,
		dispatcher:  dispatcher,
		log:         log.With().Str("component", "resource_service").Logger(),
	}
}

// AddLecture stores a lecture file, records its metadata and broadcasts
// the upload to every enrolled student of the course.
func (s *ResourceService) AddLecture(ctx context.Context, courseID int, title string, file multipart.File, header *multipart.FileHeader) (*model.Lecture, error) {
	course, err := s.getCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	filename, err := s.storage.SaveUpload(KindLecture, file, header)
	if err != nil {
		return nil, err
	}

	lecture := &model.Lecture{
		Title:    title,
		Filename: filename,
		CourseID: courseID,
	}
	if err := s.resources.CreateLecture(ctx, lecture); err != nil {
		if rmErr := s.storage.Remove(KindLecture, filename); rmErr != nil {
			s.log.Warn().Err(rmErr).Str("filename", filename).Msg("Orphaned upload cleanup failed")
		}
		return nil, fmt.Errorf("create lecture: %w", err)
	}

	s.broadcast(ctx, course, func(recipients []string) notify.Message {
		return notify.LecturePublished(recipients, course.Title, title)
	})
	return lecture, nil
}

// AddAssignment stores an assignment file, records its metadata and due
// date, and broadcasts the upload to every enrolled student.
func (s *ResourceService) AddAssignment(ctx context.Context, courseID int, title, dueDate string, file multipart.File, header *multipart.FileHeader) (*model.Assignment, error) {
	course, err := s.getCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	filename, err := s.storage.SaveUpload(KindAssignment, file, header)
	if err != nil {
		return nil, err
	}

	assignment := &model.Assignment{
		Title:    title,
		Filename: filename,
		DueDate:  dueDate,
		CourseID: courseID,
	}
	if err := s.resources.CreateAssignment(ctx, assignment); err != nil {
		if rmErr := s.storage.Remove(KindAssignment, filename); rmErr != nil {
			s.log.Warn().Err(rmErr).Str("filename", filename).Msg("Orphaned upload cleanup failed")
		}
		return nil, fmt.Errorf("create assignment: %w", err)
	}

	s.broadcast(ctx, course, func(recipients []string) notify.Message {
		return notify.AssignmentPublished(recipients, course.Title, title, dueDate)
	})
	return assignment, nil
}

// ResolveDownload maps a stored filename within a course to its on-disk
// path. The caller must already hold course-content access.
func (s *ResourceService) ResolveDownload(ctx context.Context, courseID int, kind ResourceKind, filename string) (string, error) {
	var err error
	switch kind {
	case KindLecture:
		_, err = s.resources.GetLectureByFilename(ctx, courseID, filename)
	case KindAssignment:
		_, err = s.resources.GetAssignmentByFilename(ctx, courseID, filename)
	default:
		return "", ErrFileMissing
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrFileMissing
		}
		return "", fmt.Errorf("lookup resource: %w", err)
	}

	return s.storage.Resolve(kind, filename)
}

func (s *ResourceService) getCourse(ctx context.Context, courseID int) (*model.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	return course, nil
}

// broadcast enqueues a new-resource notification to every enrolled email
// of the course. Lookup or enqueue problems are logged, never returned:
// the upload has already committed and must not be failed by mail.
func (s *ResourceService) broadcast(ctx context.Context, course *model.Course, build func(recipients []string) notify.Message) {
	recipients, err := s.enrollments.ListEmailsByCourse(ctx, course.ID)
	if err != nil {
		s.log.Error().Err(err).Int("course_id", course.ID).Msg("List broadcast recipients failed")
		return
	}
	if len(recipients) == 0 {
		return
	}
	s.dispatcher.Enqueue(ctx, build(recipients))
}
