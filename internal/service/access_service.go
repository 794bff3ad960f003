package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lectern/courseport-backend/internal/model"
)

// Access decision sentinels. ErrCourseNotFound is deliberately distinct
// from the deny outcomes: a missing course is not an access denial.
var (
	ErrCourseNotFound         = errors.New("course not found")
	ErrUnauthorized           = errors.New("caller lacks the required role")
	ErrNotEnrolled            = errors.New("student is not enrolled in this course")
	ErrAuthenticationRequired = errors.New("authentication required")
)

// CourseView is the caller-specific slice of a course's content.
// Roster and EnrolledCount are populated only for the instructor.
type CourseView struct {
	Course        *model.Course      `json:"course"`
	Lectures      []model.Lecture    `json:"lectures"`
	Assignments   []model.Assignment `json:"assignments"`
	Roster        []model.Enrollment `json:"roster,omitempty"`
	EnrolledCount *int               `json:"enrolled_count,omitempty"`
}

// AccessService decides, for every request targeting a course's content,
// whether the caller may see it and which view to construct. It is a
// pure query over current state; it never mutates anything.
type AccessService struct {
	courses     CourseStore
	enrollments EnrollmentStore
	resources   ResourceStore

	// requireLoginForListing gates the course index itself; course
	// detail is always gated regardless.
	requireLoginForListing bool
}

// NewAccessService creates a new AccessService.
func NewAccessService(courses CourseStore, enrollments EnrollmentStore, resources ResourceStore, requireLoginForListing bool) *AccessService {
	return &AccessService{
		courses:                courses,
		enrollments:            enrollments,
		resources:              resources,
		requireLoginForListing: requireLoginForListing,
	}
}

// AuthorizeListing decides whether the caller may see the course index.
func (s *AccessService) AuthorizeListing(session model.Session) error {
	if s.requireLoginForListing && session.IsAnonymous() {
		return ErrAuthenticationRequired
	}
	return nil
}

// AuthorizeInstructorAction gates course management and resource uploads.
// There are no graduated permissions: the singleton instructor role is
// the only one allowed through.
func (s *AccessService) AuthorizeInstructorAction(session model.Session) error {
	if !session.IsInstructor() {
		return ErrUnauthorized
	}
	return nil
}

// AuthorizeCourseContent applies the access decision table for one
// course without building a view. Used for reads that only need the
// ALLOW/DENY outcome, such as file downloads. Decision precedence:
//
//  1. Instructor: allowed, bypassing enrollment checks entirely.
//  2. Enrolled student: allowed.
//  3. Student without a matching enrollment: ErrNotEnrolled.
//  4. Anonymous: ErrAuthenticationRequired.
func (s *AccessService) AuthorizeCourseContent(ctx context.Context, session model.Session, courseID int) (*model.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	switch session.Role {
	case model.RoleInstructor:
		return course, nil

	case model.RoleStudent:
		enrolled, err := s.enrollments.Exists(ctx, session.Email, courseID)
		if err != nil {
			return nil, fmt.Errorf("check enrollment: %w", err)
		}
		if !enrolled {
			return nil, ErrNotEnrolled
		}
		return course, nil

	default:
		return nil, ErrAuthenticationRequired
	}
}

// AuthorizeCourseView resolves the caller's session into an access
// decision for one course and, when allowed, builds the precise slice
// of data visible to them (see AuthorizeCourseContent for precedence).
func (s *AccessService) AuthorizeCourseView(ctx context.Context, session model.Session, courseID int) (*CourseView, error) {
	course, err := s.AuthorizeCourseContent(ctx, session, courseID)
	if err != nil {
		return nil, err
	}

	if session.IsInstructor() {
		return s.buildInstructorView(ctx, course)
	}
	return s.buildStudentView(ctx, course)
}

func (s *AccessService) buildStudentView(ctx context.Context, course *model.Course) (*CourseView, error) {
	lectures, err := s.resources.ListLectures(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("list lectures: %w", err)
	}
	assignments, err := s.resources.ListAssignments(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}

	return &CourseView{
		Course:      course,
		Lectures:    lectures,
		Assignments: assignments,
	}, nil
}

func (s *AccessService) buildInstructorView(ctx context.Context, course *model.Course) (*CourseView, error) {
	view, err := s.buildStudentView(ctx, course)
	if err != nil {
		return nil, err
	}

	roster, err := s.enrollments.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	count := len(roster)

	view.Roster = roster
	view.EnrolledCount = &count
	return view, nil
}
