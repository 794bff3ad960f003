package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lectern/courseport-backend/internal/model"
	"github.com/lectern/courseport-backend/internal/notify"
	"github.com/rs/zerolog"
)

func newEnrollFixture() (*EnrollmentService, *fakeEnrollmentStore, *fakeNotifier, *fakeCourseStore) {
	students := newFakeStudentStore(
		&model.Student{ID: 7, Name: "Ana", Email: "ana@example.com"},
	)
	courses := newFakeCourseStore(
		&model.Course{ID: 1, Title: "Distributed Systems", Instructor: "Dr. Reed"},
	)
	enrollments := newFakeEnrollmentStore()
	notifier := &fakeNotifier{}
	svc := NewEnrollmentService(students, courses, enrollments, notifier, zerolog.Nop())
	return svc, enrollments, notifier, courses
}

func TestEnroll_CreatesOnceAndNotifiesOnce(t *testing.T) {
	svc, enrollments, notifier, _ := newEnrollFixture()
	ctx := context.Background()

	first, err := svc.Enroll(ctx, 7, 1)
	if err != nil {
		t.Fatalf("first Enroll() error = %v", err)
	}
	if !first.Created {
		t.Error("first Enroll() Created = false, want true")
	}

	second, err := svc.Enroll(ctx, 7, 1)
	if err != nil {
		t.Fatalf("second Enroll() error = %v", err)
	}
	if second.Created {
		t.Error("second Enroll() Created = true, want false")
	}

	rows, _ := enrollments.ListByCourse(ctx, 1)
	if len(rows) != 1 {
		t.Errorf("enrollment rows = %d, want 1", len(rows))
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("notifications sent = %d, want 1", len(notifier.messages))
	}

	msg := notifier.messages[0]
	if msg.Event != notify.EventEnrollmentConfirmed {
		t.Errorf("Event = %q, want %q", msg.Event, notify.EventEnrollmentConfirmed)
	}
	if len(msg.Recipients) != 1 || msg.Recipients[0] != "ana@example.com" {
		t.Errorf("Recipients = %v, want [ana@example.com]", msg.Recipients)
	}
}

func TestEnroll_ConcurrentDuplicateSuppressed(t *testing.T) {
	svc, enrollments, notifier, _ := newEnrollFixture()

	// The existence check misses but the insert reports a conflict, as
	// happens when an identical enroll races in between. No row, no
	// notification, no error.
	enrollments.forceConflict = true

	result, err := svc.Enroll(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	if result.Created {
		t.Error("Created = true, want false")
	}
	if len(notifier.messages) != 0 {
		t.Errorf("notifications sent = %d, want 0", len(notifier.messages))
	}
}

func TestEnroll_MissingCourse(t *testing.T) {
	svc, _, notifier, _ := newEnrollFixture()

	_, err := svc.Enroll(context.Background(), 7, 42)
	if !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("Enroll() error = %v, want ErrCourseNotFound", err)
	}
	if len(notifier.messages) != 0 {
		t.Errorf("notifications sent = %d, want 0", len(notifier.messages))
	}
}

func TestEnroll_MissingStudent(t *testing.T) {
	svc, _, _, _ := newEnrollFixture()

	_, err := svc.Enroll(context.Background(), 999, 1)
	if !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("Enroll() error = %v, want ErrSessionInvalid", err)
	}
}

func TestListEnrolledCourses(t *testing.T) {
	svc, _, _, courses := newEnrollFixture()
	courses.byEmail["ana@example.com"] = []model.Course{
		{ID: 1, Title: "Distributed Systems", Instructor: "Dr. Reed"},
	}

	got, err := svc.ListEnrolledCourses(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListEnrolledCourses() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("courses = %v, want the single enrolled course", got)
	}

	if _, err := svc.ListEnrolledCourses(context.Background(), 999); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("missing student: error = %v, want ErrSessionInvalid", err)
	}
}
