package service

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/lectern/courseport-backend/internal/model"
	"github.com/lectern/courseport-backend/internal/notify"
	"github.com/rs/zerolog"
)

func newResourceFixture() (*ResourceService, *fakeEnrollmentStore, *fakeResourceStore, *fakeStorage, *fakeNotifier) {
	courses := newFakeCourseStore(
		&model.Course{ID: 1, Title: "Distributed Systems", Instructor: "Dr. Reed"},
	)
	enrollments := newFakeEnrollmentStore()
	resources := &fakeResourceStore{}
	storage := &fakeStorage{}
	notifier := &fakeNotifier{}
	svc := NewResourceService(courses, enrollments, resources, storage, notifier, zerolog.Nop())
	return svc, enrollments, resources, storage, notifier
}

func uploadHeader(filename string) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: filename}
}

func TestAddLecture_BroadcastsToEnrolled(t *testing.T) {
	svc, enrollments, resources, _, notifier := newResourceFixture()
	enrollments.enroll("ana@example.com", "Ana", 1)
	enrollments.enroll("bo@example.com", "Bo", 1)
	enrollments.enroll("cy@example.com", "Cy", 2) // different course, must not receive

	lecture, err := svc.AddLecture(context.Background(), 1, "Week 1", nil, uploadHeader("notes.pdf"))
	if err != nil {
		t.Fatalf("AddLecture() error = %v", err)
	}
	if lecture.Filename == "" {
		t.Error("lecture filename is empty")
	}
	if len(resources.lectures) != 1 {
		t.Fatalf("stored lectures = %d, want 1", len(resources.lectures))
	}

	if len(notifier.messages) != 1 {
		t.Fatalf("notifications sent = %d, want 1", len(notifier.messages))
	}
	msg := notifier.messages[0]
	if msg.Event != notify.EventLecturePublished {
		t.Errorf("Event = %q, want %q", msg.Event, notify.EventLecturePublished)
	}
	want := map[string]bool{"ana@example.com": true, "bo@example.com": true}
	if len(msg.Recipients) != len(want) {
		t.Fatalf("Recipients = %v, want exactly the course's enrolled emails", msg.Recipients)
	}
	for _, r := range msg.Recipients {
		if !want[r] {
			t.Errorf("unexpected recipient %q", r)
		}
	}
}

func TestAddAssignment_NoEnrollees_NoNotification(t *testing.T) {
	svc, _, resources, _, notifier := newResourceFixture()

	_, err := svc.AddAssignment(context.Background(), 1, "Lab 1", "2026-09-15", nil, uploadHeader("lab1.pdf"))
	if err != nil {
		t.Fatalf("AddAssignment() error = %v", err)
	}
	if len(resources.assignments) != 1 {
		t.Errorf("stored assignments = %d, want 1", len(resources.assignments))
	}
	if len(notifier.messages) != 0 {
		t.Errorf("notifications sent = %d, want 0 for an empty roster", len(notifier.messages))
	}
}

func TestAddLecture_FileWriteFailurePreventsInsert(t *testing.T) {
	svc, enrollments, resources, storage, notifier := newResourceFixture()
	enrollments.enroll("ana@example.com", "Ana", 1)
	storage.saveErr = errors.New("disk full")

	_, err := svc.AddLecture(context.Background(), 1, "Week 1", nil, uploadHeader("notes.pdf"))
	if err == nil {
		t.Fatal("AddLecture() error = nil, want write failure")
	}
	if len(resources.lectures) != 0 {
		t.Errorf("stored lectures = %d, want 0 after a failed write", len(resources.lectures))
	}
	if len(notifier.messages) != 0 {
		t.Errorf("notifications sent = %d, want 0", len(notifier.messages))
	}
}

func TestAddLecture_InsertFailureRemovesFile(t *testing.T) {
	svc, _, resources, storage, notifier := newResourceFixture()
	resources.createErr = errors.New("insert failed")

	_, err := svc.AddLecture(context.Background(), 1, "Week 1", nil, uploadHeader("notes.pdf"))
	if err == nil {
		t.Fatal("AddLecture() error = nil, want insert failure")
	}
	if len(storage.removed) != 1 {
		t.Fatalf("removed files = %v, want the orphaned upload", storage.removed)
	}
	if storage.removed[0] != storage.saved[0] {
		t.Errorf("removed %q, want the saved file %q", storage.removed[0], storage.saved[0])
	}
	if len(notifier.messages) != 0 {
		t.Errorf("notifications sent = %d, want 0", len(notifier.messages))
	}
}

func TestAddLecture_MissingCourse(t *testing.T) {
	svc, _, _, storage, _ := newResourceFixture()

	_, err := svc.AddLecture(context.Background(), 42, "Week 1", nil, uploadHeader("notes.pdf"))
	if !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("AddLecture() error = %v, want ErrCourseNotFound", err)
	}
	if len(storage.saved) != 0 {
		t.Errorf("saved files = %v, want none", storage.saved)
	}
}

func TestResolveDownload(t *testing.T) {
	svc, _, resources, _, _ := newResourceFixture()

	if _, err := svc.AddLecture(context.Background(), 1, "Week 1", nil, uploadHeader("notes.pdf")); err != nil {
		t.Fatalf("AddLecture() error = %v", err)
	}
	stored := resources.lectures[0].Filename

	path, err := svc.ResolveDownload(context.Background(), 1, KindLecture, stored)
	if err != nil {
		t.Fatalf("ResolveDownload() error = %v", err)
	}
	if path == "" {
		t.Error("resolved path is empty")
	}

	// The same filename under another course must not resolve.
	if _, err := svc.ResolveDownload(context.Background(), 2, KindLecture, stored); !errors.Is(err, ErrFileMissing) {
		t.Errorf("cross-course download: error = %v, want ErrFileMissing", err)
	}
	if _, err := svc.ResolveDownload(context.Background(), 1, KindLecture, "nope.pdf"); !errors.Is(err, ErrFileMissing) {
		t.Errorf("unknown filename: error = %v, want ErrFileMissing", err)
	}
}
