package service

import (
	"context"
	"mime/multipart"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/lectern/courseport-backend/internal/model"
	"github.com/lectern/courseport-backend/internal/notify"
	"github.com/lectern/courseport-backend/internal/repository"
)

// In-memory fakes for the store interfaces. Fakes (not a mock framework)
// keep the tests dependency-free and easy to read. Absent rows surface
// as pgx.ErrNoRows, matching the repository layer.

type fakeCourseStore struct {
	courses map[int]*model.Course
	byEmail map[string][]model.Course
}

func newFakeCourseStore(courses ...*model.Course) *fakeCourseStore {
	f := &fakeCourseStore{
		courses: make(map[int]*model.Course),
		byEmail: make(map[string][]model.Course),
	}
	for _, c := range courses {
		f.courses[c.ID] = c
	}
	return f
}

func (f *fakeCourseStore) GetByID(_ context.Context, id int) (*model.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return c, nil
}

func (f *fakeCourseStore) ListByStudentEmail(_ context.Context, email string) ([]model.Course, error) {
	return f.byEmail[email], nil
}

type fakeStudentStore struct {
	byID    map[int]*model.Student
	byEmail map[string]*model.Student
	nextID  int
}

func newFakeStudentStore(students ...*model.Student) *fakeStudentStore {
	f := &fakeStudentStore{
		byID:    make(map[int]*model.Student),
		byEmail: make(map[string]*model.Student),
		nextID:  1,
	}
	for _, s := range students {
		f.byID[s.ID] = s
		f.byEmail[s.Email] = s
		if s.ID >= f.nextID {
			f.nextID = s.ID + 1
		}
	}
	return f
}

func (f *fakeStudentStore) GetByID(_ context.Context, id int) (*model.Student, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return s, nil
}

func (f *fakeStudentStore) GetByEmail(_ context.Context, email string) (*model.Student, error) {
	s, ok := f.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return s, nil
}

func (f *fakeStudentStore) Create(_ context.Context, s *model.Student) error {
	// Simulate the unique index on email.
	if _, ok := f.byEmail[s.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	s.ID = f.nextID
	f.nextID++
	copied := *s
	f.byID[s.ID] = &copied
	f.byEmail[s.Email] = &copied
	return nil
}

func (f *fakeStudentStore) ClearAll(context.Context) error {
	f.byID = make(map[int]*model.Student)
	f.byEmail = make(map[string]*model.Student)
	return nil
}

type fakeEnrollmentStore struct {
	mu     sync.Mutex
	rows   []model.Enrollment
	nextID int
	// set to force Create to report created=false even after a missed
	// existence check, simulating a concurrent duplicate insert
	forceConflict bool
}

func newFakeEnrollmentStore() *fakeEnrollmentStore {
	return &fakeEnrollmentStore{nextID: 1}
}

func (f *fakeEnrollmentStore) Exists(_ context.Context, email string, courseID int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.rows {
		if e.Email == email && e.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEnrollmentStore) Create(_ context.Context, e *model.Enrollment) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.forceConflict {
		return false, nil
	}
	// Simulate ON CONFLICT (email, course_id) DO NOTHING.
	for _, existing := range f.rows {
		if existing.Email == e.Email && existing.CourseID == e.CourseID {
			return false, nil
		}
	}
	e.ID = f.nextID
	f.nextID++
	f.rows = append(f.rows, *e)
	return true, nil
}

func (f *fakeEnrollmentStore) ListByCourse(_ context.Context, courseID int) ([]model.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Enrollment
	for _, e := range f.rows {
		if e.CourseID == courseID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentStore) ListEmailsByCourse(_ context.Context, courseID int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, e := range f.rows {
		if e.CourseID == courseID {
			out = append(out, e.Email)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentStore) enroll(email, name string, courseID int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, model.Enrollment{
		ID: f.nextID, StudentName: name, Email: email, CourseID: courseID,
	})
	f.nextID++
}

type fakeResourceStore struct {
	lectures    []model.Lecture
	assignments []model.Assignment
	// set to a non-nil error to simulate a metadata insert failure
	createErr error
}

func (f *fakeResourceStore) ListLectures(_ context.Context, courseID int) ([]model.Lecture, error) {
	var out []model.Lecture
	for _, l := range f.lectures {
		if l.CourseID == courseID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeResourceStore) ListAssignments(_ context.Context, courseID int) ([]model.Assignment, error) {
	var out []model.Assignment
	for _, a := range f.assignments {
		if a.CourseID == courseID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeResourceStore) CreateLecture(_ context.Context, l *model.Lecture) error {
	if f.createErr != nil {
		return f.createErr
	}
	l.ID = len(f.lectures) + 1
	f.lectures = append(f.lectures, *l)
	return nil
}

func (f *fakeResourceStore) CreateAssignment(_ context.Context, a *model.Assignment) error {
	if f.createErr != nil {
		return f.createErr
	}
	a.ID = len(f.assignments) + 1
	f.assignments = append(f.assignments, *a)
	return nil
}

func (f *fakeResourceStore) GetLectureByFilename(_ context.Context, courseID int, filename string) (*model.Lecture, error) {
	for _, l := range f.lectures {
		if l.CourseID == courseID && l.Filename == filename {
			return &l, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeResourceStore) GetAssignmentByFilename(_ context.Context, courseID int, filename string) (*model.Assignment, error) {
	for _, a := range f.assignments {
		if a.CourseID == courseID && a.Filename == filename {
			return &a, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeNotifier struct {
	messages []notify.Message
}

func (f *fakeNotifier) Enqueue(_ context.Context, msg notify.Message) {
	f.messages = append(f.messages, msg)
}

type fakeStorage struct {
	saved   []string
	removed []string
	// set to a non-nil error to simulate a failed file write
	saveErr error
}

func (f *fakeStorage) SaveUpload(_ ResourceKind, _ multipart.File, header *multipart.FileHeader) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	filename := SanitizeFilename(header.Filename)
	f.saved = append(f.saved, filename)
	return filename, nil
}

func (f *fakeStorage) Resolve(_ ResourceKind, filename string) (string, error) {
	for _, s := range f.saved {
		if s == filename {
			return "/tmp/fake/" + filename, nil
		}
	}
	return "", ErrFileMissing
}

func (f *fakeStorage) Remove(_ ResourceKind, filename string) error {
	f.removed = append(f.removed, filename)
	return nil
}
