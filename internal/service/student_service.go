package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/lectern/courseport-backend/internal/model"
	"github.com/lectern/courseport-backend/internal/repository"
)

// ErrEmailTaken means registration hit an email that already has an account.
var ErrEmailTaken = errors.New("email already registered")

// StudentService handles the student side of the credential store.
type StudentService struct {
	students StudentStore
	auth     *AuthService
}

// NewStudentService creates a new StudentService.
func NewStudentService(students StudentStore, auth *AuthService) *StudentService {
	return &StudentService{students: students, auth: auth}
}

// Register creates a student account. The email is the natural key;
// a duplicate registration is rejected with ErrEmailTaken, never an
// overwrite, and the store keeps exactly one row for that email.
func (s *StudentService) Register(ctx context.Context, name, email, password string) (*model.Student, error) {
	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	student := &model.Student{
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
	}

	if err := s.students.Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create student: %w", err)
	}
	return student, nil
}

// Authenticate verifies a student's email/password pair.
func (s *StudentService) Authenticate(ctx context.Context, email, password string) (*model.Student, error) {
	student, err := s.students.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get student: %w", err)
	}

	if err := s.auth.CheckPassword(student.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return student, nil
}

// GetByID retrieves a student profile.
func (s *StudentService) GetByID(ctx context.Context, id int) (*model.Student, error) {
	return s.students.GetByID(ctx, id)
}

// ClearAll wipes every student identity and enrollment. Gated behind
// the instructor role by the caller.
func (s *StudentService) ClearAll(ctx context.Context) error {
	return s.students.ClearAll(ctx)
}
