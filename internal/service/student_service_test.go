package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lectern/courseport-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func newStudentFixture() (*StudentService, *fakeStudentStore) {
	students := newFakeStudentStore()
	auth := NewAuthService(&config.Config{BcryptCost: bcrypt.MinCost}, nil)
	return NewStudentService(students, auth), students
}

func TestRegister_DuplicateEmailRejected(t *testing.T) {
	svc, students := newStudentFixture()
	ctx := context.Background()

	first, err := svc.Register(ctx, "Ana", "Ana@Example.com", "password123")
	if err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	if first.Email != "ana@example.com" {
		t.Errorf("Email = %q, want the normalized lowercase form", first.Email)
	}

	// Same email in different casing is still a duplicate.
	_, err = svc.Register(ctx, "Ana Again", "ana@example.com ", "otherpass")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate Register() error = %v, want ErrEmailTaken", err)
	}

	if len(students.byEmail) != 1 {
		t.Errorf("stored students = %d, want 1", len(students.byEmail))
	}
	kept, _ := students.GetByEmail(ctx, "ana@example.com")
	if kept.Name != "Ana" {
		t.Errorf("Name = %q, want the original registration kept", kept.Name)
	}
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newStudentFixture()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Ana", "ana@example.com", "password123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	student, err := svc.Authenticate(ctx, "ANA@example.com", "password123")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if student.Name != "Ana" {
		t.Errorf("Name = %q, want Ana", student.Name)
	}

	if _, err := svc.Authenticate(ctx, "ana@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: error = %v, want ErrInvalidCredentials", err)
	}
}

func TestVerifyInstructorCredential(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("chalk-and-talk"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	auth := NewAuthService(&config.Config{
		BcryptCost:             bcrypt.MinCost,
		InstructorUsername:     "instructor",
		InstructorPasswordHash: string(hash),
	}, nil)

	if err := auth.VerifyInstructorCredential("instructor", "chalk-and-talk"); err != nil {
		t.Errorf("valid credential: error = %v", err)
	}
	if err := auth.VerifyInstructorCredential("instructor", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: error = %v, want ErrInvalidCredentials", err)
	}
	if err := auth.VerifyInstructorCredential("someone", "chalk-and-talk"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong username: error = %v, want ErrInvalidCredentials", err)
	}

	// An unset hash disables the instructor login entirely.
	disabled := NewAuthService(&config.Config{InstructorUsername: "instructor"}, nil)
	if err := disabled.VerifyInstructorCredential("instructor", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unset hash: error = %v, want ErrInvalidCredentials", err)
	}
}
