package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/lectern/courseport-backend/internal/config"
)

// Sentinel errors for uploads.
var (
	ErrFileTooLarge = errors.New("file too large")
	ErrFileMissing  = errors.New("file not found in storage")
)

// ResourceKind selects the storage subdirectory for an upload.
type ResourceKind string

const (
	KindLecture    ResourceKind = "lectures"
	KindAssignment ResourceKind = "assignments"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// StorageService persists uploaded resource files on local disk.
// Filenames are sanitized before storage; a short random prefix resolves
// collisions between uploads sharing a name.
type StorageService struct {
	cfg *config.Config
}

// NewStorageService creates a new StorageService.
func NewStorageService(cfg *config.Config) *StorageService {
	return &StorageService{cfg: cfg}
}

// SanitizeFilename strips any path components and characters outside
// [A-Za-z0-9._-] from an uploaded filename, closing path traversal.
func SanitizeFilename(name string) string {
	// Base() alone is not enough: clients may send backslash paths.
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._-")
	if name == "" {
		return "file"
	}
	return name
}

// SaveUpload writes an uploaded file under the kind's subdirectory and
// returns the stored filename. The metadata row must only be inserted
// after SaveUpload succeeds.
func (s *StorageService) SaveUpload(kind ResourceKind, file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > s.cfg.MaxUploadBytes {
		return "", fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.cfg.MaxUploadBytes)
	}

	dir := filepath.Join(s.cfg.UploadDir, string(kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	filename := uuid.New().String()[:8] + "_" + SanitizeFilename(header.Filename)
	destPath := filepath.Join(dir, filename)

	dst, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("write file: %w", err)
	}

	return filename, nil
}

// Resolve maps a stored filename back to its on-disk path for download.
// Filenames that do not survive sanitization unchanged are rejected.
func (s *StorageService) Resolve(kind ResourceKind, filename string) (string, error) {
	if filename != SanitizeFilename(filename) {
		return "", ErrFileMissing
	}

	path := filepath.Join(s.cfg.UploadDir, string(kind), filename)
	if _, err := os.Stat(path); err != nil {
		return "", ErrFileMissing
	}
	return path, nil
}

// Remove deletes a stored file, best effort. Used to roll back an upload
// whose metadata insert failed.
func (s *StorageService) Remove(kind ResourceKind, filename string) error {
	return os.Remove(filepath.Join(s.cfg.UploadDir, string(kind), filename))
}
