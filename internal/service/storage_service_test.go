package service

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"os"
	"strings"
	"testing"

	"github.com/lectern/courseport-backend/internal/config"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"notes.pdf", "notes.pdf"},
		{"week 1 (draft).pdf", "week_1_draft_.pdf"},
		{"../../etc/passwd", "passwd"},
		{"..\\..\\windows\\system32\\evil.exe", "evil.exe"},
		{"/var/tmp/payload.sh", "payload.sh"},
		{"résumé.pdf", "r_sum_.pdf"},
		{"..", "file"},
		{"", "file"},
		{"___", "file"},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// formUpload builds an in-memory multipart upload carrying one file part.
func formUpload(t *testing.T, filename, content string) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := io.WriteString(part, content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	w.Close()

	reader := multipart.NewReader(&buf, w.Boundary())
	form, err := reader.ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	header := form.File["file"][0]
	file, err := header.Open()
	if err != nil {
		t.Fatalf("open form file: %v", err)
	}
	t.Cleanup(func() { file.Close() })
	return file, header
}

func TestSaveUploadAndResolve(t *testing.T) {
	svc := NewStorageService(&config.Config{
		UploadDir:      t.TempDir(),
		MaxUploadBytes: 1 << 20,
	})

	file, header := formUpload(t, "../sneaky/week 1.pdf", "lecture body")
	filename, err := svc.SaveUpload(KindLecture, file, header)
	if err != nil {
		t.Fatalf("SaveUpload() error = %v", err)
	}
	if strings.Contains(filename, "/") || strings.Contains(filename, "..") {
		t.Errorf("stored filename %q still carries path components", filename)
	}
	if !strings.HasSuffix(filename, "_week_1.pdf") {
		t.Errorf("stored filename %q does not keep the sanitized original name", filename)
	}

	path, err := svc.Resolve(KindLecture, filename)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "lecture body" {
		t.Errorf("stored content = %q, want the uploaded body", data)
	}

	// Resolve never follows path components.
	if _, err := svc.Resolve(KindLecture, "../"+filename); !errors.Is(err, ErrFileMissing) {
		t.Errorf("traversal Resolve() error = %v, want ErrFileMissing", err)
	}
	// And never crosses resource kinds.
	if _, err := svc.Resolve(KindAssignment, filename); !errors.Is(err, ErrFileMissing) {
		t.Errorf("cross-kind Resolve() error = %v, want ErrFileMissing", err)
	}
}

func TestSaveUpload_RejectsOversizedFile(t *testing.T) {
	svc := NewStorageService(&config.Config{
		UploadDir:      t.TempDir(),
		MaxUploadBytes: 4,
	})

	file, header := formUpload(t, "big.pdf", "more than four bytes")
	if _, err := svc.SaveUpload(KindLecture, file, header); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("SaveUpload() error = %v, want ErrFileTooLarge", err)
	}
}

func TestRemove(t *testing.T) {
	svc := NewStorageService(&config.Config{
		UploadDir:      t.TempDir(),
		MaxUploadBytes: 1 << 20,
	})

	file, header := formUpload(t, "notes.pdf", "body")
	filename, err := svc.SaveUpload(KindLecture, file, header)
	if err != nil {
		t.Fatalf("SaveUpload() error = %v", err)
	}
	if err := svc.Remove(KindLecture, filename); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := svc.Resolve(KindLecture, filename); !errors.Is(err, ErrFileMissing) {
		t.Errorf("Resolve() after Remove() error = %v, want ErrFileMissing", err)
	}
}
