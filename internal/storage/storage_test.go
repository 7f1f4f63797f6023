package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/projectcostai/projectcostai/internal/config"
)

func TestObjectName(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	tests := []struct {
		in   string
		want string
	}{
		{"report.pdf", "1700000000000-report.pdf"},
		{"my project plan.docx", "1700000000000-my_project_plan.docx"},
		{"../../etc/passwd", "1700000000000-passwd"},
		{`C:\Users\me\logo.png`, "1700000000000-logo.png"},
		{"..", "1700000000000-file"},
		{"", "1700000000000-file"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ObjectName(tt.in, now); got != tt.want {
				t.Errorf("ObjectName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLocal_Save(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir, "/uploads/")
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}
	l.now = func() time.Time { return time.UnixMilli(42) }

	url, err := l.Save(context.Background(), "notes.txt", "text/plain", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if url != "/uploads/42-notes.txt" {
		t.Errorf("url = %q", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, "42-notes.txt"))
	if err != nil || string(data) != "hello" {
		t.Errorf("stored file = %q, %v", data, err)
	}

	// same millisecond and name must not overwrite
	if _, err := l.Save(context.Background(), "notes.txt", "text/plain", strings.NewReader("again")); err == nil {
		t.Error("Save() expected error on name collision")
	}
}

func TestNew_Local(t *testing.T) {
	s, err := New(context.Background(), config.StorageConfig{Backend: "local", UploadDir: t.TempDir(), PublicBaseURL: "/uploads"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := s.(*Local); !ok {
		t.Errorf("New() = %T, want *Local", s)
	}

	if _, err := New(context.Background(), config.StorageConfig{Backend: "ftp"}); err == nil {
		t.Error("New() expected error for unknown backend")
	}
}
