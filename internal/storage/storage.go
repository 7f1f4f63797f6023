// Package storage saves user uploads and returns the URL they are served from.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/projectcostai/projectcostai/internal/config"
)

// Store persists one uploaded file.
type Store interface {
	// Save writes r under a name derived from filename and returns its
	// public URL.
	Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ObjectName returns a collision resistant, path safe name for an upload:
// a millisecond timestamp, a dash and the sanitized base name.
func ObjectName(filename string, now time.Time) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = unsafeChars.ReplaceAllString(strings.Join(strings.Fields(base), "_"), "")
	base = strings.TrimLeft(base, ".")
	if base == "" {
		base = "file"
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), base)
}

// New builds the store selected by cfg.Backend.
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocal(cfg.UploadDir, cfg.PublicBaseURL)
	case "s3":
		return NewS3(ctx, cfg)
	case "gcs":
		return NewGCS(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown upload backend %q", cfg.Backend)
	}
}
