// Package storage stores uploaded magazine images on the local filesystem.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Allowed MIME types for uploaded images. An unsupported type aborts the
// whole multipart submission before any record is created.
var allowedMIMEs = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/webp":    true,
	"image/gif":     true,
	"image/svg+xml": true,
	"image/heic":    true,
	"image/heif":    true,
}

// AllowedImageType reports whether the MIME type may be uploaded.
func AllowedImageType(mime string) bool {
	return allowedMIMEs[mime]
}

// Store persists uploaded bytes and returns their storage path.
type Store interface {
	Store(data []byte, suggestedName string) (string, error)
}

// Local stores files under a directory on disk.
type Local struct {
	dir string
}

// NewLocal creates the upload directory if needed and returns a Local store.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &Local{dir: dir}, nil
}

// Store writes the data under a timestamp-prefixed name and returns the path.
func (l *Local) Store(data []byte, suggestedName string) (string, error) {
	name := fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(suggestedName))
	path := filepath.Join(l.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to store file %s: %w", name, err)
	}
	return path, nil
}
