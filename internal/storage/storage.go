// Package storage persists uploaded binaries behind one interface with three
// interchangeable backends: S3 object storage, database-hosted rows, and the
// local filesystem. Backends are tried in that fixed order on every call,
// falling through on missing configuration or operational failure.
package storage

import (
	"context"
	"log"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"

	"dashboard-backend-go/internal/config"
	"dashboard-backend-go/internal/services"
)

// StoredFile is the logical result shape shared by every backend.
type StoredFile struct {
	FileURL  string `json:"fileUrl"`
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
}

type Backend interface {
	Name() string
	// Available reports whether the backend can be attempted at all
	// (configuration present, connection live).
	Available() bool
	Store(ctx context.Context, data []byte, originalName, contentType string) (StoredFile, error)
}

type Service struct {
	backends []Backend
}

func NewService(cfg config.Config, db *sqlx.DB) *Service {
	return &Service{backends: []Backend{
		&S3Backend{Config: cfg},
		&PostgresBackend{DB: db},
		&LocalBackend{Dir: cfg.UploadDir},
	}}
}

// NewServiceWithBackends exists for tests and custom chains.
func NewServiceWithBackends(backends ...Backend) *Service {
	return &Service{backends: backends}
}

// Store validates the declared MIME type and walks the backend chain. A
// backend failure is logged and swallowed; an error surfaces only when every
// backend has failed.
func (s *Service) Store(ctx context.Context, data []byte, originalName, contentType string) (StoredFile, error) {
	if !AllowedType(contentType) {
		return StoredFile{}, services.ErrBadRequest("Only PDF and image files are allowed")
	}
	var lastErr error
	for _, backend := range s.backends {
		if !backend.Available() {
			continue
		}
		result, err := backend.Store(ctx, data, originalName, contentType)
		if err != nil {
			lastErr = err
			log.Printf("storage: %s backend failed: %v", backend.Name(), err)
			continue
		}
		return result, nil
	}
	if lastErr != nil {
		return StoredFile{}, services.WrapError(lastErr, "all storage backends failed")
	}
	return StoredFile{}, services.ErrBadRequest("No storage backend available")
}

// AllowedType gates uploads by declared MIME type only; content is not
// sniffed.
func AllowedType(contentType string) bool {
	return contentType == "application/pdf" || strings.HasPrefix(contentType, "image/")
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]`)

// SanitizeFilename replaces anything outside [a-zA-Z0-9.-_] so original
// names are safe inside storage keys.
func SanitizeFilename(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}
