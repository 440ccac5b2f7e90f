package storage

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// LocalBackend writes into a managed uploads directory, created on demand,
// and returns a path served by the static file host. Universal fallback, so
// the same code path works in a zero-configuration environment.
//
// Filenames are the upload's millisecond timestamp plus the original
// extension; two uploads in the same millisecond can collide. Known gap.
type LocalBackend struct {
	Dir string
}

func (b *LocalBackend) Name() string { return "local" }

func (b *LocalBackend) Available() bool { return b.Dir != "" }

func (b *LocalBackend) Store(ctx context.Context, data []byte, originalName, contentType string) (StoredFile, error) {
	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return StoredFile{}, err
	}
	fileName := strconv.FormatInt(time.Now().UnixMilli(), 10) + filepath.Ext(originalName)
	if err := os.WriteFile(filepath.Join(b.Dir, fileName), data, 0o644); err != nil {
		return StoredFile{}, err
	}
	return StoredFile{
		FileURL:  "/uploads/" + fileName,
		FileName: originalName,
		FileType: contentType,
	}, nil
}
