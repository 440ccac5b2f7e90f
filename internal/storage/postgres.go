package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"dashboard-backend-go/internal/models"
	"dashboard-backend-go/internal/services"
)

// PostgresBackend streams the payload into the stored_files table and returns
// an id-addressed retrieval path served by the grid download handler. Used
// when object storage is not configured but the datastore is live.
type PostgresBackend struct {
	DB *sqlx.DB
}

func (b *PostgresBackend) Name() string { return "postgres" }

func (b *PostgresBackend) Available() bool {
	return b.DB != nil && b.DB.Ping() == nil
}

func (b *PostgresBackend) Store(ctx context.Context, data []byte, originalName, contentType string) (StoredFile, error) {
	fileID := uuid.NewString()
	_, err := b.DB.ExecContext(ctx, `
INSERT INTO stored_files (id, file_name, content_type, data, size_bytes, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`, fileID, originalName, contentType, data, int64(len(data)), time.Now().UTC())
	if err != nil {
		return StoredFile{}, err
	}
	return StoredFile{
		FileURL:  GridFileURL(fileID),
		FileName: originalName,
		FileType: contentType,
	}, nil
}

func GridFileURL(fileID string) string {
	return "/api/uploads/grid/" + fileID
}

// OpenStored fetches a database-hosted binary for the download endpoint.
func OpenStored(ctx context.Context, db *sqlx.DB, fileID string) (*models.StoredFile, error) {
	if db == nil {
		return nil, services.WrapError(errors.New("no database handle"), "stored file")
	}
	var file models.StoredFile
	err := db.GetContext(ctx, &file, `
SELECT id, file_name, content_type, data, size_bytes, created_at
FROM stored_files
WHERE id = $1
`, fileID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.ErrNotFound("File not found")
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}
