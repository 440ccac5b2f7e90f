package httpapi

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"dashboard-backend-go/internal/services"
	"dashboard-backend-go/internal/storage"
)

// parseDate accepts RFC 3339 or plain YYYY-MM-DD, the two shapes clients send.
func parseDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, services.ErrBadRequest("Invalid date: " + raw)
	}
	return parsed, nil
}

func parseDatePtr(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := parseDate(*raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// resourceID pulls the {id} route param. A syntactically invalid id can never
// match a row, so it collapses into the same NotFound as a foreign one.
func resourceID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		return "", services.ErrNotFound("Not found")
	}
	return id, nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// readFormFile extracts the optional "file" part of a multipart request and
// runs it through the upload service. Returns nil when no file was sent.
func (s *Server) readFormFile(r *http.Request) (*storage.StoredFile, error) {
	file, header, err := r.FormFile("file")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, services.ErrBadRequest("Invalid file upload")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, services.WrapError(err, "read upload")
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	stored, err := s.Uploads.Store(r.Context(), data, header.Filename, contentType)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func formValuePtr(r *http.Request, key string) *string {
	if !r.Form.Has(key) && !r.PostForm.Has(key) {
		return nil
	}
	value := r.FormValue(key)
	return &value
}

func formatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := formatDate(*t)
	return &formatted
}
