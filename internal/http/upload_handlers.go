package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"dashboard-backend-go/internal/storage"
)

// UploadCV stores a single multipart file through the backend chain and
// returns the resolvable {fileUrl, fileName, fileType} tuple.
func (s *Server) UploadCV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.Config.MaxUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, "No file provided")
		return
	}
	stored, err := s.readFormFile(r)
	if err != nil {
		WriteFailure(w, err, "Upload failed")
		return
	}
	if stored == nil {
		WriteError(w, http.StatusBadRequest, "No file provided")
		return
	}
	WriteSuccess(w, http.StatusCreated, stored, "File uploaded successfully")
}

// GridContent streams a database-hosted binary back with its original
// content type.
func (s *Server) GridContent(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "id")
	if uuid.Validate(fileID) != nil {
		WriteError(w, http.StatusNotFound, "File not found")
		return
	}
	file, err := storage.OpenStored(r.Context(), s.DB, fileID)
	if err != nil {
		WriteFailure(w, err, "Download failed")
		return
	}
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", "inline; filename=\""+file.FileName+"\"")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data)
}
