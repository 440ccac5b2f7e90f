package httpapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"dashboard-backend-go/internal/models"
	"dashboard-backend-go/internal/services"
)

type CertificationDTO struct {
	ID           string  `json:"id"`
	UserID       string  `json:"userId"`
	Title        string  `json:"title"`
	Organization string  `json:"organization"`
	IssueDate    string  `json:"issueDate"`
	ExpiryDate   *string `json:"expiryDate,omitempty"`
	FileURL      *string `json:"fileUrl,omitempty"`
	FileName     *string `json:"fileName,omitempty"`
	FileType     *string `json:"fileType,omitempty"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

func certDTO(c models.Certification) CertificationDTO {
	return CertificationDTO{
		ID:           c.ID,
		UserID:       c.UserID,
		Title:        c.Title,
		Organization: c.Organization,
		IssueDate:    formatDate(c.IssueDate),
		ExpiryDate:   formatDatePtr(c.ExpiryDate),
		FileURL:      c.FileURL,
		FileName:     c.FileName,
		FileType:     c.FileType,
		CreatedAt:    formatDate(c.CreatedAt),
		UpdatedAt:    formatDate(c.UpdatedAt),
	}
}

const certColumns = `id, user_id, title, organization, issue_date, expiry_date, file_url, file_name, file_type, created_at, updated_at`

func (s *Server) ListCertifications(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	rows := []models.Certification{}
	err := s.DB.Select(&rows, `
SELECT `+certColumns+`
FROM certifications
WHERE user_id = $1
ORDER BY created_at DESC
`, userID)
	if err != nil {
		WriteFailure(w, err, "Failed to fetch certifications")
		return
	}
	items := make([]CertificationDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, certDTO(row))
	}
	WriteSuccess(w, http.StatusOK, items, "")
}

func (s *Server) GetCertification(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	id, err := resourceID(r)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Certification not found")
		return
	}
	cert, err := s.fetchCertification(userID, id)
	if err != nil {
		WriteFailure(w, err, "Failed to fetch certification")
		return
	}
	WriteSuccess(w, http.StatusOK, certDTO(*cert), "")
}

type certCreateInput struct {
	Title        string  `json:"title"`
	Organization string  `json:"organization"`
	IssueDate    string  `json:"issueDate"`
	ExpiryDate   *string `json:"expiryDate"`
}

// CreateCertification accepts JSON, or multipart with an optional file part
// that flows through the upload service before the record is written.
func (s *Server) CreateCertification(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	var input certCreateInput
	var fileURL, fileName, fileType *string
	if isMultipart(r) {
		if err := r.ParseMultipartForm(s.Config.MaxUploadBytes); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid payload")
			return
		}
		input.Title = r.FormValue("title")
		input.Organization = r.FormValue("organization")
		input.IssueDate = r.FormValue("issueDate")
		input.ExpiryDate = formValuePtr(r, "expiryDate")
		stored, err := s.readFormFile(r)
		if err != nil {
			WriteFailure(w, err, "Failed to create certification")
			return
		}
		if stored != nil {
			fileURL, fileName, fileType = &stored.FileURL, &stored.FileName, &stored.FileType
		}
	} else if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	title, err := services.NormalizeRequired(input.Title, "Title, organization, and issue date are required")
	if err == nil {
		err = services.CheckMaxLen(title, 100, "Title cannot be more than 100 characters")
	}
	if err != nil {
		WriteFailure(w, err, "Failed to create certification")
		return
	}
	organization, err := services.NormalizeRequired(input.Organization, "Title, organization, and issue date are required")
	if err == nil {
		err = services.CheckMaxLen(organization, 100, "Organization cannot be more than 100 characters")
	}
	if err != nil {
		WriteFailure(w, err, "Failed to create certification")
		return
	}
	if input.IssueDate == "" {
		WriteError(w, http.StatusBadRequest, "Title, organization, and issue date are required")
		return
	}
	issueDate, err := parseDate(input.IssueDate)
	if err != nil {
		WriteFailure(w, err, "Failed to create certification")
		return
	}
	expiryDate, err := parseDatePtr(input.ExpiryDate)
	if err != nil {
		WriteFailure(w, err, "Failed to create certification")
		return
	}

	now := time.Now().UTC()
	cert := models.Certification{
		ID:           uuid.NewString(),
		UserID:       userID,
		Title:        title,
		Organization: organization,
		IssueDate:    issueDate,
		ExpiryDate:   expiryDate,
		FileURL:      fileURL,
		FileName:     fileName,
		FileType:     fileType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err = s.DB.Exec(`
INSERT INTO certifications (`+certColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`, cert.ID, cert.UserID, cert.Title, cert.Organization, cert.IssueDate, cert.ExpiryDate,
		cert.FileURL, cert.FileName, cert.FileType, cert.CreatedAt, cert.UpdatedAt)
	if err != nil {
		WriteFailure(w, err, "Failed to create certification")
		return
	}
	WriteSuccess(w, http.StatusCreated, certDTO(cert), "Certification created successfully")
}

type certPatch struct {
	Title        *string `json:"title"`
	Organization *string `json:"organization"`
	IssueDate    *string `json:"issueDate"`
	ExpiryDate   *string `json:"expiryDate"`
}

func (s *Server) UpdateCertification(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	id, err := resourceID(r)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Certification not found")
		return
	}
	var patch certPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	cert, err := s.fetchCertification(userID, id)
	if err != nil {
		WriteFailure(w, err, "Failed to update certification")
		return
	}
	if patch.Title != nil {
		title, err := services.NormalizeRequired(*patch.Title, "Title cannot be empty")
		if err == nil {
			err = services.CheckMaxLen(title, 100, "Title cannot be more than 100 characters")
		}
		if err != nil {
			WriteFailure(w, err, "Failed to update certification")
			return
		}
		cert.Title = title
	}
	if patch.Organization != nil {
		organization, err := services.NormalizeRequired(*patch.Organization, "Organization cannot be empty")
		if err == nil {
			err = services.CheckMaxLen(organization, 100, "Organization cannot be more than 100 characters")
		}
		if err != nil {
			WriteFailure(w, err, "Failed to update certification")
			return
		}
		cert.Organization = organization
	}
	if patch.IssueDate != nil {
		issueDate, err := parseDate(*patch.IssueDate)
		if err != nil {
			WriteFailure(w, err, "Failed to update certification")
			return
		}
		cert.IssueDate = issueDate
	}
	if patch.ExpiryDate != nil {
		expiryDate, err := parseDatePtr(patch.ExpiryDate)
		if err != nil {
			WriteFailure(w, err, "Failed to update certification")
			return
		}
		cert.ExpiryDate = expiryDate
	}
	cert.UpdatedAt = time.Now().UTC()
	_, err = s.DB.Exec(`
UPDATE certifications
SET title = $3, organization = $4, issue_date = $5, expiry_date = $6, updated_at = $7
WHERE id = $1 AND user_id = $2
`, cert.ID, userID, cert.Title, cert.Organization, cert.IssueDate, cert.ExpiryDate, cert.UpdatedAt)
	if err != nil {
		WriteFailure(w, err, "Failed to update certification")
		return
	}
	WriteSuccess(w, http.StatusOK, certDTO(*cert), "Certification updated successfully")
}

func (s *Server) DeleteCertification(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	id, err := resourceID(r)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Certification not found")
		return
	}
	result, err := s.DB.Exec(`DELETE FROM certifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		WriteFailure(w, err, "Failed to delete certification")
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		WriteError(w, http.StatusNotFound, "Certification not found")
		return
	}
	WriteSuccess(w, http.StatusOK, nil, "Certification deleted successfully")
}

// fetchCertification is scoped by owner: an id under another account is
// indistinguishable from a missing one.
func (s *Server) fetchCertification(userID, id string) (*models.Certification, error) {
	var cert models.Certification
	err := s.DB.Get(&cert, `
SELECT `+certColumns+`
FROM certifications
WHERE id = $1 AND user_id = $2
`, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.ErrNotFound("Certification not found")
	}
	if err != nil {
		return nil, err
	}
	return &cert, nil
}
