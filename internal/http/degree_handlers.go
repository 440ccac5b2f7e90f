package httpapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"dashboard-backend-go/internal/models"
	"dashboard-backend-go/internal/services"
)

type DegreeDTO struct {
	ID         string   `json:"id"`
	UserID     string   `json:"userId"`
	DegreeName string   `json:"degreeName"`
	University string   `json:"university"`
	StartDate  string   `json:"startDate"`
	EndDate    string   `json:"endDate"`
	GPA        *float64 `json:"gpa,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
	FileURL    *string  `json:"fileUrl,omitempty"`
	FileName   *string  `json:"fileName,omitempty"`
	FileType   *string  `json:"fileType,omitempty"`
	CreatedAt  string   `json:"createdAt"`
	UpdatedAt  string   `json:"updatedAt"`
}

func degreeDTO(d models.Degree) DegreeDTO {
	return DegreeDTO{
		ID:         d.ID,
		UserID:     d.UserID,
		DegreeName: d.DegreeName,
		University: d.University,
		StartDate:  formatDate(d.StartDate),
		EndDate:    formatDate(d.EndDate),
		GPA:        d.GPA,
		Notes:      d.Notes,
		FileURL:    d.FileURL,
		FileName:   d.FileName,
		FileType:   d.FileType,
		CreatedAt:  formatDate(d.CreatedAt),
		UpdatedAt:  formatDate(d.UpdatedAt),
	}
}

const degreeColumns = `id, user_id, degree_name, university, start_date, end_date, gpa, notes, file_url, file_name, file_type, created_at, updated_at`

type degreeInput struct {
	DegreeName string   `json:"degreeName"`
	University string   `json:"university"`
	StartDate  string   `json:"startDate"`
	EndDate    string   `json:"endDate"`
	GPA        *float64 `json:"gpa"`
	Notes      *string  `json:"notes"`
}

// readDegreeForm fills the input from multipart fields and returns the stored
// upload, if any.
func (s *Server) readDegreeForm(r *http.Request, input *degreeInput) (fileURL, fileName, fileType *string, err error) {
	if err := r.ParseMultipartForm(s.Config.MaxUploadBytes); err != nil {
		return nil, nil, nil, services.ErrBadRequest("Invalid payload")
	}
	input.DegreeName = r.FormValue("degreeName")
	input.University = r.FormValue("university")
	input.StartDate = r.FormValue("startDate")
	input.EndDate = r.FormValue("endDate")
	input.Notes = formValuePtr(r, "notes")
	if raw := r.FormValue("gpa"); raw != "" {
		gpa, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, nil, nil, services.ErrBadRequest("GPA must be a number")
		}
		input.GPA = &gpa
	}
	stored, err := s.readFormFile(r)
	if err != nil {
		return nil, nil, nil, err
	}
	if stored != nil {
		return &stored.FileURL, &stored.FileName, &stored.FileType, nil
	}
	return nil, nil, nil, nil
}

func validateDegreeFields(input degreeInput) (name, university string, err error) {
	const requiredMsg = "Degree name, university, start date, and end date are required"
	name, err = services.NormalizeRequired(input.DegreeName, requiredMsg)
	if err == nil {
		err = services.CheckMaxLen(name, 100, "Degree name cannot be more than 100 characters")
	}
	if err != nil {
		return "", "", err
	}
	university, err = services.NormalizeRequired(input.University, requiredMsg)
	if err == nil {
		err = services.CheckMaxLen(university, 100, "University cannot be more than 100 characters")
	}
	if err != nil {
		return "", "", err
	}
	if input.StartDate == "" || input.EndDate == "" {
		return "", "", services.ErrBadRequest(requiredMsg)
	}
	if input.GPA != nil && (*input.GPA < 0 || *input.GPA > 4) {
		return "", "", services.ErrBadRequest("GPA must be between 0 and 4")
	}
	if input.Notes != nil {
		if err := services.CheckMaxLen(*input.Notes, 500, "Notes cannot be more than 500 characters"); err != nil {
			return "", "", err
		}
	}
	return name, university, nil
}

func (s *Server) ListDegrees(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	rows := []models.Degree{}
	err := s.DB.Select(&rows, `
SELECT `+degreeColumns+`
FROM degrees
WHERE user_id = $1
ORDER BY created_at DESC
`, userID)
	if err != nil {
		WriteFailure(w, err, "Failed to fetch degrees")
		return
	}
	items := make([]DegreeDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, degreeDTO(row))
	}
	WriteSuccess(w, http.StatusOK, items, "")
}

func (s *Server) GetDegree(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	id, err := resourceID(r)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Degree not found")
		return
	}
	degree, err := s.fetchDegree(userID, id)
	if err != nil {
		WriteFailure(w, err, "Failed to fetch degree")
		return
	}
	WriteSuccess(w, http.StatusOK, degreeDTO(*degree), "")
}

func (s *Server) CreateDegree(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	var input degreeInput
	var fileURL, fileName, fileType *string
	if isMultipart(r) {
		var err error
		fileURL, fileName, fileType, err = s.readDegreeForm(r, &input)
		if err != nil {
			WriteFailure(w, err, "Failed to create degree")
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	name, university, err := validateDegreeFields(input)
	if err != nil {
		WriteFailure(w, err, "Failed to create degree")
		return
	}
	startDate, err := parseDate(input.StartDate)
	if err != nil {
		WriteFailure(w, err, "Failed to create degree")
		return
	}
	endDate, err := parseDate(input.EndDate)
	if err != nil {
		WriteFailure(w, err, "Failed to create degree")
		return
	}

	now := time.Now().UTC()
	degree := models.Degree{
		ID:         uuid.NewString(),
		UserID:     userID,
		DegreeName: name,
		University: university,
		StartDate:  startDate,
		EndDate:    endDate,
		GPA:        input.GPA,
		Notes:      input.Notes,
		FileURL:    fileURL,
		FileName:   fileName,
		FileType:   fileType,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	_, err = s.DB.Exec(`
INSERT INTO degrees (`+degreeColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
`, degree.ID, degree.UserID, degree.DegreeName, degree.University, degree.StartDate, degree.EndDate,
		degree.GPA, degree.Notes, degree.FileURL, degree.FileName, degree.FileType, degree.CreatedAt, degree.UpdatedAt)
	if err != nil {
		WriteFailure(w, err, "Failed to create degree")
		return
	}
	WriteSuccess(w, http.StatusCreated, degreeDTO(degree), "Degree created successfully")
}

type degreePatch struct {
	DegreeName *string  `json:"degreeName"`
	University *string  `json:"university"`
	StartDate  *string  `json:"startDate"`
	EndDate    *string  `json:"endDate"`
	GPA        *float64 `json:"gpa"`
	Notes      *string  `json:"notes"`
}

// UpdateDegree merges only the supplied fields. A multipart request may carry
// a replacement file; the reference is swapped as a whole tuple, never
// partially.
func (s *Server) UpdateDegree(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	id, err := resourceID(r)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Degree not found")
		return
	}
	var patch degreePatch
	var fileURL, fileName, fileType *string
	if isMultipart(r) {
		if err := r.ParseMultipartForm(s.Config.MaxUploadBytes); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid payload")
			return
		}
		patch.DegreeName = formValuePtr(r, "degreeName")
		patch.University = formValuePtr(r, "university")
		patch.StartDate = formValuePtr(r, "startDate")
		patch.EndDate = formValuePtr(r, "endDate")
		patch.Notes = formValuePtr(r, "notes")
		if raw := r.FormValue("gpa"); raw != "" {
			gpa, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				WriteError(w, http.StatusBadRequest, "GPA must be a number")
				return
			}
			patch.GPA = &gpa
		}
		stored, err := s.readFormFile(r)
		if err != nil {
			WriteFailure(w, err, "Failed to update degree")
			return
		}
		if stored != nil {
			fileURL, fileName, fileType = &stored.FileURL, &stored.FileName, &stored.FileType
		}
	} else if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	degree, err := s.fetchDegree(userID, id)
	if err != nil {
		WriteFailure(w, err, "Failed to update degree")
		return
	}
	if patch.DegreeName != nil {
		name, err := services.NormalizeRequired(*patch.DegreeName, "Degree name cannot be empty")
		if err == nil {
			err = services.CheckMaxLen(name, 100, "Degree name cannot be more than 100 characters")
		}
		if err != nil {
			WriteFailure(w, err, "Failed to update degree")
			return
		}
		degree.DegreeName = name
	}
	if patch.University != nil {
		university, err := services.NormalizeRequired(*patch.University, "University cannot be empty")
		if err == nil {
			err = services.CheckMaxLen(university, 100, "University cannot be more than 100 characters")
		}
		if err != nil {
			WriteFailure(w, err, "Failed to update degree")
			return
		}
		degree.University = university
	}
	if patch.StartDate != nil {
		startDate, err := parseDate(*patch.StartDate)
		if err != nil {
			WriteFailure(w, err, "Failed to update degree")
			return
		}
		degree.StartDate = startDate
	}
	if patch.EndDate != nil {
		endDate, err := parseDate(*patch.EndDate)
		if err != nil {
			WriteFailure(w, err, "Failed to update degree")
			return
		}
		degree.EndDate = endDate
	}
	if patch.GPA != nil {
		if *patch.GPA < 0 || *patch.GPA > 4 {
			WriteError(w, http.StatusBadRequest, "GPA must be between 0 and 4")
			return
		}
		degree.GPA = patch.GPA
	}
	if patch.Notes != nil {
		if err := services.CheckMaxLen(*patch.Notes, 500, "Notes cannot be more than 500 characters"); err != nil {
			WriteFailure(w, err, "Failed to update degree")
			return
		}
		degree.Notes = patch.Notes
	}
	if fileURL != nil {
		degree.FileURL = fileURL
		degree.FileName = fileName
		degree.FileType = fileType
	}
	degree.UpdatedAt = time.Now().UTC()
	_, err = s.DB.Exec(`
UPDATE degrees
SET degree_name = $3, university = $4, start_date = $5, end_date = $6,
    gpa = $7, notes = $8, file_url = $9, file_name = $10, file_type = $11, updated_at = $12
WHERE id = $1 AND user_id = $2
`, degree.ID, userID, degree.DegreeName, degree.University, degree.StartDate, degree.EndDate,
		degree.GPA, degree.Notes, degree.FileURL, degree.FileName, degree.FileType, degree.UpdatedAt)
	if err != nil {
		WriteFailure(w, err, "Failed to update degree")
		return
	}
	WriteSuccess(w, http.StatusOK, degreeDTO(*degree), "Degree updated successfully")
}

func (s *Server) DeleteDegree(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	id, err := resourceID(r)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Degree not found")
		return
	}
	result, err := s.DB.Exec(`DELETE FROM degrees WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		WriteFailure(w, err, "Failed to delete degree")
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		WriteError(w, http.StatusNotFound, "Degree not found")
		return
	}
	WriteSuccess(w, http.StatusOK, nil, "Degree deleted successfully")
}

func (s *Server) fetchDegree(userID, id string) (*models.Degree, error) {
	var degree models.Degree
	err := s.DB.Get(&degree, `
SELECT `+degreeColumns+`
FROM degrees
WHERE id = $1 AND user_id = $2
`, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.ErrNotFound("Degree not found")
	}
	if err != nil {
		return nil, err
	}
	return &degree, nil
}
