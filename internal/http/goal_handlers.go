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

type GoalDTO struct {
	ID          string               `json:"id"`
	UserID      string               `json:"userId"`
	Title       string               `json:"title"`
	Description *string              `json:"description,omitempty"`
	TargetDate  string               `json:"targetDate"`
	Milestones  []services.Milestone `json:"milestones"`
	Progress    int                  `json:"progress"`
	CreatedAt   string               `json:"createdAt"`
	UpdatedAt   string               `json:"updatedAt"`
}

func goalDTO(g models.Goal) GoalDTO {
	return GoalDTO{
		ID:          g.ID,
		UserID:      g.UserID,
		Title:       g.Title,
		Description: g.Description,
		TargetDate:  formatDate(g.TargetDate),
		Milestones:  services.DecodeMilestones(g.Milestones),
		Progress:    g.Progress,
		CreatedAt:   formatDate(g.CreatedAt),
		UpdatedAt:   formatDate(g.UpdatedAt),
	}
}

const goalColumns = `id, user_id, title, description, target_date, milestones, progress, created_at, updated_at`

func (s *Server) ListGoals(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	rows := []models.Goal{}
	err := s.DB.Select(&rows, `
SELECT `+goalColumns+`
FROM goals
WHERE user_id = $1
ORDER BY created_at DESC
`, userID)
	if err != nil {
		WriteFailure(w, err, "Failed to fetch goals")
		return
	}
	items := make([]GoalDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, goalDTO(row))
	}
	WriteSuccess(w, http.StatusOK, items, "")
}

func (s *Server) GetGoal(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	id, err := resourceID(r)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Goal not found")
		return
	}
	goal, err := s.fetchGoal(userID, id)
	if err != nil {
		WriteFailure(w, err, "Failed to fetch goal")
		return
	}
	WriteSuccess(w, http.StatusOK, goalDTO(*goal), "")
}

type goalInput struct {
	Title       string               `json:"title"`
	Description *string              `json:"description"`
	TargetDate  string               `json:"targetDate"`
	Milestones  []services.Milestone `json:"milestones"`
}

func (s *Server) CreateGoal(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	var input goalInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	title, err := services.NormalizeRequired(input.Title, "Title and target date are required")
	if err == nil {
		err = services.CheckMaxLen(title, 100, "Title cannot be more than 100 characters")
	}
	if err != nil {
		WriteFailure(w, err, "Failed to create goal")
		return
	}
	if input.TargetDate == "" {
		WriteError(w, http.StatusBadRequest, "Title and target date are required")
		return
	}
	targetDate, err := parseDate(input.TargetDate)
	if err != nil {
		WriteFailure(w, err, "Failed to create goal")
		return
	}
	if input.Description != nil {
		if err := services.CheckMaxLen(*input.Description, 500, "Description cannot be more than 500 characters"); err != nil {
			WriteFailure(w, err, "Failed to create goal")
			return
		}
	}
	milestones, err := services.ValidateMilestones(input.Milestones)
	if err != nil {
		WriteFailure(w, err, "Failed to create goal")
		return
	}
	encoded, err := services.EncodeMilestones(milestones)
	if err != nil {
		WriteFailure(w, err, "Failed to create goal")
		return
	}

	now := time.Now().UTC()
	goal := models.Goal{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Description: input.Description,
		TargetDate:  targetDate,
		Milestones:  encoded,
		Progress:    services.ComputeProgress(milestones),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err = s.DB.Exec(`
INSERT INTO goals (`+goalColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`, goal.ID, goal.UserID, goal.Title, goal.Description, goal.TargetDate, goal.Milestones,
		goal.Progress, goal.CreatedAt, goal.UpdatedAt)
	if err != nil {
		WriteFailure(w, err, "Failed to create goal")
		return
	}
	WriteSuccess(w, http.StatusCreated, goalDTO(goal), "Goal created successfully")
}

type goalPatch struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	TargetDate  *string               `json:"targetDate"`
	Milestones  *[]services.Milestone `json:"milestones"`
}

// UpdateGoal merges the supplied fields; touching the milestone list
// recomputes progress before the row is written.
func (s *Server) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	id, err := resourceID(r)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Goal not found")
		return
	}
	var patch goalPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	goal, err := s.fetchGoal(userID, id)
	if err != nil {
		WriteFailure(w, err, "Failed to update goal")
		return
	}
	if patch.Title != nil {
		title, err := services.NormalizeRequired(*patch.Title, "Title cannot be empty")
		if err == nil {
			err = services.CheckMaxLen(title, 100, "Title cannot be more than 100 characters")
		}
		if err != nil {
			WriteFailure(w, err, "Failed to update goal")
			return
		}
		goal.Title = title
	}
	if patch.Description != nil {
		if err := services.CheckMaxLen(*patch.Description, 500, "Description cannot be more than 500 characters"); err != nil {
			WriteFailure(w, err, "Failed to update goal")
			return
		}
		goal.Description = patch.Description
	}
	if patch.TargetDate != nil {
		targetDate, err := parseDate(*patch.TargetDate)
		if err != nil {
			WriteFailure(w, err, "Failed to update goal")
			return
		}
		goal.TargetDate = targetDate
	}
	if patch.Milestones != nil {
		milestones, err := services.ValidateMilestones(*patch.Milestones)
		if err != nil {
			WriteFailure(w, err, "Failed to update goal")
			return
		}
		encoded, err := services.EncodeMilestones(milestones)
		if err != nil {
			WriteFailure(w, err, "Failed to update goal")
			return
		}
		goal.Milestones = encoded
		goal.Progress = services.ComputeProgress(milestones)
	}
	goal.UpdatedAt = time.Now().UTC()
	_, err = s.DB.Exec(`
UPDATE goals
SET title = $3, description = $4, target_date = $5, milestones = $6, progress = $7, updated_at = $8
WHERE id = $1 AND user_id = $2
`, goal.ID, userID, goal.Title, goal.Description, goal.TargetDate, goal.Milestones, goal.Progress, goal.UpdatedAt)
	if err != nil {
		WriteFailure(w, err, "Failed to update goal")
		return
	}
	WriteSuccess(w, http.StatusOK, goalDTO(*goal), "Goal updated successfully")
}

func (s *Server) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	id, err := resourceID(r)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Goal not found")
		return
	}
	result, err := s.DB.Exec(`DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		WriteFailure(w, err, "Failed to delete goal")
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		WriteError(w, http.StatusNotFound, "Goal not found")
		return
	}
	WriteSuccess(w, http.StatusOK, nil, "Goal deleted successfully")
}

func (s *Server) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	stats, err := services.FetchDashboardStats(r.Context(), s.DB, userID)
	if err != nil {
		WriteFailure(w, err, "Failed to fetch dashboard stats")
		return
	}
	WriteSuccess(w, http.StatusOK, stats, "")
}

func (s *Server) fetchGoal(userID, id string) (*models.Goal, error) {
	var goal models.Goal
	err := s.DB.Get(&goal, `
SELECT `+goalColumns+`
FROM goals
WHERE id = $1 AND user_id = $2
`, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.ErrNotFound("Goal not found")
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}
