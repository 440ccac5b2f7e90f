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

type TodoDTO struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	Task      string  `json:"task"`
	Priority  string  `json:"priority"`
	Status    string  `json:"status"`
	Deadline  *string `json:"deadline,omitempty"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

func todoDTO(t models.Todo) TodoDTO {
	return TodoDTO{
		ID:        t.ID,
		UserID:    t.UserID,
		Task:      t.Task,
		Priority:  t.Priority,
		Status:    t.Status,
		Deadline:  formatDatePtr(t.Deadline),
		CreatedAt: formatDate(t.CreatedAt),
		UpdatedAt: formatDate(t.UpdatedAt),
	}
}

const todoColumns = `id, user_id, task, priority, status, deadline, created_at, updated_at`

// ListTodos accepts optional status and priority query filters; anything
// outside the known values is ignored rather than rejected.
func (s *Server) ListTodos(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	query := `
SELECT ` + todoColumns + `
FROM todos
WHERE user_id = $1
`
	args := []interface{}{userID}
	if status := r.URL.Query().Get("status"); status == "pending" || status == "in-progress" || status == "done" {
		args = append(args, status)
		query += "AND status = $2\n"
	}
	if priority := r.URL.Query().Get("priority"); priority == "low" || priority == "medium" || priority == "high" {
		args = append(args, priority)
		if len(args) == 3 {
			query += "AND priority = $3\n"
		} else {
			query += "AND priority = $2\n"
		}
	}
	query += "ORDER BY created_at DESC"

	rows := []models.Todo{}
	if err := s.DB.Select(&rows, query, args...); err != nil {
		WriteFailure(w, err, "Failed to fetch todos")
		return
	}
	items := make([]TodoDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, todoDTO(row))
	}
	WriteSuccess(w, http.StatusOK, items, "")
}

func (s *Server) GetTodo(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	id, err := resourceID(r)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Todo not found")
		return
	}
	todo, err := s.fetchTodo(userID, id)
	if err != nil {
		WriteFailure(w, err, "Failed to fetch todo")
		return
	}
	WriteSuccess(w, http.StatusOK, todoDTO(*todo), "")
}

type todoInput struct {
	Task     string  `json:"task"`
	Priority string  `json:"priority"`
	Status   string  `json:"status"`
	Deadline *string `json:"deadline"`
}

func (s *Server) CreateTodo(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	var input todoInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	task, err := services.NormalizeRequired(input.Task, "Task is required")
	if err == nil {
		err = services.CheckMaxLen(task, 200, "Task cannot be more than 200 characters")
	}
	if err != nil {
		WriteFailure(w, err, "Failed to create todo")
		return
	}
	priority, err := services.OneOf(input.Priority, "medium", "low", "medium", "high")
	if err != nil {
		WriteFailure(w, err, "Failed to create todo")
		return
	}
	status, err := services.OneOf(input.Status, "pending", "pending", "in-progress", "done")
	if err != nil {
		WriteFailure(w, err, "Failed to create todo")
		return
	}
	deadline, err := parseDatePtr(input.Deadline)
	if err != nil {
		WriteFailure(w, err, "Failed to create todo")
		return
	}

	now := time.Now().UTC()
	todo := models.Todo{
		ID:        uuid.NewString(),
		UserID:    userID,
		Task:      task,
		Priority:  priority,
		Status:    status,
		Deadline:  deadline,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = s.DB.Exec(`
INSERT INTO todos (`+todoColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`, todo.ID, todo.UserID, todo.Task, todo.Priority, todo.Status, todo.Deadline, todo.CreatedAt, todo.UpdatedAt)
	if err != nil {
		WriteFailure(w, err, "Failed to create todo")
		return
	}
	WriteSuccess(w, http.StatusCreated, todoDTO(todo), "Todo created successfully")
}

type todoPatch struct {
	Task     *string `json:"task"`
	Priority *string `json:"priority"`
	Status   *string `json:"status"`
	Deadline *string `json:"deadline"`
}

func (s *Server) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	id, err := resourceID(r)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Todo not found")
		return
	}
	var patch todoPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	todo, err := s.fetchTodo(userID, id)
	if err != nil {
		WriteFailure(w, err, "Failed to update todo")
		return
	}
	if patch.Task != nil {
		task, err := services.NormalizeRequired(*patch.Task, "Task cannot be empty")
		if err == nil {
			err = services.CheckMaxLen(task, 200, "Task cannot be more than 200 characters")
		}
		if err != nil {
			WriteFailure(w, err, "Failed to update todo")
			return
		}
		todo.Task = task
	}
	if patch.Priority != nil {
		priority, err := services.OneOf(*patch.Priority, todo.Priority, "low", "medium", "high")
		if err != nil {
			WriteFailure(w, err, "Failed to update todo")
			return
		}
		todo.Priority = priority
	}
	if patch.Status != nil {
		status, err := services.OneOf(*patch.Status, todo.Status, "pending", "in-progress", "done")
		if err != nil {
			WriteFailure(w, err, "Failed to update todo")
			return
		}
		todo.Status = status
	}
	if patch.Deadline != nil {
		deadline, err := parseDatePtr(patch.Deadline)
		if err != nil {
			WriteFailure(w, err, "Failed to update todo")
			return
		}
		todo.Deadline = deadline
	}
	todo.UpdatedAt = time.Now().UTC()
	_, err = s.DB.Exec(`
UPDATE todos
SET task = $3, priority = $4, status = $5, deadline = $6, updated_at = $7
WHERE id = $1 AND user_id = $2
`, todo.ID, userID, todo.Task, todo.Priority, todo.Status, todo.Deadline, todo.UpdatedAt)
	if err != nil {
		WriteFailure(w, err, "Failed to update todo")
		return
	}
	WriteSuccess(w, http.StatusOK, todoDTO(*todo), "Todo updated successfully")
}

func (s *Server) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	id, err := resourceID(r)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Todo not found")
		return
	}
	result, err := s.DB.Exec(`DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		WriteFailure(w, err, "Failed to delete todo")
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		WriteError(w, http.StatusNotFound, "Todo not found")
		return
	}
	WriteSuccess(w, http.StatusOK, nil, "Todo deleted successfully")
}

func (s *Server) fetchTodo(userID, id string) (*models.Todo, error) {
	var todo models.Todo
	err := s.DB.Get(&todo, `
SELECT `+todoColumns+`
FROM todos
WHERE id = $1 AND user_id = $2
`, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.ErrNotFound("Todo not found")
	}
	if err != nil {
		return nil, err
	}
	return &todo, nil
}
