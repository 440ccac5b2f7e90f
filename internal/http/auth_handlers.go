package httpapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"dashboard-backend-go/internal/services"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfilePatch struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
	Theme  *string `json:"theme"`
}

// UserDTO is the public-safe projection; the password hash never leaves the
// database layer.
type UserDTO struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Avatar *string `json:"avatar,omitempty"`
	Theme  string  `json:"theme"`
}

type AuthResponse struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "Name, email, and password are required")
		return
	}
	if len(name) > 50 {
		WriteError(w, http.StatusBadRequest, "Name cannot be more than 50 characters")
		return
	}
	if len(req.Password) < 6 {
		WriteError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}
	email, err := services.NormalizeEmail(req.Email)
	if err != nil {
		WriteFailure(w, err, "Registration failed")
		return
	}
	var exists bool
	if err := s.DB.Get(&exists, `SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = $1)`, email); err != nil {
		WriteFailure(w, err, "Registration failed")
		return
	}
	if exists {
		WriteError(w, http.StatusConflict, "Email already in use")
		return
	}
	hash, err := s.Tokens.HashPassword(req.Password)
	if err != nil {
		WriteFailure(w, err, "Registration failed")
		return
	}
	userID := uuid.NewString()
	now := time.Now().UTC()
	_, err = s.DB.Exec(`
INSERT INTO users (id, name, email, password_hash, theme, created_at, updated_at)
VALUES ($1, $2, $3, $4, 'light', $5, $5)
`, userID, name, email, hash, now)
	if err != nil {
		WriteFailure(w, err, "Registration failed")
		return
	}
	token, _, err := s.Tokens.IssueToken(userID)
	if err != nil {
		WriteFailure(w, err, "Registration failed")
		return
	}
	WriteSuccess(w, http.StatusCreated, AuthResponse{
		User:  UserDTO{ID: userID, Name: name, Email: email, Theme: "light"},
		Token: token,
	}, "User registered successfully")
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	row := struct {
		ID           string  `db:"id"`
		Name         string  `db:"name"`
		Email        string  `db:"email"`
		PasswordHash string  `db:"password_hash"`
		AvatarURL    *string `db:"avatar_url"`
		Theme        string  `db:"theme"`
	}{}
	err := s.DB.Get(&row, `
SELECT id, name, email, password_hash, avatar_url, theme
FROM users
WHERE lower(email) = $1
`, email)
	if errors.Is(err, sql.ErrNoRows) {
		// Deliberately indistinguishable from a bad password.
		WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		WriteFailure(w, err, "Login failed")
		return
	}
	if !s.Tokens.VerifyPassword(req.Password, row.PasswordHash) {
		WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	token, _, err := s.Tokens.IssueToken(row.ID)
	if err != nil {
		WriteFailure(w, err, "Login failed")
		return
	}
	WriteSuccess(w, http.StatusOK, AuthResponse{
		User: UserDTO{
			ID:     row.ID,
			Name:   row.Name,
			Email:  row.Email,
			Avatar: row.AvatarURL,
			Theme:  row.Theme,
		},
		Token: token,
	}, "Login successful")
}

func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	dto, err := s.fetchUserDTO(userID)
	if err != nil {
		WriteFailure(w, err, "Failed to get user")
		return
	}
	WriteSuccess(w, http.StatusOK, dto, "")
}

// UpdateProfile patches name, avatar, and theme only. Email and password are
// not changeable through this path.
func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	var patch ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			WriteError(w, http.StatusBadRequest, "Name cannot be empty")
			return
		}
		if len(trimmed) > 50 {
			WriteError(w, http.StatusBadRequest, "Name cannot be more than 50 characters")
			return
		}
		patch.Name = &trimmed
	}
	if patch.Theme != nil && *patch.Theme != "light" && *patch.Theme != "dark" {
		WriteError(w, http.StatusBadRequest, "Theme must be light or dark")
		return
	}
	_, err := s.DB.Exec(`
UPDATE users
SET name = COALESCE($2, name),
    avatar_url = COALESCE($3, avatar_url),
    theme = COALESCE($4, theme),
    updated_at = $5
WHERE id = $1
`, userID, patch.Name, patch.Avatar, patch.Theme, time.Now().UTC())
	if err != nil {
		WriteFailure(w, err, "Failed to update profile")
		return
	}
	dto, err := s.fetchUserDTO(userID)
	if err != nil {
		WriteFailure(w, err, "Failed to update profile")
		return
	}
	WriteSuccess(w, http.StatusOK, dto, "Profile updated successfully")
}

func (s *Server) fetchUserDTO(userID string) (*UserDTO, error) {
	row := struct {
		ID        string  `db:"id"`
		Name      string  `db:"name"`
		Email     string  `db:"email"`
		AvatarURL *string `db:"avatar_url"`
		Theme     string  `db:"theme"`
	}{}
	err := s.DB.Get(&row, `SELECT id, name, email, avatar_url, theme FROM users WHERE id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.ErrNotFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	return &UserDTO{
		ID:     row.ID,
		Name:   row.Name,
		Email:  row.Email,
		Avatar: row.AvatarURL,
		Theme:  row.Theme,
	}, nil
}
