package httpapi

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashboard-backend-go/internal/config"
	"dashboard-backend-go/internal/storage"
)

func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	dir := t.TempDir()
	return &Server{
		DB:      sqlx.NewDb(mockDB, "sqlmock"),
		Config:  config.Config{UploadDir: dir},
		Tokens:  testTokens(),
		Uploads: storage.NewServiceWithBackends(&storage.LocalBackend{Dir: dir}),
	}, mock
}

func doJSON(t *testing.T, s *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestRegisterSuccess(t *testing.T) {
	s, mock := newTestServer(t)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("ann@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO users`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := doJSON(t, s, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Name:     "Ann",
		Email:    "Ann@Example.com",
		Password: "secret123",
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	envelope := decodeEnvelope(t, rec)
	assert.True(t, envelope.Success)
	assert.Equal(t, "User registered successfully", envelope.Message)
	data := envelope.Data.(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "ann@example.com", user["email"])
	assert.Equal(t, "light", user["theme"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterEmailConflict(t *testing.T) {
	s, mock := newTestServer(t)
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	rec := doJSON(t, s, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Name:     "Ann",
		Email:    "ann@example.com",
		Password: "secret123",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.False(t, envelope.Success)
	assert.Equal(t, "Email already in use", envelope.Message)
}

func TestRegisterValidation(t *testing.T) {
	s, _ := newTestServer(t)
	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"missing fields", RegisterRequest{Email: "a@b.com"}},
		{"short password", RegisterRequest{Name: "Ann", Email: "a@b.com", Password: "12345"}},
		{"long name", RegisterRequest{Name: strings.Repeat("x", 51), Email: "a@b.com", Password: "secret123"}},
		{"bad email", RegisterRequest{Name: "Ann", Email: "not-an-email", Password: "secret123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/api/auth/register", "", tt.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	s, mock := newTestServer(t)
	mock.ExpectQuery(`FROM users`).WillReturnError(sql.ErrNoRows)

	rec := doJSON(t, s, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "Invalid credentials", envelope.Message)
}

func TestLoginWrongPassword(t *testing.T) {
	s, mock := newTestServer(t)
	hash, err := s.Tokens.HashPassword("the-real-password")
	require.NoError(t, err)
	mock.ExpectQuery(`FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "avatar_url", "theme"}).
			AddRow("user-1", "Ann", "ann@example.com", hash, nil, "light"))

	rec := doJSON(t, s, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email:    "ann@example.com",
		Password: "a-wrong-guess",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	envelope := decodeEnvelope(t, rec)
	// Must match the unknown-email message exactly.
	assert.Equal(t, "Invalid credentials", envelope.Message)
}

func TestLoginSuccess(t *testing.T) {
	s, mock := newTestServer(t)
	hash, err := s.Tokens.HashPassword("secret123")
	require.NoError(t, err)
	mock.ExpectQuery(`FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "avatar_url", "theme"}).
			AddRow("user-1", "Ann", "ann@example.com", hash, nil, "dark"))

	rec := doJSON(t, s, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email:    "Ann@Example.com",
		Password: "secret123",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "Login successful", envelope.Message)
	data := envelope.Data.(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "dark", user["theme"])
}

func TestCreateTodoDefaults(t *testing.T) {
	s, mock := newTestServer(t)
	token, _, err := s.Tokens.IssueToken("user-1")
	require.NoError(t, err)
	mock.ExpectExec(`INSERT INTO todos`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := doJSON(t, s, http.MethodPost, "/api/todos", token, map[string]string{"task": "Buy milk"})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	envelope := decodeEnvelope(t, rec)
	data := envelope.Data.(map[string]interface{})
	assert.Equal(t, "Buy milk", data["task"])
	assert.Equal(t, "medium", data["priority"])
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, "user-1", data["userId"])
}

func TestCreateTodoRejectsUnknownPriority(t *testing.T) {
	s, _ := newTestServer(t)
	token, _, err := s.Tokens.IssueToken("user-1")
	require.NoError(t, err)

	rec := doJSON(t, s, http.MethodPost, "/api/todos", token, map[string]string{
		"task":     "Buy milk",
		"priority": "urgent",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListTodosStatusFilter(t *testing.T) {
	s, mock := newTestServer(t)
	token, _, err := s.Tokens.IssueToken("user-1")
	require.NoError(t, err)
	now := time.Now().UTC()
	mock.ExpectQuery(`AND status = \$2`).
		WithArgs("user-1", "done").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "task", "priority", "status", "deadline", "created_at", "updated_at"}).
			AddRow("11111111-1111-1111-1111-111111111111", "user-1", "Ship it", "high", "done", nil, now, now))

	rec := doJSON(t, s, http.MethodGet, "/api/todos?status=done", token, nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	envelope := decodeEnvelope(t, rec)
	items := envelope.Data.([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "done", items[0].(map[string]interface{})["status"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTodoForeignOwnerIsNotFound(t *testing.T) {
	s, mock := newTestServer(t)
	token, _, err := s.Tokens.IssueToken("user-1")
	require.NoError(t, err)
	mock.ExpectQuery(`FROM todos`).
		WithArgs("22222222-2222-2222-2222-222222222222", "user-1").
		WillReturnError(sql.ErrNoRows)

	rec := doJSON(t, s, http.MethodGet, "/api/todos/22222222-2222-2222-2222-222222222222", token, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "Todo not found", envelope.Message)
}

func TestGetTodoInvalidIDIsNotFound(t *testing.T) {
	s, _ := newTestServer(t)
	token, _, err := s.Tokens.IssueToken("user-1")
	require.NoError(t, err)

	rec := doJSON(t, s, http.MethodGet, "/api/todos/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTodoMissingRow(t *testing.T) {
	s, mock := newTestServer(t)
	token, _, err := s.Tokens.IssueToken("user-1")
	require.NoError(t, err)
	mock.ExpectExec(`DELETE FROM todos`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := doJSON(t, s, http.MethodDelete, "/api/todos/22222222-2222-2222-2222-222222222222", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s, _ := newTestServer(t)
	for _, path := range []string{"/api/todos", "/api/certs", "/api/degrees", "/api/goals", "/api/auth/me"} {
		rec := doJSON(t, s, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestUploadCVThroughLocalBackend(t *testing.T) {
	s, _ := newTestServer(t)
	token, _, err := s.Tokens.IssueToken("user-1")
	require.NoError(t, err)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="cv.pdf"`)
	header.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 test"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads/cv", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "File uploaded successfully", envelope.Message)
	data := envelope.Data.(map[string]interface{})
	assert.Equal(t, "cv.pdf", data["fileName"])
	assert.Equal(t, "application/pdf", data["fileType"])
	assert.True(t, strings.HasPrefix(data["fileUrl"].(string), "/uploads/"))
}

func TestUploadCVWithoutFile(t *testing.T) {
	s, _ := newTestServer(t)
	token, _, err := s.Tokens.IssueToken("user-1")
	require.NoError(t, err)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("note", "no file here"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads/cv", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "No file provided", envelope.Message)
}

func TestGridContentInvalidID(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/uploads/grid/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
