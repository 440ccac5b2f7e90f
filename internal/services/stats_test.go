package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStatsDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	// The six queries run concurrently, so arrival order is not fixed.
	mock.MatchExpectationsInOrder(false)
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func TestFetchDashboardStats(t *testing.T) {
	db, mock := newStatsDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM certifications`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT count\(\*\) FROM degrees`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT count\(\*\) FROM todos WHERE user_id = \$1 AND status = 'done'`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery(`SELECT count\(\*\) FROM todos WHERE user_id = \$1$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))
	mock.ExpectQuery(`SELECT count\(\*\) FROM goals`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	now := time.Now().UTC()
	mock.ExpectQuery(`FROM todos\s+WHERE user_id = \$1 AND deadline >= \$2 AND deadline < \$3`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "task", "priority", "status", "deadline", "created_at", "updated_at"}).
			AddRow("11111111-1111-1111-1111-111111111111", "user-1", "Buy milk", "medium", "pending", now, now, now))

	stats, err := FetchDashboardStats(context.Background(), db, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.CertCount)
	assert.Equal(t, 2, stats.DegreeCount)
	assert.Equal(t, 4, stats.CompletedTodos)
	assert.Equal(t, 9, stats.TotalTodos)
	assert.Equal(t, 1, stats.UpcomingGoals)
	require.Len(t, stats.TodaysTodos, 1)
	assert.Equal(t, "Buy milk", stats.TodaysTodos[0].Task)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchDashboardStatsSingleFailureFailsAll(t *testing.T) {
	db, mock := newStatsDB(t)

	boom := errors.New("connection reset")
	mock.ExpectQuery(`SELECT count\(\*\) FROM certifications`).WillReturnError(boom)
	mock.ExpectQuery(`SELECT count\(\*\) FROM degrees`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT count\(\*\) FROM todos WHERE user_id = \$1 AND status = 'done'`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery(`SELECT count\(\*\) FROM todos WHERE user_id = \$1$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))
	mock.ExpectQuery(`SELECT count\(\*\) FROM goals`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`FROM todos\s+WHERE user_id = \$1 AND deadline >= \$2 AND deadline < \$3`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "task", "priority", "status", "deadline", "created_at", "updated_at"}))

	_, err := FetchDashboardStats(context.Background(), db, "user-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
