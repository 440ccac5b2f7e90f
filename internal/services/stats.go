package services

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"dashboard-backend-go/internal/models"
)

// DashboardStats is the aggregate the dashboard renders in one call.
type DashboardStats struct {
	CertCount      int           `json:"certCount"`
	DegreeCount    int           `json:"degreeCount"`
	CompletedTodos int           `json:"completedTodos"`
	TotalTodos     int           `json:"totalTodos"`
	UpcomingGoals  int           `json:"upcomingGoals"`
	TodaysTodos    []models.Todo `json:"todaysTodos"`
}

// FetchDashboardStats runs the six owner-scoped queries concurrently and
// fails the whole aggregate if any one of them fails.
func FetchDashboardStats(ctx context.Context, db *sqlx.DB, userID string) (*DashboardStats, error) {
	stats := &DashboardStats{TodaysTodos: []models.Todo{}}
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return db.GetContext(ctx, &stats.CertCount,
			`SELECT count(*) FROM certifications WHERE user_id = $1`, userID)
	})
	g.Go(func() error {
		return db.GetContext(ctx, &stats.DegreeCount,
			`SELECT count(*) FROM degrees WHERE user_id = $1`, userID)
	})
	g.Go(func() error {
		return db.GetContext(ctx, &stats.CompletedTodos,
			`SELECT count(*) FROM todos WHERE user_id = $1 AND status = 'done'`, userID)
	})
	g.Go(func() error {
		return db.GetContext(ctx, &stats.TotalTodos,
			`SELECT count(*) FROM todos WHERE user_id = $1`, userID)
	})
	g.Go(func() error {
		return db.GetContext(ctx, &stats.UpcomingGoals,
			`SELECT count(*) FROM goals WHERE user_id = $1 AND target_date >= $2`, userID, now.UTC())
	})
	g.Go(func() error {
		return db.SelectContext(ctx, &stats.TodaysTodos, `
SELECT id, user_id, task, priority, status, deadline, created_at, updated_at
FROM todos
WHERE user_id = $1 AND deadline >= $2 AND deadline < $3
ORDER BY deadline ASC
`, userID, dayStart, dayEnd)
	})
	if err := g.Wait(); err != nil {
		return nil, WrapError(err, "dashboard stats")
	}
	return stats, nil
}
