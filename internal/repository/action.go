package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/UnknownOlympus/athena/internal/models"
)

// SaveAction stores an audit record of a dashboard mutation. Creates carry no
// employee id and are stored with a NULL employee_id.
func (r *Repository) SaveAction(ctx context.Context, action models.Action) error {
	startTime := time.Now()
	defer func() {
		duration := time.Since(startTime).Seconds()
		r.metrics.DBQueryDuration.WithLabelValues("save_action").Observe(duration)
	}()
	query := `
		INSERT INTO dashboard_actions (action, employee_id, outcome, created_at)
		VALUES ($1, $2, $3, $4);
	`

	var employeeID any
	if !action.EmployeeID.IsZero() {
		employeeID = action.EmployeeID.String()
	}

	_, err := r.db.Exec(ctx, query, action.Kind, employeeID, action.Outcome, action.At)
	if err != nil {
		return fmt.Errorf("failed to save action: %w", err)
	}

	return nil
}

// RecentActions returns the latest audit records, newest first.
func (r *Repository) RecentActions(ctx context.Context, limit int) ([]models.Action, error) {
	startTime := time.Now()
	defer func() {
		duration := time.Since(startTime).Seconds()
		r.metrics.DBQueryDuration.WithLabelValues("recent_actions").Observe(duration)
	}()
	query := `SELECT action, COALESCE(employee_id, ''), outcome, created_at FROM dashboard_actions ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent actions: %w", err)
	}
	defer rows.Close()

	actions := make([]models.Action, 0, limit)
	for rows.Next() {
		var (
			action     models.Action
			employeeID string
		)
		if err = rows.Scan(&action.Kind, &employeeID, &action.Outcome, &action.At); err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		action.EmployeeID = models.ID(employeeID)
		actions = append(actions, action)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate actions: %w", err)
	}

	return actions, nil
}
