package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jmlhub/jml-api/internal/dto"
	"github.com/jmlhub/jml-api/internal/models"
)

// StatsRepository runs the aggregate counting queries behind the dashboard
// and report endpoints.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository constructs a StatsRepository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// EmployeeCountsByStatus groups employees by lifecycle status.
func (r *StatsRepository) EmployeeCountsByStatus(ctx context.Context) ([]dto.StatusCount, error) {
	const query = `SELECT status, COUNT(*) AS count FROM employees GROUP BY status ORDER BY status`
	var counts []dto.StatusCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("employee counts by status: %w", err)
	}
	return counts, nil
}

// WorkflowCountsByStatus groups workflows by status.
func (r *StatsRepository) WorkflowCountsByStatus(ctx context.Context) ([]dto.StatusCount, error) {
	const query = `SELECT status, COUNT(*) AS count FROM workflows GROUP BY status ORDER BY status`
	var counts []dto.StatusCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("workflow counts by status: %w", err)
	}
	return counts, nil
}

// WorkflowCountsByType groups workflows by JML type.
func (r *StatsRepository) WorkflowCountsByType(ctx context.Context) ([]dto.TypeCount, error) {
	const query = `SELECT type, COUNT(*) AS count FROM workflows GROUP BY type ORDER BY type`
	var counts []dto.TypeCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("workflow counts by type: %w", err)
	}
	return counts, nil
}

// PendingTaskCount counts tasks still waiting on somebody.
func (r *StatsRepository) PendingTaskCount(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM tasks WHERE status IN ($1, $2)`
	var count int
	if err := r.db.GetContext(ctx, &count, query, models.TaskStatusPending, models.TaskStatusInProgress); err != nil {
		return 0, fmt.Errorf("pending task count: %w", err)
	}
	return count, nil
}
