package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmlhub/jml-api/internal/models"
)

func workflowRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "template_id", "employee_id", "name", "type", "status", "progress", "due_date", "completed_at", "created_at", "updated_at"}).
		AddRow("w1", nil, "e1", "Onboarding", "joiner", "in_progress", 50, nil, nil, now, now)
}

func TestListWorkflowsByStatusAndType(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewWorkflowRepository(db)

	now := time.Now()
	status := models.WorkflowStatusInProgress
	workflowType := models.WorkflowTypeJoiner
	mock.ExpectQuery(regexp.QuoteMeta("FROM workflows WHERE 1=1 AND status = $1 AND type = $2 ORDER BY created_at DESC")).
		WithArgs(string(status), string(workflowType)).
		WillReturnRows(workflowRows(now))

	workflows, err := repo.List(context.Background(), models.WorkflowFilter{Status: &status, Type: &workflowType})
	require.NoError(t, err)
	assert.Len(t, workflows, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListStepsOrdersByOrderIndex(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewWorkflowRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "workflow_id", "name", "description", "order_index", "assignee_id", "status", "started_at", "completed_at", "created_at", "updated_at"}).
		AddRow("s1", "w1", "A", "", 1, nil, "pending", nil, nil, now, now).
		AddRow("s2", "w1", "B", "", 2, nil, "pending", nil, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM workflow_steps WHERE workflow_id = $1 ORDER BY order_index ASC")).
		WithArgs("w1").
		WillReturnRows(rows)

	steps, err := repo.ListSteps(context.Background(), "w1")
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "A", steps[0].Name)
	assert.Equal(t, "B", steps[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStepRefreshesUpdatedAt(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewWorkflowRepository(db)

	mock.ExpectExec("UPDATE workflow_steps SET").WillReturnResult(sqlmock.NewResult(0, 1))

	step := &models.WorkflowStep{ID: "s1", WorkflowID: "w1", Name: "A", Status: models.StepStatusCompleted}
	before := step.UpdatedAt
	err := repo.UpdateStep(context.Background(), step)
	require.NoError(t, err)
	assert.True(t, step.UpdatedAt.After(before))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteWorkflowRemovesOnlyWorkflowRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewWorkflowRepository(db)

	mock.ExpectExec("DELETE FROM workflows WHERE id").WithArgs("w1").WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), "w1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
