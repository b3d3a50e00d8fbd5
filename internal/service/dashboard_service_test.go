package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmlhub/jml-api/internal/dto"
	appErrors "github.com/jmlhub/jml-api/pkg/errors"
)

type mockStatsRepo struct {
	employeesByStatus []dto.StatusCount
	workflowsByStatus []dto.StatusCount
	workflowsByType   []dto.TypeCount
	pendingTasks      int
}

func (m *mockStatsRepo) EmployeeCountsByStatus(ctx context.Context) ([]dto.StatusCount, error) {
	return m.employeesByStatus, nil
}

func (m *mockStatsRepo) WorkflowCountsByStatus(ctx context.Context) ([]dto.StatusCount, error) {
	return m.workflowsByStatus, nil
}

func (m *mockStatsRepo) WorkflowCountsByType(ctx context.Context) ([]dto.TypeCount, error) {
	return m.workflowsByType, nil
}

func (m *mockStatsRepo) PendingTaskCount(ctx context.Context) (int, error) {
	return m.pendingTasks, nil
}

func newDashboardService(repo *mockStatsRepo, exportEnabled bool) *DashboardService {
	cache := NewCacheService(nil, nil, 0, nil, false)
	return NewDashboardService(repo, cache, exportEnabled, nil)
}

func TestDashboardStatsAggregation(t *testing.T) {
	repo := &mockStatsRepo{
		employeesByStatus: []dto.StatusCount{
			{Status: "active", Count: 10},
			{Status: "joining", Count: 3},
		},
		workflowsByStatus: []dto.StatusCount{
			{Status: "pending", Count: 2},
			{Status: "in_progress", Count: 4},
			{Status: "completed", Count: 7},
		},
		pendingTasks: 5,
	}
	svc := newDashboardService(repo, true)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 13, stats.TotalEmployees)
	assert.Equal(t, 6, stats.ActiveWorkflows)
	assert.Equal(t, 5, stats.PendingTasks)
}

func TestWorkflowReportTotalsAndPlaceholder(t *testing.T) {
	repo := &mockStatsRepo{
		workflowsByStatus: []dto.StatusCount{
			{Status: "pending", Count: 1},
			{Status: "completed", Count: 9},
		},
		workflowsByType: []dto.TypeCount{
			{Type: "joiner", Count: 6},
			{Type: "leaver", Count: 4},
		},
	}
	svc := newDashboardService(repo, true)

	report, err := svc.WorkflowReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, report.Total)
	assert.Equal(t, 9, report.Completed)
	assert.Equal(t, placeholderAvgCompletion, report.AvgCompletionDays)
}

func TestExportWorkflowReportCSV(t *testing.T) {
	repo := &mockStatsRepo{
		workflowsByStatus: []dto.StatusCount{{Status: "completed", Count: 2}},
	}
	svc := newDashboardService(repo, true)

	payload, contentType, err := svc.ExportWorkflowReport(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	body := string(payload)
	assert.True(t, strings.HasPrefix(body, "metric,value"))
	assert.Contains(t, body, "total_workflows,2")
	assert.Contains(t, body, "status_completed,2")
}

func TestExportWorkflowReportUnknownFormat(t *testing.T) {
	svc := newDashboardService(&mockStatsRepo{}, true)

	_, _, err := svc.ExportWorkflowReport(context.Background(), "xlsx")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestExportWorkflowReportDisabled(t *testing.T) {
	svc := newDashboardService(&mockStatsRepo{}, false)

	_, _, err := svc.ExportWorkflowReport(context.Background(), "csv")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
