package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/jmlhub/jml-api/internal/dto"
	"github.com/jmlhub/jml-api/internal/models"
	appErrors "github.com/jmlhub/jml-api/pkg/errors"
	"github.com/jmlhub/jml-api/pkg/export"
)

const (
	dashboardStatsCacheKey = "dashboard:stats"
	workflowReportCacheKey = "reports:workflows"
	dashboardCachePrefix   = "dashboard:*"
	reportCachePrefix      = "reports:*"

	// TODO: derive from avg(completed_at - created_at) over completed workflows.
	placeholderAvgCompletion = 4.5
)

type statsRepository interface {
	EmployeeCountsByStatus(ctx context.Context) ([]dto.StatusCount, error)
	WorkflowCountsByStatus(ctx context.Context) ([]dto.StatusCount, error)
	WorkflowCountsByType(ctx context.Context) ([]dto.TypeCount, error)
	PendingTaskCount(ctx context.Context) (int, error)
}

// DashboardService computes the aggregate counters behind the dashboard and
// reports views, with optional read-through caching.
type DashboardService struct {
	repo          statsRepository
	cache         *CacheService
	csvExporter   *export.CSVExporter
	pdfExporter   *export.PDFExporter
	exportEnabled bool
	logger        *zap.Logger
}

// NewDashboardService constructs DashboardService.
func NewDashboardService(repo statsRepository, cache *CacheService, exportEnabled bool, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		repo:          repo,
		cache:         cache,
		csvExporter:   export.NewCSVExporter(),
		pdfExporter:   export.NewPDFExporter(),
		exportEnabled: exportEnabled,
		logger:        logger,
	}
}

// Stats returns the dashboard counters.
func (s *DashboardService) Stats(ctx context.Context) (*dto.DashboardStats, error) {
	var cached dto.DashboardStats
	if hit, _ := s.cache.Get(ctx, dashboardStatsCacheKey, &cached); hit {
		return &cached, nil
	}

	employeesByStatus, err := s.repo.EmployeeCountsByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count employees")
	}
	workflowsByStatus, err := s.repo.WorkflowCountsByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count workflows")
	}
	pendingTasks, err := s.repo.PendingTaskCount(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pending tasks")
	}

	stats := &dto.DashboardStats{
		PendingTasks:      pendingTasks,
		EmployeesByStatus: employeesByStatus,
		WorkflowsByStatus: workflowsByStatus,
	}
	for _, count := range employeesByStatus {
		stats.TotalEmployees += count.Count
	}
	for _, count := range workflowsByStatus {
		if count.Status == string(models.WorkflowStatusPending) || count.Status == string(models.WorkflowStatusInProgress) {
			stats.ActiveWorkflows += count.Count
		}
	}

	if err := s.cache.Set(ctx, dashboardStatsCacheKey, stats, 0); err != nil {
		s.logger.Warn("failed to cache dashboard stats", zap.Error(err))
	}
	return stats, nil
}

// WorkflowReport returns workflow volume aggregates. The average completion
// figure is a fixed placeholder, not a computed value.
func (s *DashboardService) WorkflowReport(ctx context.Context) (*dto.WorkflowReport, error) {
	var cached dto.WorkflowReport
	if hit, _ := s.cache.Get(ctx, workflowReportCacheKey, &cached); hit {
		return &cached, nil
	}

	byStatus, err := s.repo.WorkflowCountsByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count workflows")
	}
	byType, err := s.repo.WorkflowCountsByType(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count workflows by type")
	}

	report := &dto.WorkflowReport{
		ByStatus:          byStatus,
		ByType:            byType,
		AvgCompletionDays: placeholderAvgCompletion,
	}
	for _, count := range byStatus {
		report.Total += count.Count
		if count.Status == string(models.WorkflowStatusCompleted) {
			report.Completed = count.Count
		}
	}

	if err := s.cache.Set(ctx, workflowReportCacheKey, report, 0); err != nil {
		s.logger.Warn("failed to cache workflow report", zap.Error(err))
	}
	return report, nil
}

// ExportWorkflowReport renders the workflow report as a CSV or PDF download.
func (s *DashboardService) ExportWorkflowReport(ctx context.Context, format string) ([]byte, string, error) {
	if !s.exportEnabled {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "report export is disabled")
	}

	report, err := s.WorkflowReport(ctx)
	if err != nil {
		return nil, "", err
	}

	data := export.Dataset{
		Headers: []string{"metric", "value"},
		Rows: []map[string]string{
			{"metric": "total_workflows", "value": strconv.Itoa(report.Total)},
			{"metric": "completed_workflows", "value": strconv.Itoa(report.Completed)},
			{"metric": "avg_completion_days", "value": fmt.Sprintf("%.1f", report.AvgCompletionDays)},
		},
	}
	for _, count := range report.ByStatus {
		data.Rows = append(data.Rows, map[string]string{
			"metric": "status_" + count.Status,
			"value":  strconv.Itoa(count.Count),
		})
	}
	for _, count := range report.ByType {
		data.Rows = append(data.Rows, map[string]string{
			"metric": "type_" + count.Type,
			"value":  strconv.Itoa(count.Count),
		})
	}

	switch format {
	case "csv", "":
		payload, err := s.csvExporter.Render(data)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return payload, "text/csv", nil
	case "pdf":
		payload, err := s.pdfExporter.Render(data, "Workflow Report "+time.Now().UTC().Format("2006-01-02"))
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

// statsInvalidator is what mutating services hold to expire dashboard
// aggregates after a write. Satisfied by DashboardService.
type statsInvalidator interface {
	InvalidateCaches(ctx context.Context)
}

// InvalidateCaches drops cached dashboard and report payloads. Mutating
// services call this after writes so stale counters expire early.
func (s *DashboardService) InvalidateCaches(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, dashboardCachePrefix); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
	if err := s.cache.Invalidate(ctx, reportCachePrefix); err != nil {
		s.logger.Warn("failed to invalidate report cache", zap.Error(err))
	}
}
