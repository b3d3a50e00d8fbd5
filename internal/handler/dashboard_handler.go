package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jmlhub/jml-api/internal/service"
	"github.com/jmlhub/jml-api/pkg/response"
)

// DashboardHandler exposes the aggregate counter endpoints behind the UI
// landing page and the reports view.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs a dashboard handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Stats godoc
// @Summary Dashboard counters
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// WorkflowReport godoc
// @Summary Workflow volume report
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/workflows [get]
func (h *DashboardHandler) WorkflowReport(c *gin.Context) {
	report, err := h.service.WorkflowReport(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// ExportWorkflowReport godoc
// @Summary Download the workflow report as CSV or PDF
// @Tags Dashboard
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} byte
// @Router /reports/workflows/export [get]
func (h *DashboardHandler) ExportWorkflowReport(c *gin.Context) {
	payload, contentType, err := h.service.ExportWorkflowReport(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	extension := "csv"
	if contentType == "application/pdf" {
		extension = "pdf"
	}
	filename := fmt.Sprintf("workflow-report-%s.%s", time.Now().UTC().Format("20060102"), extension)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
