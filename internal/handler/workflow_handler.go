package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jmlhub/jml-api/internal/middleware"
	"github.com/jmlhub/jml-api/internal/models"
	"github.com/jmlhub/jml-api/internal/service"
	appErrors "github.com/jmlhub/jml-api/pkg/errors"
	"github.com/jmlhub/jml-api/pkg/response"
)

// WorkflowHandler exposes workflow and workflow step endpoints.
type WorkflowHandler struct {
	service *service.WorkflowService
}

// NewWorkflowHandler constructs a workflow handler.
func NewWorkflowHandler(svc *service.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{service: svc}
}

// List godoc
// @Summary List workflows
// @Tags Workflows
// @Produce json
// @Param status query string false "Filter by status"
// @Param type query string false "Filter by workflow type"
// @Param employeeId query string false "Filter by employee"
// @Success 200 {object} response.Envelope
// @Router /workflows [get]
func (h *WorkflowHandler) List(c *gin.Context) {
	var filter models.WorkflowFilter
	if status := c.Query("status"); status != "" {
		value := models.WorkflowStatus(status)
		filter.Status = &value
	}
	if workflowType := c.Query("type"); workflowType != "" {
		value := models.WorkflowType(workflowType)
		filter.Type = &value
	}
	filter.EmployeeID = c.Query("employeeId")

	workflows, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, workflows, nil)
}

// Get godoc
// @Summary Get workflow with steps and employee
// @Tags Workflows
// @Produce json
// @Param id path string true "Workflow ID"
// @Success 200 {object} response.Envelope
// @Router /workflows/{id} [get]
func (h *WorkflowHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// ListSteps godoc
// @Summary List workflow steps
// @Tags Workflows
// @Produce json
// @Param id path string true "Workflow ID"
// @Success 200 {object} response.Envelope
// @Router /workflows/{id}/steps [get]
func (h *WorkflowHandler) ListSteps(c *gin.Context) {
	steps, err := h.service.ListSteps(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, steps, nil)
}

// Create godoc
// @Summary Create workflow, cloning steps from the referenced template
// @Tags Workflows
// @Accept json
// @Produce json
// @Param payload body service.CreateWorkflowRequest true "Workflow payload"
// @Success 201 {object} response.Envelope
// @Router /workflows [post]
func (h *WorkflowHandler) Create(c *gin.Context) {
	var req service.CreateWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	detail, err := h.service.Create(c.Request.Context(), middleware.RequestMeta(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, detail)
}

// Update godoc
// @Summary Update workflow
// @Tags Workflows
// @Accept json
// @Produce json
// @Param id path string true "Workflow ID"
// @Param payload body service.UpdateWorkflowRequest true "Workflow payload"
// @Success 200 {object} response.Envelope
// @Router /workflows/{id} [patch]
func (h *WorkflowHandler) Update(c *gin.Context) {
	var req service.UpdateWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	workflow, err := h.service.Update(c.Request.Context(), middleware.RequestMeta(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, workflow, nil)
}

// Delete godoc
// @Summary Delete workflow
// @Tags Workflows
// @Produce json
// @Param id path string true "Workflow ID"
// @Success 204
// @Router /workflows/{id} [delete]
func (h *WorkflowHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.RequestMeta(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UpdateStep godoc
// @Summary Update workflow step, recalculating workflow progress on completion
// @Tags Workflows
// @Accept json
// @Produce json
// @Param id path string true "Workflow step ID"
// @Param payload body service.UpdateWorkflowStepRequest true "Step payload"
// @Success 200 {object} response.Envelope
// @Router /workflow-steps/{id} [patch]
func (h *WorkflowHandler) UpdateStep(c *gin.Context) {
	var req service.UpdateWorkflowStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	step, err := h.service.UpdateStep(c.Request.Context(), middleware.RequestMeta(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, step, nil)
}
