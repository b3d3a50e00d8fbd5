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

// TemplateHandler exposes workflow template endpoints.
type TemplateHandler struct {
	service *service.TemplateService
}

// NewTemplateHandler constructs a template handler.
func NewTemplateHandler(svc *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{service: svc}
}

// List godoc
// @Summary List templates
// @Tags Templates
// @Produce json
// @Param type query string false "Filter by workflow type"
// @Param status query string false "Filter by publication status"
// @Success 200 {object} response.Envelope
// @Router /templates [get]
func (h *TemplateHandler) List(c *gin.Context) {
	var filter models.TemplateFilter
	if workflowType := c.Query("type"); workflowType != "" {
		value := models.WorkflowType(workflowType)
		filter.Type = &value
	}
	if status := c.Query("status"); status != "" {
		value := models.TemplateStatus(status)
		filter.Status = &value
	}

	templates, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, templates, nil)
}

// Get godoc
// @Summary Get template with steps
// @Tags Templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} response.Envelope
// @Router /templates/{id} [get]
func (h *TemplateHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Create godoc
// @Summary Create template with embedded steps
// @Tags Templates
// @Accept json
// @Produce json
// @Param payload body service.CreateTemplateRequest true "Template payload"
// @Success 201 {object} response.Envelope
// @Router /templates [post]
func (h *TemplateHandler) Create(c *gin.Context) {
	var req service.CreateTemplateRequest
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
// @Summary Update template, replacing steps when supplied
// @Tags Templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param payload body service.UpdateTemplateRequest true "Template payload"
// @Success 200 {object} response.Envelope
// @Router /templates/{id} [patch]
func (h *TemplateHandler) Update(c *gin.Context) {
	var req service.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	detail, err := h.service.Update(c.Request.Context(), middleware.RequestMeta(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// ListSteps godoc
// @Summary List template steps
// @Tags Templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} response.Envelope
// @Router /templates/{id}/steps [get]
func (h *TemplateHandler) ListSteps(c *gin.Context) {
	steps, err := h.service.ListSteps(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, steps, nil)
}

// AddStep godoc
// @Summary Add template step
// @Tags Templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param payload body service.TemplateStepPayload true "Step payload"
// @Success 201 {object} response.Envelope
// @Router /templates/{id}/steps [post]
func (h *TemplateHandler) AddStep(c *gin.Context) {
	var req service.TemplateStepPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	step, err := h.service.AddStep(c.Request.Context(), middleware.RequestMeta(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, step)
}

// Delete godoc
// @Summary Delete template
// @Tags Templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 204
// @Router /templates/{id} [delete]
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.RequestMeta(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
