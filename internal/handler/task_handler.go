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

// TaskHandler exposes task CRUD and pending-queue endpoints.
type TaskHandler struct {
	service *service.TaskService
}

// NewTaskHandler constructs a task handler.
func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{service: svc}
}

// List godoc
// @Summary List tasks
// @Tags Tasks
// @Produce json
// @Param status query string false "Filter by status"
// @Param assigneeId query string false "Filter by assignee"
// @Param workflowStepId query string false "Filter by workflow step"
// @Success 200 {object} response.Envelope
// @Router /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	var filter models.TaskFilter
	if status := c.Query("status"); status != "" {
		value := models.TaskStatus(status)
		filter.Status = &value
	}
	filter.AssigneeID = c.Query("assigneeId")
	filter.WorkflowStepID = c.Query("workflowStepId")

	tasks, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tasks, nil)
}

// ListPending godoc
// @Summary List pending and in-progress tasks, most urgent first
// @Tags Tasks
// @Produce json
// @Param userId query string false "Scope to one assignee"
// @Success 200 {object} response.Envelope
// @Router /tasks/pending [get]
func (h *TaskHandler) ListPending(c *gin.Context) {
	tasks, err := h.service.ListPending(c.Request.Context(), c.Query("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tasks, nil)
}

// Get godoc
// @Summary Get task
// @Tags Tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} response.Envelope
// @Router /tasks/{id} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, task, nil)
}

// Create godoc
// @Summary Create task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param payload body service.CreateTaskRequest true "Task payload"
// @Success 201 {object} response.Envelope
// @Router /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req service.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	task, err := h.service.Create(c.Request.Context(), middleware.RequestMeta(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, task)
}

// Update godoc
// @Summary Update task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param payload body service.UpdateTaskRequest true "Task payload"
// @Success 200 {object} response.Envelope
// @Router /tasks/{id} [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	var req service.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	task, err := h.service.Update(c.Request.Context(), middleware.RequestMeta(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, task, nil)
}

// Delete godoc
// @Summary Delete task
// @Tags Tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 204
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.RequestMeta(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
