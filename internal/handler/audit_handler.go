package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jmlhub/jml-api/internal/models"
	"github.com/jmlhub/jml-api/internal/service"
	"github.com/jmlhub/jml-api/pkg/response"
)

// AuditHandler exposes the activity history endpoint.
type AuditHandler struct {
	service *service.AuditService
}

// NewAuditHandler constructs an audit handler.
func NewAuditHandler(svc *service.AuditService) *AuditHandler {
	return &AuditHandler{service: svc}
}

// List godoc
// @Summary List recent audit log entries
// @Tags Audit
// @Produce json
// @Param resource query string false "Filter by resource type"
// @Param action query string false "Filter by action"
// @Param userId query string false "Filter by acting user"
// @Success 200 {object} response.Envelope
// @Router /audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	filter := models.AuditLogFilter{
		Resource: c.Query("resource"),
		Action:   c.Query("action"),
		UserID:   c.Query("userId"),
	}
	logs, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}
