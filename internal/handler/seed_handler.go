package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jmlhub/jml-api/internal/middleware"
	"github.com/jmlhub/jml-api/internal/service"
	"github.com/jmlhub/jml-api/pkg/response"
)

// SeedHandler exposes the demonstration-data endpoint.
type SeedHandler struct {
	service *service.SeedService
}

// NewSeedHandler constructs a seed handler.
func NewSeedHandler(svc *service.SeedService) *SeedHandler {
	return &SeedHandler{service: svc}
}

// Run godoc
// @Summary Insert the demonstration dataset
// @Description Repeated calls insert the rows again with new identifiers.
// @Tags Seed
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /seed [post]
func (h *SeedHandler) Run(c *gin.Context) {
	summary, err := h.service.Run(c.Request.Context(), middleware.RequestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, summary)
}
