package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/fund-dynamics-api/internal/models"
	"github.com/noah-isme/fund-dynamics-api/pkg/response"
)

type referenceService interface {
	Reload(ctx context.Context) (*models.ReferenceSet, error)
	Status() models.ReferenceStatus
}

// ReferenceHandler exposes reference table status and reloads.
type ReferenceHandler struct {
	service referenceService
}

// NewReferenceHandler builds a new handler.
func NewReferenceHandler(service referenceService) *ReferenceHandler {
	return &ReferenceHandler{service: service}
}

// Status godoc
// @Summary Reference table status
// @Tags References
// @Produce json
// @Success 200 {object} response.Envelope{data=models.ReferenceStatus}
// @Router /references [get]
func (h *ReferenceHandler) Status(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Status(), nil)
}

// Reload godoc
// @Summary Re-read reference tables from disk
// @Tags References
// @Produce json
// @Success 200 {object} response.Envelope{data=models.ReferenceStatus}
// @Failure 422 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /references/reload [post]
func (h *ReferenceHandler) Reload(c *gin.Context) {
	if _, err := h.service.Reload(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.service.Status(), nil)
}
