package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/fund-dynamics-api/internal/dto"
	"github.com/noah-isme/fund-dynamics-api/internal/models"
	appErrors "github.com/noah-isme/fund-dynamics-api/pkg/errors"
	"github.com/noah-isme/fund-dynamics-api/pkg/response"
)

type usageService interface {
	Recent(ctx context.Context, query dto.UsageQuery) ([]models.UsageEntry, error)
}

// UsageHandler exposes the usage log.
type UsageHandler struct {
	service usageService
}

// NewUsageHandler builds a new handler.
func NewUsageHandler(service usageService) *UsageHandler {
	return &UsageHandler{service: service}
}

// List godoc
// @Summary Latest usage log entries
// @Tags Usage
// @Produce json
// @Param limit query int false "Number of entries (1-1000)"
// @Success 200 {object} response.Envelope{data=[]models.UsageEntry}
// @Failure 400 {object} response.Envelope
// @Router /usage [get]
func (h *UsageHandler) List(c *gin.Context) {
	var query dto.UsageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be an integer"))
		return
	}
	entries, err := h.service.Recent(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, map[string]interface{}{"count": len(entries)})
}
