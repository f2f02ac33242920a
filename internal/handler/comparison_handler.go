package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/fund-dynamics-api/internal/dto"
	"github.com/noah-isme/fund-dynamics-api/internal/models"
	"github.com/noah-isme/fund-dynamics-api/internal/service"
	appErrors "github.com/noah-isme/fund-dynamics-api/pkg/errors"
	"github.com/noah-isme/fund-dynamics-api/pkg/response"
)

// Multipart field names of the two snapshots.
const (
	FieldInitial  = "initial"
	FieldTerminal = "terminal"
)

type comparisonService interface {
	Compare(ctx context.Context, initial, terminal service.Upload) (*models.ComparisonResult, error)
}

// ComparisonHandler accepts snapshot uploads.
type ComparisonHandler struct {
	service comparisonService
}

// NewComparisonHandler builds a new handler.
func NewComparisonHandler(service comparisonService) *ComparisonHandler {
	return &ComparisonHandler{service: service}
}

// Create godoc
// @Summary Compare two inventory snapshots
// @Description Upload the earlier and the later well inventory workbook (sheet "Отчет"). Returns wells that entered, exited or changed operating mode, enriched with reference data, plus download links.
// @Tags Comparisons
// @Accept multipart/form-data
// @Produce json
// @Param initial formData file true "Earlier snapshot (xlsx)"
// @Param terminal formData file true "Later snapshot (xlsx)"
// @Success 201 {object} response.Envelope{data=dto.ComparisonResponse}
// @Failure 400 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /comparisons [post]
func (h *ComparisonHandler) Create(c *gin.Context) {
	initial, err := readUpload(c, FieldInitial)
	if err != nil {
		response.Error(c, err)
		return
	}
	terminal, err := readUpload(c, FieldTerminal)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.Compare(c.Request.Context(), initial, terminal)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, dto.NewComparisonResponse(result), nil)
}

func readUpload(c *gin.Context, field string) (service.Upload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return service.Upload{}, uploadError(field, err)
	}
	file, err := header.Open()
	if err != nil {
		return service.Upload{}, uploadError(field, err)
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		return service.Upload{}, uploadError(field, err)
	}
	return service.Upload{Name: filepath.Base(header.Filename), Data: data}, nil
}

func uploadError(field string, err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return appErrors.Clone(appErrors.ErrPayloadTooLarge, fmt.Sprintf("uploads exceed %d bytes", tooLarge.Limit))
	}
	if errors.Is(err, http.ErrMissingFile) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file field %q is required", field))
	}
	return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("could not read file field %q", field))
}
