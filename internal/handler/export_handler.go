package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/fund-dynamics-api/internal/models"
	"github.com/noah-isme/fund-dynamics-api/internal/service"
	appErrors "github.com/noah-isme/fund-dynamics-api/pkg/errors"
	"github.com/noah-isme/fund-dynamics-api/pkg/logger"
	"github.com/noah-isme/fund-dynamics-api/pkg/response"
)

type reportResolver interface {
	Resolve(token string) (*service.ReportDownload, error)
}

type usageRecorder interface {
	Record(ctx context.Context, event models.UsageEvent, initialFile, terminalFile string) error
}

type downloadObserver interface {
	ObserveDownload(format models.ReportFormat)
}

// ExportHandler streams rendered reports behind signed tokens.
type ExportHandler struct {
	reports reportResolver
	usage   usageRecorder
	metrics downloadObserver
	logger  *zap.Logger
}

// NewExportHandler builds a new handler.
func NewExportHandler(reports reportResolver, usage usageRecorder, metrics downloadObserver, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{reports: reports, usage: usage, metrics: metrics, logger: logger}
}

// Download godoc
// @Summary Download a rendered comparison report
// @Tags Comparisons
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Produce application/pdf
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /export/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	download, err := h.reports.Resolve(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close() //nolint:errcheck

	if err := h.usage.Record(c.Request.Context(), models.UsageDownloadedResult, download.Meta.InitialFile, download.Meta.TerminalFile); err != nil {
		logger.ForRequest(h.logger, c).Warn("usage entry not recorded", zap.Error(err))
	}
	if h.metrics != nil {
		h.metrics.ObserveDownload(download.Format)
	}

	c.Header("Content-Disposition", ContentDisposition(download.FileName))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, download.SizeBytes, download.ContentType, download.File, nil)
}

// ContentDisposition builds an attachment header carrying the UTF-8 file name
// (RFC 5987) with an ASCII fallback for older clients.
func ContentDisposition(name string) string {
	fallback := "fund_dynamics" + path.Ext(name)
	return fmt.Sprintf("attachment; filename=\"%s\"; filename*=UTF-8''%s", fallback, url.PathEscape(name))
}
