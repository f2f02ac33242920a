package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/fund-dynamics-api/internal/models"
	appErrors "github.com/noah-isme/fund-dynamics-api/pkg/errors"
	"github.com/noah-isme/fund-dynamics-api/pkg/export"
	"github.com/noah-isme/fund-dynamics-api/pkg/storage"
)

const metaFileName = "meta.json"

var contentTypes = map[models.ReportFormat]string{
	models.ReportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	models.ReportFormatCSV:  "text/csv; charset=utf-8",
	models.ReportFormatPDF:  "application/pdf",
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Read(filename string) ([]byte, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	datasetRenderer
	Enabled() bool
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ReportDownload bundles an opened report file with its metadata.
type ReportDownload struct {
	File        *os.File
	FileName    string
	Format      models.ReportFormat
	ContentType string
	SizeBytes   int64
	Meta        models.ComparisonMeta
}

// ExportService renders reports, persists them and issues signed download links.
type ExportService struct {
	storage fileStorage
	xlsx    datasetRenderer
	csv     datasetRenderer
	pdf     pdfRenderer
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
	cfg     ExportConfig
}

// NewExportService constructs an ExportService. Nil renderers fall back to defaults.
func NewExportService(store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, xlsx, csv datasetRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter()
	}
	if csv == nil {
		csv = export.NewCSVExporter(';')
	}
	if pdf == nil {
		pdf = export.NewPDFExporter("")
	}
	return &ExportService{
		storage: store,
		xlsx:    xlsx,
		csv:     csv,
		pdf:     pdf,
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
	}
}

// ReportDataset lays a report out in presentation column order.
func ReportDataset(report *models.Report) export.Dataset {
	rows := make([][]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		rows = append(rows, row.Cells())
	}
	return export.Dataset{
		Title:   models.ReportTitle,
		Sheet:   models.ReportSheet,
		Headers: models.ReportHeaders,
		Rows:    rows,
	}
}

// ReportFileName returns the download name for a format.
func ReportFileName(format models.ReportFormat) string {
	return models.ReportBaseName + "." + string(format)
}

// Formats lists the renderings this instance can produce.
func (s *ExportService) Formats() []models.ReportFormat {
	formats := []models.ReportFormat{models.ReportFormatXLSX, models.ReportFormatCSV}
	if s.pdf.Enabled() {
		formats = append(formats, models.ReportFormatPDF)
	}
	return formats
}

// Render produces one rendering of the report.
func (s *ExportService) Render(report *models.Report, format models.ReportFormat) ([]byte, error) {
	dataset := ReportDataset(report)
	switch format {
	case models.ReportFormatXLSX:
		return s.xlsx.Render(dataset)
	case models.ReportFormatCSV:
		return s.csv.Render(dataset)
	case models.ReportFormatPDF:
		return s.pdf.Render(dataset)
	default:
		return nil, fmt.Errorf("unsupported format %s", format)
	}
}

// Publish renders every available format under the comparison directory and
// returns signed links. Nothing is returned unless every format was stored.
func (s *ExportService) Publish(ctx context.Context, meta models.ComparisonMeta, report *models.Report) ([]models.ReportDownloadLink, error) {
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("encode comparison meta: %w", err)
	}
	if _, err := s.storage.Save(path.Join(meta.ID, metaFileName), metaBytes); err != nil {
		return nil, err
	}

	links := make([]models.ReportDownloadLink, 0, 3)
	for _, format := range s.Formats() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		payload, err := s.Render(report, format)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		relPath, err := s.storage.Save(path.Join(meta.ID, ReportFileName(format)), payload)
		if err != nil {
			return nil, err
		}
		token, expiresAt, err := s.signer.Generate(meta.ID, relPath)
		if err != nil {
			return nil, err
		}
		links = append(links, models.ReportDownloadLink{
			Format:    format,
			FileName:  ReportFileName(format),
			URL:       s.downloadURL(token),
			ExpiresAt: expiresAt,
		})
	}
	return links, nil
}

// Resolve validates a download token and opens the referenced file.
func (s *ExportService) Resolve(token string) (*ReportDownload, error) {
	claims, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	if path.Dir(claims.RelPath) != claims.ComparisonID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "token mismatch")
	}

	var meta models.ComparisonMeta
	raw, err := s.storage.Read(path.Join(claims.ComparisonID, metaFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report is no longer available")
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("decode comparison meta: %w", err)
	}

	file, err := s.storage.Open(claims.RelPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report is no longer available")
		}
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close() //nolint:errcheck
		return nil, fmt.Errorf("stat report file: %w", err)
	}

	name := path.Base(claims.RelPath)
	format := models.ReportFormat(strings.TrimPrefix(path.Ext(name), "."))
	return &ReportDownload{
		File:        file,
		FileName:    name,
		Format:      format,
		ContentType: contentTypes[format],
		SizeBytes:   info.Size(),
		Meta:        meta,
	}, nil
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

// StartCleanup removes expired report files every interval until ctx is done.
func (s *ExportService) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := s.Cleanup(0)
				if err != nil {
					s.logger.Warn("report cleanup failed", zap.Error(err))
					continue
				}
				if len(removed) > 0 {
					s.logger.Info("expired reports removed", zap.Int("files", len(removed)))
				}
			}
		}
	}()
}

func (s *ExportService) downloadURL(token string) string {
	base := strings.TrimRight(s.cfg.APIPrefix, "/")
	if base == "" {
		base = "/api/v1"
	}
	return fmt.Sprintf("%s/export/%s", base, token)
}
