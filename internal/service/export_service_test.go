package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/fund-dynamics-api/internal/models"
	appErrors "github.com/noah-isme/fund-dynamics-api/pkg/errors"
	"github.com/noah-isme/fund-dynamics-api/pkg/storage"
)

var reportColumns = []string{
	"НГДУ", "ЦДНГ", "Бригада", "Скважина", "Причина простоя", "Способ эксплуатации",
	"Способ эксплуатации (было)", "ID контроллера", "ID датчика",
	"Дата ввода в эксплуатацию", "Дата перевода в ДФ", "Изменение",
}

func newExportServiceForTest(t *testing.T) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	svc := NewExportService(store, signer, ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}, zap.NewNop(), nil, nil, nil)
	return svc, store
}

func sampleReport() *models.Report {
	unit := "НГДУ-1"
	mode := "ЭЦН"
	return &models.Report{
		Rows: []models.ReportRow{
			{Unit: &unit, WellID: "101", Mode: &mode, Events: models.EventEntered.Label()},
			{WellID: "102", Events: models.EventExited.Label()},
		},
		Summary: models.ReportSummary{Entered: 1, Exited: 1, Wells: 2},
	}
}

func tokenFromURL(url string) string {
	return url[strings.LastIndex(url, "/")+1:]
}

func TestExportServicePublishAndResolve(t *testing.T) {
	svc, _ := newExportServiceForTest(t)
	meta := models.ComparisonMeta{ID: "cmp-1", InitialFile: "a.xlsx", TerminalFile: "b.xlsx", CreatedAt: time.Now().UTC()}

	links, err := svc.Publish(context.Background(), meta, sampleReport())
	require.NoError(t, err)
	require.Len(t, links, 2, "pdf is skipped without a font")
	assert.Equal(t, models.ReportFormatXLSX, links[0].Format)
	assert.Equal(t, "анализ_динамики_фонда.xlsx", links[0].FileName)
	assert.True(t, strings.HasPrefix(links[0].URL, "/api/v1/export/"))

	download, err := svc.Resolve(tokenFromURL(links[0].URL))
	require.NoError(t, err)
	defer download.File.Close()
	assert.Equal(t, "a.xlsx", download.Meta.InitialFile)
	assert.Equal(t, models.ReportFormatXLSX, download.Format)
	assert.Contains(t, download.ContentType, "spreadsheetml")

	f, err := excelize.OpenReader(download.File)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(models.ReportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, reportColumns, rows[0])
	assert.Equal(t, "НГДУ-1", rows[1][0])
	assert.Equal(t, "101", rows[1][3])
}

func TestExportServiceResolveCSV(t *testing.T) {
	svc, _ := newExportServiceForTest(t)
	links, err := svc.Publish(context.Background(), models.ComparisonMeta{ID: "cmp-2"}, sampleReport())
	require.NoError(t, err)

	download, err := svc.Resolve(tokenFromURL(links[1].URL))
	require.NoError(t, err)
	defer download.File.Close()
	body, err := io.ReadAll(download.File)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Изменение")
	assert.Equal(t, int64(len(body)), download.SizeBytes)
}

func TestExportServiceResolveRejectsBadToken(t *testing.T) {
	svc, _ := newExportServiceForTest(t)
	_, err := svc.Resolve("garbage")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestExportServiceResolveAfterCleanup(t *testing.T) {
	svc, _ := newExportServiceForTest(t)
	links, err := svc.Publish(context.Background(), models.ComparisonMeta{ID: "cmp-3"}, sampleReport())
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	removed, err := svc.Cleanup(time.Nanosecond)
	require.NoError(t, err)
	assert.NotEmpty(t, removed)

	_, err = svc.Resolve(tokenFromURL(links[0].URL))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
