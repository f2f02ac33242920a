package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Анализ динамики фонда",
		Sheet:   "Результат",
		Headers: []string{"Скважина", "Изменение"},
		Rows: [][]string{
			{"101", "Введено в ДФ"},
			{"102", ""},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter(0).Render(sampleDataset())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, utf8BOM))
	require.Equal(t, "Скважина;Изменение\n101;Введено в ДФ\n102;\n", string(out[len(utf8BOM):]))
}

func TestCSVExporterRejectsRaggedRows(t *testing.T) {
	data := sampleDataset()
	data.Rows = append(data.Rows, []string{"only-one"})
	_, err := NewCSVExporter(',').Render(data)
	require.Error(t, err)
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleDataset())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"Результат"}, f.GetSheetList())
	rows, err := f.GetRows("Результат")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"Скважина", "Изменение"}, rows[0])
	require.Equal(t, []string{"101", "Введено в ДФ"}, rows[1])
}

func TestXLSXExporterEmptyBody(t *testing.T) {
	data := sampleDataset()
	data.Rows = nil
	out, err := NewXLSXExporter().Render(data)
	require.NoError(t, err)
	require.NotEmpty(t, out)
}

func TestPDFExporterDisabledWithoutFont(t *testing.T) {
	exporter := NewPDFExporter("")
	require.False(t, exporter.Enabled())
	_, err := exporter.Render(sampleDataset())
	require.ErrorIs(t, err, ErrPDFUnavailable)
}
