package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/fund-dynamics-api/internal/models"
	"github.com/noah-isme/fund-dynamics-api/pkg/config"
	appErrors "github.com/noah-isme/fund-dynamics-api/pkg/errors"
	"github.com/noah-isme/fund-dynamics-api/pkg/sheet"
)

func snapshotWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "Отчет"))
	for i := 0; i < 4; i++ {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetCellValue("Отчет", cell, "служебная строка"))
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+5)
		values := row
		require.NoError(t, f.SetSheetRow("Отчет", cell, &values))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestSnapshotReaderRead(t *testing.T) {
	data := snapshotWorkbook(t, [][]interface{}{
		{"Скважина", "Состояние", "Категория", "Способ эксплуатации", "Причина простоя", "Куст"},
		{" 101 ", "В работе", "Нефтяная", "ЭЦН", "", "12"},
		{"", "В работе", "Нефтяная", "ЭЦН", "", ""},
		{"102", "В простое", "Нефтяная", "ШГН", "ремонт", ""},
	})
	reader := NewSnapshotReader(config.SnapshotConfig{Sheet: "Отчет", SkipRows: 4, MaxRows: 10})

	records, err := reader.Read("initial.xlsx", data)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "101", records[0].ID)
	assert.Equal(t, "ЭЦН", records[0].Mode)
	assert.Equal(t, map[string]string{"Куст": "12"}, records[0].Extra)
	assert.Equal(t, "ремонт", records[1].IdleReason)
	assert.Nil(t, records[1].Extra)
}

func TestParseSnapshotMissingColumns(t *testing.T) {
	table := sheet.NewTable("terminal.xlsx", []string{"Скважина", "Состояние"}, [][]string{{"1", "В работе"}})
	_, err := ParseSnapshot(table)
	require.Error(t, err)

	var schemaErr *appErrors.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "terminal.xlsx", schemaErr.Table)
	assert.Equal(t, []string{models.ColumnCategory, models.ColumnMode, models.ColumnIdleReason}, schemaErr.Missing)
	assert.Equal(t, models.SnapshotColumns, schemaErr.Required)
}

func TestDedupWellsKeepsFirst(t *testing.T) {
	records := []models.WellRecord{oilWell("1", "a"), oilWell("2", "b"), oilWell("1", "c")}
	unique, dropped := DedupWells(records)
	require.Len(t, unique, 2)
	assert.Equal(t, "a", unique[0].Mode)
	assert.Equal(t, 1, dropped)
}

func TestSnapshotFilterApply(t *testing.T) {
	filter := DefaultSnapshotFilter()
	out := filter.Apply([]models.WellRecord{
		well("1", models.StateInOperation, models.CategoryOil, ""),
		well("2", models.StateIdle, models.CategoryOil, ""),
		well("3", "Ликвидирована", models.CategoryOil, ""),
		well("4", models.StateInOperation, "Газовая", ""),
	})
	require.Len(t, out, 2)
	assert.Equal(t, []string{"1", "2"}, []string{out[0].ID, out[1].ID})
	assert.Empty(t, filter.Apply(nil))
	assert.Equal(t, "В простое,В работе|Нефтяная", filter.Key())
}
