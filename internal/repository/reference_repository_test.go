package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/noah-isme/fund-dynamics-api/internal/models"
	"github.com/noah-isme/fund-dynamics-api/pkg/config"
	appErrors "github.com/noah-isme/fund-dynamics-api/pkg/errors"
)

func writeReferenceFixtures(t *testing.T) config.ReferencesConfig {
	t.Helper()
	dir := t.TempDir()

	org := "Скважина;НГДУ;ЦДНГ;Бригада\n101;НГДУ-1;ЦДНГ-1;Бригада 1\n101;НГДУ-9;ЦДНГ-9;Бригада 9\n;НГДУ-2;ЦДНГ-2;Бригада 2\n"
	encoded, err := charmap.Windows1251.NewEncoder().String(org)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "org.csv"), []byte(encoded), 0o644))

	devices := "\xef\xbb\xbfname;controller_id;sensor_id\n101;C-1;S-1\n102;C-2;S-2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "devices.csv"), []byte(devices), 0o644))

	f := excelize.NewFile()
	defer f.Close()
	rows := [][]interface{}{
		{"Скважина", "Дата ввода в эксплуатацию", "Дата перевода в ДФ"},
		{"101", 43831, "15.03.2021"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		values := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &values))
	}
	require.NoError(t, f.SetSheetName("Sheet1", "Лист1"))
	require.NoError(t, f.SaveAs(filepath.Join(dir, "commissioning.xlsx")))

	return config.ReferencesConfig{
		OrgPath:            filepath.Join(dir, "org.csv"),
		DevicePath:         filepath.Join(dir, "devices.csv"),
		CommissioningPath:  filepath.Join(dir, "commissioning.xlsx"),
		CommissioningSheet: "Лист1",
		CSVDelimiter:       ';',
		ReloadPolicy:       config.ReloadOnStartup,
	}
}

func TestReferenceRepositoryLoad(t *testing.T) {
	cfg := writeReferenceFixtures(t)
	set, err := NewReferenceRepository(cfg).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, set.Org, 1)
	assert.Equal(t, "НГДУ-1", set.Org["101"].Unit)
	require.Len(t, set.Devices, 2)
	assert.Equal(t, "C-2", set.Devices["102"].ControllerID)
	require.Contains(t, set.Commissioning, "101")
	assert.Equal(t, "43831", set.Commissioning["101"].CommissionedAt)
	assert.Equal(t, "15.03.2021", set.Commissioning["101"].InactiveSince)
	assert.Len(t, set.Version, 16)
	assert.False(t, set.LoadedAt.IsZero())

	again, err := NewReferenceRepository(cfg).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, set.Version, again.Version)
}

func TestReferenceRepositoryMissingFile(t *testing.T) {
	cfg := writeReferenceFixtures(t)
	cfg.DevicePath = filepath.Join(t.TempDir(), "absent.csv")

	_, err := NewReferenceRepository(cfg).Load(context.Background())
	var notFound *appErrors.ReferenceNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, models.ReferenceDevices, notFound.Name)
	assert.Equal(t, cfg.DevicePath, notFound.Path)
}

func TestReferenceRepositoryMissingColumn(t *testing.T) {
	cfg := writeReferenceFixtures(t)
	require.NoError(t, os.WriteFile(cfg.OrgPath, []byte("Скважина;НГДУ\n1;A\n"), 0o644))

	_, err := NewReferenceRepository(cfg).Load(context.Background())
	var schemaErr *appErrors.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, models.ReferenceOrg, schemaErr.Table)
	assert.Equal(t, []string{models.ColumnSubUnit, models.ColumnGroup}, schemaErr.Missing)
}

func TestReferenceRepositoryMissingSheet(t *testing.T) {
	cfg := writeReferenceFixtures(t)
	cfg.CommissioningSheet = "Данные"

	_, err := NewReferenceRepository(cfg).Load(context.Background())
	var parseErr *appErrors.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, models.ReferenceCommissioning, parseErr.Table)
}
