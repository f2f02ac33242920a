package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/noah-isme/fund-dynamics-api/internal/models"
	"github.com/noah-isme/fund-dynamics-api/pkg/config"
	appErrors "github.com/noah-isme/fund-dynamics-api/pkg/errors"
	"github.com/noah-isme/fund-dynamics-api/pkg/sheet"
)

// ReferenceRepository reads the static reference tables from disk.
type ReferenceRepository struct {
	cfg      config.ReferencesConfig
	readFile func(string) ([]byte, error)
	now      func() time.Time
}

// NewReferenceRepository constructs the repository.
func NewReferenceRepository(cfg config.ReferencesConfig) *ReferenceRepository {
	return &ReferenceRepository{cfg: cfg, readFile: os.ReadFile, now: time.Now}
}

// Load reads all three tables and returns an immutable set. The version is a
// digest of the raw file contents.
func (r *ReferenceRepository) Load(ctx context.Context) (*models.ReferenceSet, error) {
	orgRaw, err := r.read(models.ReferenceOrg, r.cfg.OrgPath)
	if err != nil {
		return nil, err
	}
	devRaw, err := r.read(models.ReferenceDevices, r.cfg.DevicePath)
	if err != nil {
		return nil, err
	}
	comRaw, err := r.read(models.ReferenceCommissioning, r.cfg.CommissioningPath)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	org, err := r.parseOrg(orgRaw)
	if err != nil {
		return nil, err
	}
	devices, err := r.parseDevices(devRaw)
	if err != nil {
		return nil, err
	}
	commissioning, err := r.parseCommissioning(comRaw)
	if err != nil {
		return nil, err
	}

	digest := sha256.New()
	for _, raw := range [][]byte{orgRaw, devRaw, comRaw} {
		_, _ = digest.Write(raw)
	}

	return &models.ReferenceSet{
		Org:           org,
		Devices:       devices,
		Commissioning: commissioning,
		Version:       hex.EncodeToString(digest.Sum(nil))[:16],
		LoadedAt:      r.now().UTC(),
	}, nil
}

func (r *ReferenceRepository) read(name, path string) ([]byte, error) {
	data, err := r.readFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &appErrors.ReferenceNotFoundError{Name: name, Path: path}
		}
		return nil, fmt.Errorf("read reference %s: %w", name, err)
	}
	return data, nil
}

func (r *ReferenceRepository) parseOrg(data []byte) (map[string]models.OrgUnit, error) {
	table, err := sheet.ReadDelimited(models.ReferenceOrg, data, sheet.DelimitedOptions{Comma: r.cfg.CSVDelimiter})
	if err != nil {
		return nil, err
	}
	if err := table.Require(models.ColumnWellID, models.ColumnUnit, models.ColumnSubUnit, models.ColumnGroup); err != nil {
		return nil, err
	}
	out := make(map[string]models.OrgUnit, len(table.Rows))
	for _, row := range table.Rows {
		id := strings.TrimSpace(table.Value(row, models.ColumnWellID))
		if _, seen := out[id]; seen || id == "" {
			continue
		}
		out[id] = models.OrgUnit{
			WellID:  id,
			Unit:    strings.TrimSpace(table.Value(row, models.ColumnUnit)),
			SubUnit: strings.TrimSpace(table.Value(row, models.ColumnSubUnit)),
			Group:   strings.TrimSpace(table.Value(row, models.ColumnGroup)),
		}
	}
	return out, nil
}

func (r *ReferenceRepository) parseDevices(data []byte) (map[string]models.DeviceMapping, error) {
	table, err := sheet.ReadDelimited(models.ReferenceDevices, data, sheet.DelimitedOptions{Comma: r.cfg.CSVDelimiter})
	if err != nil {
		return nil, err
	}
	// the device export names the well column "name"
	idColumn := models.ColumnDeviceName
	if _, ok := table.Column(models.ColumnWellID); ok {
		idColumn = models.ColumnWellID
	}
	if err := table.Require(idColumn, models.ColumnControllerID, models.ColumnSensorID); err != nil {
		return nil, err
	}
	table.Alias(idColumn, models.ColumnWellID)

	out := make(map[string]models.DeviceMapping, len(table.Rows))
	for _, row := range table.Rows {
		id := strings.TrimSpace(table.Value(row, models.ColumnWellID))
		if _, seen := out[id]; seen || id == "" {
			continue
		}
		out[id] = models.DeviceMapping{
			WellID:       id,
			ControllerID: strings.TrimSpace(table.Value(row, models.ColumnControllerID)),
			SensorID:     strings.TrimSpace(table.Value(row, models.ColumnSensorID)),
		}
	}
	return out, nil
}

func (r *ReferenceRepository) parseCommissioning(data []byte) (map[string]models.Commissioning, error) {
	table, err := sheet.ReadWorkbook(models.ReferenceCommissioning, data, sheet.WorkbookOptions{
		Sheet:    r.cfg.CommissioningSheet,
		SkipRows: r.cfg.CommissioningSkip,
	})
	if err != nil {
		return nil, err
	}
	if err := table.Require(models.ColumnWellID, models.ColumnCommissionedAt, models.ColumnInactiveSince); err != nil {
		return nil, err
	}
	out := make(map[string]models.Commissioning, len(table.Rows))
	for _, row := range table.Rows {
		id := strings.TrimSpace(table.Value(row, models.ColumnWellID))
		if _, seen := out[id]; seen || id == "" {
			continue
		}
		out[id] = models.Commissioning{
			WellID:         id,
			CommissionedAt: table.Value(row, models.ColumnCommissionedAt),
			InactiveSince:  table.Value(row, models.ColumnInactiveSince),
		}
	}
	return out, nil
}
