package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/noah-isme/fund-dynamics-api/internal/models"
	"github.com/noah-isme/fund-dynamics-api/internal/repository"
	"github.com/noah-isme/fund-dynamics-api/internal/service"
	"github.com/noah-isme/fund-dynamics-api/pkg/config"
	appErrors "github.com/noah-isme/fund-dynamics-api/pkg/errors"
	"github.com/noah-isme/fund-dynamics-api/pkg/export"
	"github.com/noah-isme/fund-dynamics-api/pkg/logger"
)

const usage = "usage: fund-diff <initial.xlsx> <terminal.xlsx>"

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	out, err := run(context.Background(), cfg, logr, os.Args[1], os.Args[2])
	if err != nil {
		appErr := appErrors.FromError(err)
		fmt.Fprintf(os.Stderr, "ошибка: %s\n", appErr.Message)
		if details, ok := appErr.Details.(map[string]interface{}); ok {
			if items, ok := details["checklist"].([]string); ok {
				for _, item := range items {
					fmt.Fprintf(os.Stderr, "  - %s\n", item)
				}
			}
		}
		os.Exit(1)
	}
	fmt.Println(out)
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger, initialPath, terminalPath string) (string, error) {
	reader := service.NewSnapshotReader(cfg.Snapshot)
	initial, err := readSnapshot(reader, initialPath)
	if err != nil {
		return "", err
	}
	terminal, err := readSnapshot(reader, terminalPath)
	if err != nil {
		return "", err
	}

	refs, err := repository.NewReferenceRepository(cfg.References).Load(ctx)
	if err != nil {
		return "", err
	}

	report, err := service.BuildReport(initial, terminal, refs, service.NewSnapshotFilter(cfg.Snapshot.ActiveStates, cfg.Snapshot.Category))
	if err != nil {
		return "", err
	}

	data, err := export.NewXLSXExporter().Render(service.ReportDataset(report))
	if err != nil {
		return "", err
	}
	outPath := service.ReportFileName(models.ReportFormatXLSX)
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return "", err
	}

	usageSvc := service.NewUsageService(repository.NewUsageFileRepository(cfg.Usage.Path), cfg.Usage.DefaultLimit, nil, logr)
	if err := usageSvc.Record(ctx, models.UsageProcessedFiles, filepath.Base(initialPath), filepath.Base(terminalPath)); err != nil {
		logr.Warn("usage entry not recorded", zap.Error(err))
	}

	s := report.Summary
	return fmt.Sprintf("%s: скважин %d (выведено %d, введено %d, смена способа %d), нераспознанных дат %d",
		outPath, s.Wells, s.Exited, s.Entered, s.ModeChanged, report.Stats.UnparsedDates), nil
}

func readSnapshot(reader *service.SnapshotReader, path string) ([]models.WellRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return reader.Read(filepath.Base(path), data)
}
