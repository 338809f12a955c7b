package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/config"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/database"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/importer"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/logger"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/model"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/repository"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/service"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	flag.StringVar(&cfg.UploadDir, "dir", cfg.UploadDir, "Directory containing class log CSV files")
	flag.BoolVar(&cfg.ImportAtomic, "atomic", cfg.ImportAtomic, "Replace all records in a single transaction")
	flag.Parse()

	// Logs go to stderr so stdout carries only the report.
	log := logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	loc, _ := cfg.Location()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	// The server may be importing at the same moment; the shared lock keeps
	// the two from clearing each other's rows.
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Run ───────────────────────────────────────────────────────────
	state := service.NewRedisImportState(rdb)
	importService := service.NewImportService(
		importer.New(cfg.UploadDir, loc, log),
		service.NewClassLogStore(repository.NewClassLogRepository(pool)),
		service.NewRedisRunLock(rdb, cfg.ImportLockTTL, log),
		state,
		state,
		cfg.ImportAtomic,
		log,
	)

	report, err := importService.RunImport(ctx, model.TriggerCLI)
	if errors.Is(err, service.ErrImportInProgress) {
		fmt.Fprintln(os.Stderr, "Another import is already running")
		os.Exit(2)
	}
	if report != nil {
		fmt.Print(report.Text())
	}
	if err != nil {
		log.Error().Err(err).Msg("Import failed")
		os.Exit(1)
	}
}
