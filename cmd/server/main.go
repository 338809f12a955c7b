package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/config"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/database"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/handler"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/importer"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/logger"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/repository"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/router"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/service"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/validator"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Str("upload_dir", cfg.UploadDir).
		Msg("Starting class log importer")

	if err := cfg.ValidateServer(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	loc, _ := cfg.Location()

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	classLogRepo := repository.NewClassLogRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	importState := service.NewRedisImportState(rdb)
	authService := service.NewAuthService(cfg)
	classLogService := service.NewClassLogService(classLogRepo)
	importService := service.NewImportService(
		importer.New(cfg.UploadDir, loc, log),
		service.NewClassLogStore(classLogRepo),
		service.NewRedisRunLock(rdb, cfg.ImportLockTTL, log),
		importState,
		importState,
		cfg.ImportAtomic,
		log,
	)

	// Cancelled after the HTTP server drains; stops scheduled and manual runs.
	workerCtx, workerCancel := context.WithCancel(context.Background())

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Import:   handler.NewImportHandler(importService, workerCtx, log),
		ClassLog: handler.NewClassLogHandler(classLogService),
		WS:       handler.NewWSHandler(importState, importService, log, cfg.AllowedOrigins),
	}

	// ─── Start Import Scheduler ───────────────────────────────────────
	schedulerDone := make(chan struct{})

	if cfg.ImportScheduleEnabled {
		schedule, err := worker.ParseWeeklySchedule(cfg.ImportSchedule, loc)
		if err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.ImportSchedule).Msg("Invalid IMPORT_SCHEDULE")
		}
		scheduler := worker.NewImportScheduler(importService, schedule, cfg.ImportRunOnStart, log)
		go func() {
			defer close(schedulerDone)
			if err := scheduler.Start(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("Import scheduler stopped")
			}
		}()
	} else {
		log.Info().Msg("Import schedule disabled, manual trigger only")
		close(schedulerDone)
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, rdb, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the scheduler and any manual run still going. A run in progress
	// sees the cancellation between rows and finishes its report.
	workerCancel()
	select {
	case <-schedulerDone:
	case <-time.After(30 * time.Second):
		log.Warn().Msg("Import still running at shutdown")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
