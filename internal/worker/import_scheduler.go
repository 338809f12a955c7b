package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/model"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/service"
	"github.com/rs/zerolog"
)

// ImportRunner is satisfied by *service.ImportService.
type ImportRunner interface {
	RunImport(ctx context.Context, trigger model.ImportTrigger) (*model.ImportReport, error)
}

// ImportScheduler triggers an import on a weekly schedule.
type ImportScheduler struct {
	runner     ImportRunner
	schedule   *WeeklySchedule
	runOnStart bool
	next       func(time.Time) time.Time
	log        zerolog.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

func NewImportScheduler(runner ImportRunner, schedule *WeeklySchedule, runOnStart bool, log zerolog.Logger) *ImportScheduler {
	return &ImportScheduler{
		runner:     runner,
		schedule:   schedule,
		runOnStart: runOnStart,
		next:       schedule.Next,
		log:        log.With().Str("component", "import_scheduler").Logger(),
		stop:       make(chan struct{}),
	}
}

// Start blocks until ctx is cancelled or Stop is called.
func (w *ImportScheduler) Start(ctx context.Context) error {
	w.log.Info().Str("schedule", w.schedule.String()).Msg("Starting import scheduler")

	if w.runOnStart {
		w.log.Info().Msg("Running initial import on startup")
		w.onFire(ctx)
	}

	nextRun := w.next(time.Now())
	w.log.Info().Time("next_run", nextRun).Msg("Scheduled next import")

	timer := time.NewTimer(time.Until(nextRun))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Import scheduler context cancelled")
			return ctx.Err()
		case <-w.stop:
			return nil
		case <-timer.C:
			w.onFire(ctx)

			nextRun = w.next(time.Now())
			w.log.Info().Time("next_run", nextRun).Msg("Scheduled next import")
			timer.Reset(time.Until(nextRun))
		}
	}
}

func (w *ImportScheduler) Stop() {
	w.stopOnce.Do(func() {
		w.log.Info().Msg("Stopping import scheduler")
		close(w.stop)
	})
}

// onFire runs one scheduled import. Nothing it does may stop the loop.
func (w *ImportScheduler) onFire(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error().Err(fmt.Errorf("panic: %v", r)).Msg("Scheduled import panicked")
		}
	}()

	start := time.Now()
	report, err := w.runner.RunImport(ctx, model.TriggerScheduled)
	if errors.Is(err, service.ErrImportInProgress) {
		w.log.Warn().Msg("Import already running, skipping scheduled run")
		return
	}

	if report != nil {
		w.log.Info().
			Str("run_id", report.RunID).
			Dur("duration", time.Since(start)).
			Msg("Scheduled import report:\n" + report.Text())
	}
	if err != nil {
		w.log.Error().Err(err).Msg("Scheduled import failed")
	}
}
