package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/importer"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/model"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Import errors.
var (
	ErrImportInProgress = errors.New("an import run is already in progress")
	ErrNoReport         = errors.New("no import has completed yet")
)

//go:generate mockgen -destination=mock_import_test.go -package=service . RunLock,ReportStore,EventPublisher

// RunLock guards import runs across processes.
type RunLock interface {
	// TryAcquire takes the lock without waiting. ok is false when another
	// holder has it.
	TryAcquire(ctx context.Context) (release func() error, ok bool, err error)
}

// ReportStore keeps the most recent import report.
type ReportStore interface {
	SaveLast(ctx context.Context, report *model.ImportReport) error
	Last(ctx context.Context) (*model.ImportReport, error)
}

// EventPublisher announces run lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, event model.ImportEvent) error
}

// Runner performs a single import against a store.
type Runner interface {
	Run(ctx context.Context, store importer.Store, trigger model.ImportTrigger) (*model.ImportReport, error)
	Dir() string
}

// ClassLogStore is the storage an import writes to. Atomic runs fn inside
// one transaction that commits only when fn returns nil.
type ClassLogStore interface {
	importer.Store
	Atomic(ctx context.Context, fn func(tx importer.Store) error) error
}

// NewClassLogStore adapts the repository for import runs.
func NewClassLogStore(repo *repository.ClassLogRepository) ClassLogStore {
	return classLogStore{repo}
}

type classLogStore struct {
	*repository.ClassLogRepository
}

func (s classLogStore) Atomic(ctx context.Context, fn func(tx importer.Store) error) error {
	return s.InTx(ctx, func(tx *repository.ClassLogRepository) error {
		return fn(tx)
	})
}

// ImportService runs imports one at a time and shares their outcome.
type ImportService struct {
	runner  Runner
	store   ClassLogStore
	lock    RunLock
	reports ReportStore
	events  EventPublisher
	atomic  bool
	log     zerolog.Logger

	running sync.Mutex

	lastMu sync.RWMutex
	last   *model.ImportReport
}

// NewImportService creates a new ImportService. lock, reports and events
// may be nil, in which case only this process is serialized and the last
// report is kept in memory.
func NewImportService(
	runner Runner,
	store ClassLogStore,
	lock RunLock,
	reports ReportStore,
	events EventPublisher,
	atomic bool,
	log zerolog.Logger,
) *ImportService {
	return &ImportService{
		runner:  runner,
		store:   store,
		lock:    lock,
		reports: reports,
		events:  events,
		atomic:  atomic,
		log:     log.With().Str("component", "import_service").Logger(),
	}
}

// RunImport performs one import run. It returns ErrImportInProgress without
// touching storage when another run holds the lock. Otherwise the report is
// always returned, together with the error that stopped the run, if any.
func (s *ImportService) RunImport(ctx context.Context, trigger model.ImportTrigger) (*model.ImportReport, error) {
	if !s.running.TryLock() {
		return nil, ErrImportInProgress
	}
	defer s.running.Unlock()

	if s.lock != nil {
		release, ok, err := s.lock.TryAcquire(ctx)
		if err != nil {
			return nil, fmt.Errorf("acquire import lock: %w", err)
		}
		if !ok {
			return nil, ErrImportInProgress
		}
		defer func() {
			if err := release(); err != nil {
				s.log.Warn().Err(err).Msg("Failed to release import lock")
			}
		}()
	}

	runID := uuid.NewString()
	log := s.log.With().Str("run_id", runID).Str("trigger", string(trigger)).Logger()
	log.Info().Bool("atomic", s.atomic).Msg("Import started")

	s.publish(ctx, log, model.ImportEvent{
		Type:    model.ImportEventStarted,
		RunID:   runID,
		Trigger: trigger,
		At:      time.Now(),
	})

	report, err := s.run(ctx, trigger)
	report.RunID = runID

	s.remember(ctx, log, report)
	s.publish(ctx, log, model.ImportEvent{
		Type:         model.ImportEventFinished,
		RunID:        runID,
		Trigger:      trigger,
		TotalSuccess: report.TotalSuccess,
		TotalErrors:  report.TotalErrors,
		Fatal:        report.Fatal,
		At:           report.FinishedAt,
	})

	return report, err
}

func (s *ImportService) run(ctx context.Context, trigger model.ImportTrigger) (*model.ImportReport, error) {
	if !s.atomic {
		return s.runner.Run(ctx, s.store, trigger)
	}

	var (
		report *model.ImportReport
		runErr error
	)
	txErr := s.store.Atomic(ctx, func(tx importer.Store) error {
		report, runErr = s.runner.Run(ctx, tx, trigger)
		return runErr
	})
	if runErr != nil {
		return report, runErr
	}
	if txErr != nil {
		if report == nil {
			report = &model.ImportReport{
				Trigger:   trigger,
				Directory: s.runner.Dir(),
				StartedAt: time.Now(),
			}
		}
		txErr = fmt.Errorf("import transaction: %w", txErr)
		report.Abort(txErr)
		report.FinishedAt = time.Now()
		return report, txErr
	}
	return report, nil
}

// LastReport returns the most recent report, preferring the shared store so
// runs from other processes are visible.
func (s *ImportService) LastReport(ctx context.Context) (*model.ImportReport, error) {
	if s.reports != nil {
		report, err := s.reports.Last(ctx)
		if err == nil {
			return report, nil
		}
		if !errors.Is(err, ErrNoReport) {
			s.log.Warn().Err(err).Msg("Failed to read last report, using local copy")
		}
	}

	s.lastMu.RLock()
	defer s.lastMu.RUnlock()
	if s.last == nil {
		return nil, ErrNoReport
	}
	return s.last, nil
}

func (s *ImportService) remember(ctx context.Context, log zerolog.Logger, report *model.ImportReport) {
	s.lastMu.Lock()
	s.last = report
	s.lastMu.Unlock()

	if s.reports == nil {
		return
	}
	if err := s.reports.SaveLast(context.WithoutCancel(ctx), report); err != nil {
		log.Warn().Err(err).Msg("Failed to cache import report")
	}
}

func (s *ImportService) publish(ctx context.Context, log zerolog.Logger, event model.ImportEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(context.WithoutCancel(ctx), event); err != nil {
		log.Warn().Err(err).Str("event", string(event.Type)).Msg("Failed to publish import event")
	}
}
