package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/model"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runnerFunc func(ctx context.Context, trigger model.ImportTrigger) (*model.ImportReport, error)

func (f runnerFunc) RunImport(ctx context.Context, trigger model.ImportTrigger) (*model.ImportReport, error) {
	return f(ctx, trigger)
}

func newTestScheduler(t *testing.T, runner ImportRunner, runOnStart bool) *ImportScheduler {
	t.Helper()
	s, err := ParseWeeklySchedule("MON-FRI 17:30", time.UTC)
	require.NoError(t, err)
	return NewImportScheduler(runner, s, runOnStart, zerolog.Nop())
}

func TestOnFire_SwallowsFailures(t *testing.T) {
	cases := map[string]runnerFunc{
		"panic": func(context.Context, model.ImportTrigger) (*model.ImportReport, error) {
			panic("boom")
		},
		"fatal": func(context.Context, model.ImportTrigger) (*model.ImportReport, error) {
			r := &model.ImportReport{}
			r.Abort(errors.New("upload directory unavailable"))
			return r, errors.New("upload directory unavailable")
		},
		"busy": func(context.Context, model.ImportTrigger) (*model.ImportReport, error) {
			return nil, service.ErrImportInProgress
		},
	}

	for name, runner := range cases {
		t.Run(name, func(t *testing.T) {
			w := newTestScheduler(t, runner, false)
			assert.NotPanics(t, func() { w.onFire(context.Background()) })
		})
	}
}

func TestStart_FiresOnSchedule(t *testing.T) {
	var calls atomic.Int32
	fired := make(chan model.ImportTrigger, 4)
	runner := runnerFunc(func(_ context.Context, trigger model.ImportTrigger) (*model.ImportReport, error) {
		calls.Add(1)
		select {
		case fired <- trigger:
		default:
		}
		return &model.ImportReport{}, nil
	})

	w := newTestScheduler(t, runner, true)
	w.next = func(now time.Time) time.Time { return now.Add(10 * time.Millisecond) }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	for i := 0; i < 2; i++ {
		select {
		case trigger := <-fired:
			assert.Equal(t, model.TriggerScheduled, trigger)
		case <-time.After(2 * time.Second):
			t.Fatal("scheduler did not fire")
		}
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}

func TestStop(t *testing.T) {
	w := newTestScheduler(t, runnerFunc(func(context.Context, model.ImportTrigger) (*model.ImportReport, error) {
		return nil, nil
	}), false)

	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()

	w.Stop()
	w.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
