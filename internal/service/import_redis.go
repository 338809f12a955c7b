package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/config"
	"github.com/SaintPauloSchool/DataAcquisitionProcedure/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// releaseScript deletes the lock only if it still holds our token, so an
// expired lock taken over by another process is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// renewScript extends the lock only while it still holds our token.
var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisRunLock is a RunLock shared by every process using the same Redis.
// The lock is renewed every ttl/3 while held, so ttl bounds how long a
// crashed holder blocks others, not how long a run may take.
type RedisRunLock struct {
	rdb *redis.Client
	key string
	ttl time.Duration
	log zerolog.Logger
}

// NewRedisRunLock creates a lock that expires ttl after its holder stops
// renewing it.
func NewRedisRunLock(rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *RedisRunLock {
	return &RedisRunLock{
		rdb: rdb,
		key: config.CacheKey.ImportLock,
		ttl: ttl,
		log: log.With().Str("component", "import_lock").Logger(),
	}
}

func (l *RedisRunLock) TryAcquire(ctx context.Context) (func() error, bool, error) {
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		keepAlive(l.ttl/3, stop, func() (bool, error) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			n, err := renewScript.Run(ctx, l.rdb, []string{l.key}, token, l.ttl.Milliseconds()).Int()
			return n == 1, err
		}, l.log)
	}()

	var once sync.Once
	release := func() error {
		var err error
		once.Do(func() {
			close(stop)
			<-done

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err = releaseScript.Run(ctx, l.rdb, []string{l.key}, token).Err()
		})
		return err
	}
	return release, true, nil
}

// keepAlive calls extend every interval until stop is closed or extend
// reports the lock is no longer ours. Transient errors are retried on the
// next tick.
func keepAlive(interval time.Duration, stop <-chan struct{}, extend func() (bool, error), log zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			held, err := extend()
			if err != nil {
				log.Warn().Err(err).Msg("Failed to renew import lock")
				continue
			}
			if !held {
				log.Error().Msg("Import lock lost to another holder")
				return
			}
		}
	}
}

// RedisImportState stores the last report and carries run events.
type RedisImportState struct {
	rdb *redis.Client
}

// NewRedisImportState creates a new RedisImportState.
func NewRedisImportState(rdb *redis.Client) *RedisImportState {
	return &RedisImportState{rdb: rdb}
}

func (s *RedisImportState) SaveLast(ctx context.Context, report *model.ImportReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return s.rdb.Set(ctx, config.CacheKey.ImportLastReport, data, 0).Err()
}

func (s *RedisImportState) Last(ctx context.Context) (*model.ImportReport, error) {
	data, err := s.rdb.Get(ctx, config.CacheKey.ImportLastReport).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoReport
		}
		return nil, err
	}

	var report model.ImportReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &report, nil
}

func (s *RedisImportState) Publish(ctx context.Context, event model.ImportEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return s.rdb.Publish(ctx, config.CacheKey.ImportEvents, data).Err()
}

// Events streams run events published by any process until ctx is done,
// then closes the channel. Malformed messages are dropped.
func (s *RedisImportState) Events(ctx context.Context) (<-chan model.ImportEvent, error) {
	ps := s.rdb.Subscribe(ctx, config.CacheKey.ImportEvents)
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("subscribe to import events: %w", err)
	}

	out := make(chan model.ImportEvent)
	go func() {
		defer close(out)
		defer ps.Close()

		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev model.ImportEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
