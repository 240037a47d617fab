package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/examhall/examhall-backend/internal/config"
	"github.com/examhall/examhall-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	BatchSize    = 50
	BatchTimeout = 2 * time.Second
	PollTimeout  = 1 * time.Second // Must be >= 1s to satisfy Redis
)

// EventSink persists integrity events. Satisfied by repository.AttemptEventRepository.
type EventSink interface {
	BulkInsert(ctx context.Context, events []model.AttemptEvent) (int64, error)
	Insert(ctx context.Context, e model.AttemptEvent) error
}

// EventWorker drains persist_attempt_events_queue into PostgreSQL in batches.
type EventWorker struct {
	sink EventSink
	rdb  *redis.Client
	log  zerolog.Logger
}

func NewEventWorker(sink EventSink, rdb *redis.Client, log zerolog.Logger) *EventWorker {
	return &EventWorker{
		sink: sink,
		rdb:  rdb,
		log:  log.With().Str("component", "event_worker").Logger(),
	}
}

// Start blocks until ctx is cancelled, flushing whenever the buffer is full
// or BatchTimeout has passed since the last flush.
func (w *EventWorker) Start(ctx context.Context) {
	w.log.Info().Msg("EventWorker started")

	buffer := make([]model.AttemptEvent, 0, BatchSize)
	lastFlushTime := time.Now()

	for {
		if len(buffer) > 0 {
			if len(buffer) >= BatchSize || time.Since(lastFlushTime) >= BatchTimeout {
				w.flushSafe(ctx, buffer)
				buffer = buffer[:0]
				lastFlushTime = time.Now()
			}
		}

		select {
		case <-ctx.Done():
			w.shutdown(buffer)
			return
		default:
		}

		// BLPop blocks for PollTimeout and returns immediately if data exists.
		result, err := w.rdb.BLPop(ctx, PollTimeout, config.WorkerKey.PersistAttemptEventsQueue).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				w.shutdown(buffer)
				return
			}
			w.log.Error().Err(err).Msg("Redis connection error, sleeping 3s")
			time.Sleep(3 * time.Second)
			continue
		}

		if len(result) < 2 {
			continue
		}

		evt, err := decodeEvent(result[1])
		if err != nil {
			// Malformed payloads can never succeed; drop them.
			w.log.Error().Err(err).Str("data", result[1]).Msg("Discarding malformed event")
			continue
		}
		buffer = append(buffer, evt)
	}
}

func decodeEvent(raw string) (model.AttemptEvent, error) {
	var evt model.AttemptEvent
	if err := json.Unmarshal([]byte(raw), &evt); err != nil {
		return evt, err
	}
	switch evt.EventType {
	case model.EventTabSwitch, model.EventFullscreenExit:
	default:
		return evt, errors.New("unknown event type")
	}
	return evt, nil
}

// flushSafe attempts a bulk copy, then row-by-row inserts, then requeues what is left.
func (w *EventWorker) flushSafe(ctx context.Context, batch []model.AttemptEvent) {
	if _, err := w.sink.BulkInsert(ctx, batch); err != nil {
		w.log.Warn().Err(err).Int("count", len(batch)).Msg("Bulk insert failed, attempting row-by-row recovery")
		w.fallbackInsert(ctx, batch)
	}
}

func (w *EventWorker) fallbackInsert(ctx context.Context, batch []model.AttemptEvent) {
	requeueList := make([]model.AttemptEvent, 0)

	for _, e := range batch {
		if err := w.sink.Insert(ctx, e); err != nil {
			w.log.Error().Err(err).Str("student_id", e.StudentID.String()).Msg("Insert failed, requeueing")
			requeueList = append(requeueList, e)
		}
	}

	if len(requeueList) > 0 {
		w.requeue(ctx, requeueList)
	}
}

func (w *EventWorker) requeue(ctx context.Context, items []model.AttemptEvent) {
	pipe := w.rdb.Pipeline()
	for _, e := range items {
		data, _ := json.Marshal(e)
		pipe.RPush(ctx, config.WorkerKey.PersistAttemptEventsQueue, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		w.log.Error().Err(err).Int("count", len(items)).Msg("CRITICAL: failed to requeue events, data lost")
		return
	}
	w.log.Info().Int("count", len(items)).Msg("Requeued failed events back to Redis")
	// Back off so a database outage does not spin the loop.
	time.Sleep(2 * time.Second)
}

func (w *EventWorker) shutdown(buffer []model.AttemptEvent) {
	w.log.Info().Msg("Worker stopping, flushing remaining buffer...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if len(buffer) > 0 {
		w.flushSafe(shutdownCtx, buffer)
	}
}
