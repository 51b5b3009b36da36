package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cyberescape/backend/go/internal/gamedb"
	"github.com/cyberescape/backend/go/internal/sqlutil"
)

// EventPublisher delivers a drained outbox event to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

type Config struct {
	PollInterval time.Duration
	BatchSize    int32
	MaxRetries   int
	RetryDelay   time.Duration
}

func DefaultConfig() Config {
	return Config{
		PollInterval: 5 * time.Second,
		BatchSize:    100,
		MaxRetries:   3,
		RetryDelay:   time.Second,
	}
}

// Worker drains unsent outbox rows and publishes them. Rows are claimed
// with FOR UPDATE SKIP LOCKED, so multiple instances can run one worker
// each without double-publishing inside a poll.
type Worker struct {
	db        *sql.DB
	queries   *gamedb.Queries
	publisher EventPublisher
	config    Config

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewWorker(database *sql.DB, publisher EventPublisher, cfg Config) *Worker {
	return &Worker{
		db:        database,
		queries:   gamedb.New(database),
		publisher: publisher,
		config:    cfg,
		stopChan:  make(chan struct{}),
	}
}

func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("outbox worker already running")
	}
	w.running = true
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run(ctx)

	log.Info().
		Dur("poll_interval", w.config.PollInterval).
		Int32("batch_size", w.config.BatchSize).
		Msg("outbox worker started")

	return nil
}

func (w *Worker) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return fmt.Errorf("outbox worker not running")
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopChan)
	w.wg.Wait()

	log.Info().Msg("outbox worker stopped")
	return nil
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	// Process immediately on start
	w.processOutbox(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-ticker.C:
			w.processOutbox(ctx)
		}
	}
}

func (w *Worker) processOutbox(ctx context.Context) {
	err := sqlutil.Run(ctx, w.db,
		func(tx *sql.Tx) *gamedb.Queries { return w.queries.WithTx(tx) },
		func(q *gamedb.Queries) error {
			rows, err := q.FetchUnsentOutbox(ctx, w.config.BatchSize)
			if err != nil {
				return fmt.Errorf("fetch unsent events: %w", err)
			}
			if len(rows) == 0 {
				return nil
			}

			log.Debug().Int("count", len(rows)).Msg("processing outbox events")

			var successfulIDs []uuid.UUID
			for _, row := range rows {
				event := Event{
					ID:        row.ID,
					TeamName:  row.TeamName,
					EventType: row.EventType,
					Payload:   row.Payload.RawMessage,
					CreatedAt: row.CreatedAt,
				}

				if err := w.publishWithRetry(ctx, event); err != nil {
					log.Error().
						Err(err).
						Str("event_id", row.ID.String()).
						Str("event_type", row.EventType).
						Msg("failed to publish event")
					continue
				}

				successfulIDs = append(successfulIDs, row.ID)
			}

			if len(successfulIDs) > 0 {
				if err := q.MarkOutboxSent(ctx, successfulIDs); err != nil {
					return fmt.Errorf("mark events sent: %w", err)
				}
			}

			log.Info().
				Int("total", len(rows)).
				Int("successful", len(successfulIDs)).
				Msg("processed outbox events")
			return nil
		})
	if err != nil {
		log.Error().Err(err).Msg("outbox poll failed")
	}
}

func (w *Worker) publishWithRetry(ctx context.Context, event Event) error {
	var lastErr error

	for attempt := 0; attempt <= w.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(w.config.RetryDelay * time.Duration(attempt)):
			}
		}

		if err := w.publisher.Publish(ctx, event); err != nil {
			lastErr = err
			log.Warn().
				Err(err).
				Str("event_id", event.ID.String()).
				Int("attempt", attempt+1).
				Msg("failed to publish event, retrying")
			continue
		}

		return nil
	}

	return fmt.Errorf("failed after %d attempts: %w", w.config.MaxRetries+1, lastErr)
}
