package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-paper/internal/config"
	"github.com/stemsi/exstem-paper/internal/model"
)

const (
	PaperArchivePollTimeout = 1 * time.Second
	PaperArchiveRetryDelay  = 5 * time.Second
)

// PaperStore persists generated papers.
type PaperStore interface {
	Create(ctx context.Context, p *model.GeneratedPaper) error
}

// PaperArchiveWorker consumes persist_papers_queue and writes every
// assembled document into the paper history.
type PaperArchiveWorker struct {
	store PaperStore
	rdb   *redis.Client
	log   zerolog.Logger

	retryDelay time.Duration
}

// NewPaperArchiveWorker creates a new PaperArchiveWorker.
func NewPaperArchiveWorker(store PaperStore, rdb *redis.Client, log zerolog.Logger) *PaperArchiveWorker {
	return &PaperArchiveWorker{
		store:      store,
		rdb:        rdb,
		log:        log.With().Str("component", "paper_archive_worker").Logger(),
		retryDelay: PaperArchiveRetryDelay,
	}
}

// Start begins the worker loop and drains the queue once ctx is cancelled.
// Call in a goroutine.
func (w *PaperArchiveWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *PaperArchiveWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or the poll timeout passes.
	result, err := w.rdb.BLPop(ctx, PaperArchivePollTimeout, config.WorkerKey.PersistPapersQueue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}
	if len(result) < 2 {
		return
	}

	if err := w.persist(ctx, result[1]); err != nil {
		w.log.Error().Err(err).Msg("Persist error, retrying later")
		// Push back to queue for retry.
		w.rdb.RPush(ctx, config.WorkerKey.PersistPapersQueue, result[1])
		select {
		case <-ctx.Done():
		case <-time.After(w.retryDelay):
		}
	}
}

// persist decodes and stores one queued paper. Undecodable payloads are
// logged and dropped.
func (w *PaperArchiveWorker) persist(ctx context.Context, raw string) error {
	var p model.GeneratedPaper
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		w.log.Error().Err(err).Msg("Invalid JSON payload")
		return nil
	}

	if err := w.store.Create(ctx, &p); err != nil {
		return err
	}
	w.log.Debug().
		Int("paper_id", p.ID).
		Int("owner_id", p.OwnerID).
		Str("session_id", p.SessionID).
		Msg("Paper archived")
	return nil
}

// drain processes all remaining items in the queue before shutdown.
func (w *PaperArchiveWorker) drain(ctx context.Context) {
	drained := 0
	for {
		raw, err := w.rdb.LPop(ctx, config.WorkerKey.PersistPapersQueue).Result()
		if err != nil {
			break
		}
		if err := w.persist(ctx, raw); err != nil {
			w.log.Error().Err(err).Msg("Drain persist error")
			w.rdb.RPush(ctx, config.WorkerKey.PersistPapersQueue, raw)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}
