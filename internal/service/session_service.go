package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-paper/internal/config"
	"github.com/stemsi/exstem-paper/internal/model"
	"github.com/stemsi/exstem-paper/internal/paper"
)

// Editing session errors.
var (
	ErrSessionNotFound = errors.New("editing session not found")
	ErrSessionConflict = errors.New("editing session modified concurrently")
)

// maxUpdateAttempts bounds the optimistic WATCH/EXEC retries of one update.
const maxUpdateAttempts = 5

// sessionRecord is the Redis value of an editing session.
type sessionRecord struct {
	OwnerID   int            `json:"owner_id"`
	Revision  int64          `json:"revision"`
	UpdatedAt time.Time      `json:"updated_at"`
	Snapshot  paper.Snapshot `json:"snapshot"`
}

// SessionState is an editing session as returned to clients.
type SessionState struct {
	ID        string     `json:"id"`
	Revision  int64      `json:"revision"`
	UpdatedAt time.Time  `json:"updated_at"`
	View      paper.View `json:"view"`
}

// SessionSummary is one row of a user's session list.
type SessionSummary struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Status         paper.Status `json:"status"`
	SelectionCount int          `json:"selection_count"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// SessionEvent is published on a session's events channel after every change.
type SessionEvent struct {
	SessionID string `json:"session_id"`
	Revision  int64  `json:"revision"`
	Ended     bool   `json:"ended,omitempty"`
}

// SessionService keeps exam editing sessions in Redis. Each session is one
// JSON value expiring after the configured idle TTL; mutations run as
// optimistic WATCH/MULTI/EXEC transactions.
type SessionService struct {
	source paper.Source
	rdb    *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(source paper.Source, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *SessionService {
	return &SessionService{
		source: source,
		rdb:    rdb,
		ttl:    cfg.SessionTTL,
		log:    log.With().Str("component", "session_service").Logger(),
	}
}

// Start opens a new editing session and loads the viewer's question bank.
// A failed load still creates the session, left in the failed state.
func (s *SessionService) Start(ctx context.Context, viewer model.Viewer) (*SessionState, error) {
	sess := paper.NewSession()
	if err := sess.Load(ctx, s.source, viewer); err != nil {
		if !errors.Is(err, paper.ErrRepositoryUnavailable) {
			return nil, err
		}
		s.log.Warn().Err(err).Int("user_id", viewer.UserID).Msg("Question bank load failed")
	}

	id := uuid.New().String()
	rec := sessionRecord{
		OwnerID:   viewer.UserID,
		Revision:  1,
		UpdatedAt: time.Now().UTC(),
		Snapshot:  sess.Snapshot(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}

	userKey := config.CacheKey.UserSessionsKey(viewer.UserID)
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, config.CacheKey.EditingSessionKey(id), data, s.ttl)
		pipe.SAdd(ctx, userKey, id)
		pipe.Expire(ctx, userKey, s.ttl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.log.Info().
		Str("session_id", id).
		Int("user_id", viewer.UserID).
		Str("status", string(sess.Repository().Status())).
		Int("questions", len(sess.Repository().Questions())).
		Msg("Editing session started")

	return stateOf(id, rec, sess), nil
}

// Get returns a session and extends its TTL.
func (s *SessionService) Get(ctx context.Context, viewer model.Viewer, id string) (*SessionState, error) {
	rec, err := s.read(ctx, s.rdb, viewer, id)
	if err != nil {
		return nil, err
	}
	s.touch(ctx, viewer, id)
	return stateOf(id, *rec, paper.Restore(rec.Snapshot)), nil
}

// List returns the viewer's live sessions, most recently changed first.
// Expired ids are pruned from the owner's index.
func (s *SessionService) List(ctx context.Context, viewer model.Viewer) ([]SessionSummary, error) {
	userKey := config.CacheKey.UserSessionsKey(viewer.UserID)
	ids, err := s.rdb.SMembers(ctx, userKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	summaries := make([]SessionSummary, 0, len(ids))
	for _, id := range ids {
		rec, err := s.read(ctx, s.rdb, viewer, id)
		if errors.Is(err, ErrSessionNotFound) {
			s.rdb.SRem(ctx, userKey, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, SessionSummary{
			ID:             id,
			Title:          rec.Snapshot.Metadata.Title,
			Status:         rec.Snapshot.Status,
			SelectionCount: len(rec.Snapshot.Selected),
			UpdatedAt:      rec.UpdatedAt,
		})
	}

	slices.SortFunc(summaries, func(a, b SessionSummary) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return summaries, nil
}

// Update applies fn to the session inside an optimistic transaction and
// stores the result. fn may run more than once when writers race; an error
// from fn aborts without writing.
func (s *SessionService) Update(ctx context.Context, viewer model.Viewer, id string, fn func(*paper.Session) error) (*SessionState, error) {
	key := config.CacheKey.EditingSessionKey(id)

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		var state *SessionState

		err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
			rec, err := s.read(ctx, tx, viewer, id)
			if err != nil {
				return err
			}

			sess := paper.Restore(rec.Snapshot)
			if err := fn(sess); err != nil {
				return err
			}

			rec.Revision++
			rec.UpdatedAt = time.Now().UTC()
			rec.Snapshot = sess.Snapshot()
			data, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("encode session: %w", err)
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, data, s.ttl)
				return nil
			})
			if err != nil {
				return err
			}
			state = stateOf(id, *rec, sess)
			return nil
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			s.log.Debug().Str("session_id", id).Int("attempt", attempt).Msg("Session update raced, retrying")
			continue
		}
		if err != nil {
			return nil, err
		}

		s.touch(ctx, viewer, id)
		s.publish(ctx, SessionEvent{SessionID: id, Revision: state.Revision})
		return state, nil
	}

	s.log.Warn().Str("session_id", id).Msg("Session update gave up after repeated conflicts")
	return nil, ErrSessionConflict
}

// Toggle adds or removes a bank question from the selection.
func (s *SessionService) Toggle(ctx context.Context, viewer model.Viewer, id string, questionID int) (*SessionState, error) {
	return s.Update(ctx, viewer, id, func(sess *paper.Session) error {
		sess.Toggle(questionID)
		return nil
	})
}

// Remove drops a question from the selection.
func (s *SessionService) Remove(ctx context.Context, viewer model.Viewer, id string, questionID int) (*SessionState, error) {
	return s.Update(ctx, viewer, id, func(sess *paper.Session) error {
		sess.Remove(questionID)
		return nil
	})
}

// SetCriteria replaces the filter criteria.
func (s *SessionService) SetCriteria(ctx context.Context, viewer model.Viewer, id string, c model.FilterCriteria) (*SessionState, error) {
	return s.Update(ctx, viewer, id, func(sess *paper.Session) error {
		sess.SetCriteria(c)
		return nil
	})
}

// ResetCriteria clears the filter criteria.
func (s *SessionService) ResetCriteria(ctx context.Context, viewer model.Viewer, id string) (*SessionState, error) {
	return s.Update(ctx, viewer, id, func(sess *paper.Session) error {
		sess.ResetCriteria()
		return nil
	})
}

// SetMetadata replaces the exam metadata.
func (s *SessionService) SetMetadata(ctx context.Context, viewer model.Viewer, id string, m model.ExamMetadata) (*SessionState, error) {
	return s.Update(ctx, viewer, id, func(sess *paper.Session) error {
		sess.SetMetadata(m)
		return nil
	})
}

// Assemble builds the exam document of a session. It fails with
// paper.ErrNoQuestionsSelected while the selection is empty.
func (s *SessionService) Assemble(ctx context.Context, viewer model.Viewer, id string) (model.Document, error) {
	rec, err := s.read(ctx, s.rdb, viewer, id)
	if err != nil {
		return model.Document{}, err
	}

	doc, err := paper.Restore(rec.Snapshot).Assemble()
	if err != nil {
		return model.Document{}, err
	}
	s.touch(ctx, viewer, id)
	s.archive(ctx, viewer, id, rec, doc)

	s.log.Debug().
		Str("session_id", id).
		Int("questions", len(rec.Snapshot.Selected)).
		Int("blocks", len(doc.Blocks)).
		Msg("Exam document assembled")
	return doc, nil
}

// End discards a session.
func (s *SessionService) End(ctx context.Context, viewer model.Viewer, id string) error {
	rec, err := s.read(ctx, s.rdb, viewer, id)
	if err != nil {
		return err
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, config.CacheKey.EditingSessionKey(id))
		pipe.SRem(ctx, config.CacheKey.UserSessionsKey(viewer.UserID), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	s.publish(ctx, SessionEvent{SessionID: id, Revision: rec.Revision, Ended: true})
	s.log.Info().Str("session_id", id).Int("user_id", viewer.UserID).Msg("Editing session ended")
	return nil
}

// Subscribe listens on a session's events channel. The caller must close
// the returned PubSub.
func (s *SessionService) Subscribe(ctx context.Context, id string) *redis.PubSub {
	return s.rdb.Subscribe(ctx, config.CacheKey.SessionEventsChannel(id))
}

// ─── Internal helpers ────────────────────────────────────────────────

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// read loads a session record. Sessions owned by someone else are reported
// as missing.
func (s *SessionService) read(ctx context.Context, rdb stringGetter, viewer model.Viewer, id string) (*sessionRecord, error) {
	data, err := rdb.Get(ctx, config.CacheKey.EditingSessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if rec.OwnerID != viewer.UserID {
		return nil, ErrSessionNotFound
	}
	return &rec, nil
}

// touch extends the idle TTL of a session and its owner's index.
func (s *SessionService) touch(ctx context.Context, viewer model.Viewer, id string) {
	pipe := s.rdb.Pipeline()
	pipe.Expire(ctx, config.CacheKey.EditingSessionKey(id), s.ttl)
	pipe.Expire(ctx, config.CacheKey.UserSessionsKey(viewer.UserID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Str("session_id", id).Msg("Failed to extend session TTL")
	}
}

func (s *SessionService) publish(ctx context.Context, event SessionEvent) {
	payload, _ := json.Marshal(event)
	if err := s.rdb.Publish(ctx, config.CacheKey.SessionEventsChannel(event.SessionID), payload).Err(); err != nil {
		s.log.Warn().Err(err).Str("session_id", event.SessionID).Msg("Failed to publish session event")
	}
}

// archive queues the document for the paper history. Failures only log;
// the caller already has its document.
func (s *SessionService) archive(ctx context.Context, viewer model.Viewer, id string, rec *sessionRecord, doc model.Document) {
	body, err := json.Marshal(doc)
	if err != nil {
		s.log.Error().Err(err).Str("session_id", id).Msg("Failed to encode document for archive")
		return
	}

	questionIDs := make([]int, len(rec.Snapshot.Selected))
	for i, q := range rec.Snapshot.Selected {
		questionIDs[i] = q.ID
	}

	payload, _ := json.Marshal(model.GeneratedPaper{
		OwnerID:     viewer.UserID,
		SessionID:   id,
		Title:       rec.Snapshot.Metadata.Title,
		QuestionIDs: questionIDs,
		Document:    body,
		CreatedAt:   time.Now().UTC(),
	})
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistPapersQueue, payload).Err(); err != nil {
		s.log.Warn().Err(err).Str("session_id", id).Msg("Failed to queue paper for archive")
	}
}

func stateOf(id string, rec sessionRecord, sess *paper.Session) *SessionState {
	return &SessionState{
		ID:        id,
		Revision:  rec.Revision,
		UpdatedAt: rec.UpdatedAt,
		View:      sess.View(),
	}
}
