package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-paper/internal/config"
	"github.com/stemsi/exstem-paper/internal/model"
	"github.com/stemsi/exstem-paper/internal/paper"
)

type stubSource struct {
	questions []model.Question
	err       error
}

func (s stubSource) ListQuestions(ctx context.Context) ([]model.Question, error) {
	return s.questions, s.err
}

func (s stubSource) ListDisciplines(ctx context.Context, viewer model.Viewer) ([]model.Discipline, error) {
	return []model.Discipline{{ID: 1, Name: "Math"}}, nil
}

var (
	alice = model.Viewer{UserID: 1, Role: model.RoleInstructor}
	bruno = model.Viewer{UserID: 2, Role: model.RoleInstructor}
)

func bank() []model.Question {
	return []model.Question{
		{
			ID: 1, Statement: "2+2?", Discipline: "Math", Difficulty: model.DifficultyEasy, Type: "multiple_choice", Creator: "Alice",
			Content: model.Choices{Options: []model.Option{{Text: "3"}, {Text: "4", Correct: true}}},
		},
		{ID: 2, Statement: "Explain inertia.", Discipline: "Physics", Difficulty: model.DifficultyMedium, Type: "essay", Creator: "Bruno", Content: model.OpenEnded{}},
		{ID: 3, Statement: "Prove Fermat.", Discipline: "Math", Difficulty: model.DifficultyHard, Type: "essay", Creator: "Bruno", Content: model.OpenEnded{}},
	}
}

func newTestSessionService(t *testing.T, src paper.Source) (*SessionService, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := &config.Config{SessionTTL: 30 * time.Minute}
	return NewSessionService(src, rdb, cfg, zerolog.Nop()), mr, rdb
}

func selectedIDs(v paper.View) []int {
	ids := make([]int, len(v.Selection))
	for i, sq := range v.Selection {
		ids[i] = sq.Question.ID
	}
	return ids
}

func TestSessionServiceStartAndGet(t *testing.T) {
	svc, mr, _ := newTestSessionService(t, stubSource{questions: bank()})
	ctx := context.Background()

	state, err := svc.Start(ctx, alice)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if state.View.Status != paper.StatusReady || state.View.VisibleCount != 3 {
		t.Fatalf("unexpected initial view: status=%s visible=%d", state.View.Status, state.View.VisibleCount)
	}
	if state.Revision != 1 {
		t.Fatalf("expected revision 1, got %d", state.Revision)
	}
	if ttl := mr.TTL(config.CacheKey.EditingSessionKey(state.ID)); ttl != 30*time.Minute {
		t.Fatalf("expected 30m TTL, got %s", ttl)
	}

	got, err := svc.Get(ctx, alice, state.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff(state.View, got.View); diff != "" {
		t.Fatalf("view changed across round trip (-want +got):\n%s", diff)
	}

	if _, err := svc.Get(ctx, bruno, state.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected other users to get ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.Get(ctx, alice, "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionServiceStartWithFailedLoad(t *testing.T) {
	svc, _, _ := newTestSessionService(t, stubSource{err: errors.New("db down")})

	state, err := svc.Start(context.Background(), alice)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if state.View.Status != paper.StatusFailed {
		t.Fatalf("expected failed status, got %s", state.View.Status)
	}
	if state.View.VisibleCount != 0 || len(state.View.Disciplines) != 0 {
		t.Fatalf("expected an empty repository after a failed load")
	}
}

func TestSessionServiceSelectionFlow(t *testing.T) {
	svc, mr, _ := newTestSessionService(t, stubSource{questions: bank()})
	ctx := context.Background()

	state, err := svc.Start(ctx, alice)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	id := state.ID

	if _, err := svc.Assemble(ctx, alice, id); !errors.Is(err, paper.ErrNoQuestionsSelected) {
		t.Fatalf("expected ErrNoQuestionsSelected, got %v", err)
	}

	for _, qid := range []int{3, 1, 2} {
		if state, err = svc.Toggle(ctx, alice, id, qid); err != nil {
			t.Fatalf("toggle %d: %v", qid, err)
		}
	}
	if diff := cmp.Diff([]int{3, 1, 2}, selectedIDs(state.View)); diff != "" {
		t.Fatalf("selection order mismatch (-want +got):\n%s", diff)
	}

	if state, err = svc.Remove(ctx, alice, id, 1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if state, err = svc.Toggle(ctx, alice, id, 99); err != nil {
		t.Fatalf("toggle unknown: %v", err)
	}
	if diff := cmp.Diff([]int{3, 2}, selectedIDs(state.View)); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}
	if state.Revision != 6 {
		t.Fatalf("expected revision 6 after five updates, got %d", state.Revision)
	}

	if _, err := svc.SetMetadata(ctx, alice, id, model.ExamMetadata{Title: "Midterm", Institution: "Stemsi"}); err != nil {
		t.Fatalf("set metadata: %v", err)
	}
	doc, err := svc.Assemble(ctx, alice, id)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	title, ok := doc.Blocks[0].(model.TitleBlock)
	if !ok || title.Text != "Stemsi" {
		t.Fatalf("expected institution header first, got %#v", doc.Blocks[0])
	}

	queued, err := mr.List(config.WorkerKey.PersistPapersQueue)
	if err != nil || len(queued) != 1 {
		t.Fatalf("expected one archived paper queued, got %d (%v)", len(queued), err)
	}
	var archived model.GeneratedPaper
	if err := json.Unmarshal([]byte(queued[0]), &archived); err != nil {
		t.Fatalf("decode archived paper: %v", err)
	}
	if archived.OwnerID != alice.UserID || archived.Title != "Midterm" {
		t.Fatalf("unexpected archived paper %+v", archived)
	}
	if diff := cmp.Diff([]int{3, 2}, archived.QuestionIDs); diff != "" {
		t.Fatalf("archived question ids mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionServiceCriteria(t *testing.T) {
	svc, _, _ := newTestSessionService(t, stubSource{questions: bank()})
	ctx := context.Background()

	state, _ := svc.Start(ctx, alice)
	state, err := svc.SetCriteria(ctx, alice, state.ID, model.FilterCriteria{Discipline: "Math", Term: "PROVE"})
	if err != nil {
		t.Fatalf("set criteria: %v", err)
	}
	if state.View.VisibleCount != 1 || state.View.Visible[0].Question.ID != 3 {
		t.Fatalf("expected only question 3 visible, got %+v", state.View.Visible)
	}

	state, err = svc.ResetCriteria(ctx, alice, state.ID)
	if err != nil {
		t.Fatalf("reset criteria: %v", err)
	}
	if state.View.VisibleCount != 3 || state.View.Criteria != (model.FilterCriteria{}) {
		t.Fatalf("expected criteria cleared, got %+v", state.View.Criteria)
	}
}

func TestSessionServiceUpdateAbortsOnError(t *testing.T) {
	svc, _, _ := newTestSessionService(t, stubSource{questions: bank()})
	ctx := context.Background()
	state, _ := svc.Start(ctx, alice)

	boom := errors.New("boom")
	_, err := svc.Update(ctx, alice, state.ID, func(sess *paper.Session) error {
		sess.Toggle(1)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}

	got, _ := svc.Get(ctx, alice, state.ID)
	if got.Revision != 1 || got.View.SelectionCount != 0 {
		t.Fatalf("expected untouched session, got revision=%d selected=%d", got.Revision, got.View.SelectionCount)
	}
}

func TestSessionServiceUpdateRetriesOnConflict(t *testing.T) {
	svc, _, rdb := newTestSessionService(t, stubSource{questions: bank()})
	ctx := context.Background()
	state, _ := svc.Start(ctx, alice)
	key := config.CacheKey.EditingSessionKey(state.ID)

	// interfere rewrites the watched key, forcing EXEC to abort.
	interfere := func() {
		raw, err := rdb.Get(ctx, key).Result()
		if err != nil {
			t.Fatalf("raw get: %v", err)
		}
		rdb.Set(ctx, key, raw, time.Minute)
	}

	calls := 0
	state, err := svc.Update(ctx, alice, state.ID, func(sess *paper.Session) error {
		calls++
		if calls == 1 {
			interfere()
		}
		sess.Toggle(2)
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected one retry, got %d calls", calls)
	}
	if diff := cmp.Diff([]int{2}, selectedIDs(state.View)); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}

	_, err = svc.Update(ctx, alice, state.ID, func(sess *paper.Session) error {
		interfere()
		return nil
	})
	if !errors.Is(err, ErrSessionConflict) {
		t.Fatalf("expected ErrSessionConflict, got %v", err)
	}
}

func TestSessionServiceListAndEnd(t *testing.T) {
	svc, mr, _ := newTestSessionService(t, stubSource{questions: bank()})
	ctx := context.Background()

	first, _ := svc.Start(ctx, alice)
	second, _ := svc.Start(ctx, alice)
	third, _ := svc.Start(ctx, alice)
	if _, err := svc.Start(ctx, bruno); err != nil {
		t.Fatalf("start: %v", err)
	}

	mr.FastForward(time.Second)
	if _, err := svc.SetMetadata(ctx, alice, first.ID, model.ExamMetadata{Title: "Final"}); err != nil {
		t.Fatalf("set metadata: %v", err)
	}
	mr.Del(config.CacheKey.EditingSessionKey(third.ID))

	list, err := svc.List(ctx, alice)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 live sessions, got %d", len(list))
	}
	if list[0].ID != first.ID || list[0].Title != "Final" {
		t.Fatalf("expected most recently changed session first, got %+v", list[0])
	}
	if ok, _ := mr.SIsMember(config.CacheKey.UserSessionsKey(alice.UserID), third.ID); ok {
		t.Fatalf("expected expired session pruned from index")
	}

	if err := svc.End(ctx, bruno, second.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected other users unable to end the session, got %v", err)
	}
	if err := svc.End(ctx, alice, second.ID); err != nil {
		t.Fatalf("end: %v", err)
	}
	if _, err := svc.Get(ctx, alice, second.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ended session gone, got %v", err)
	}
}

func TestSessionServiceExpires(t *testing.T) {
	svc, mr, _ := newTestSessionService(t, stubSource{questions: bank()})
	ctx := context.Background()
	state, _ := svc.Start(ctx, alice)

	mr.FastForward(20 * time.Minute)
	if _, err := svc.Get(ctx, alice, state.ID); err != nil {
		t.Fatalf("expected session alive, got %v", err)
	}
	mr.FastForward(20 * time.Minute)
	if _, err := svc.Get(ctx, alice, state.ID); err != nil {
		t.Fatalf("expected Get to have extended the TTL, got %v", err)
	}
	mr.FastForward(31 * time.Minute)
	if _, err := svc.Get(ctx, alice, state.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected idle session expired, got %v", err)
	}
}

func TestSessionServicePublishesEvents(t *testing.T) {
	svc, _, _ := newTestSessionService(t, stubSource{questions: bank()})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	state, _ := svc.Start(ctx, alice)
	pubsub := svc.Subscribe(ctx, state.ID)
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if _, err := svc.Toggle(ctx, alice, state.ID, 1); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := svc.End(ctx, alice, state.ID); err != nil {
		t.Fatalf("end: %v", err)
	}

	var got []SessionEvent
	for range 2 {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			t.Fatalf("receive: %v", err)
		}
		var ev SessionEvent
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		got = append(got, ev)
	}

	want := []SessionEvent{
		{SessionID: state.ID, Revision: 2},
		{SessionID: state.ID, Revision: 2, Ended: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}
