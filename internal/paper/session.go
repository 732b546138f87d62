package paper

import (
	"context"
	"fmt"

	"github.com/stemsi/exstem-paper/internal/model"
	"golang.org/x/sync/errgroup"
)

// Source fetches the collections a session browses.
type Source interface {
	ListQuestions(ctx context.Context) ([]model.Question, error)
	ListDisciplines(ctx context.Context, viewer model.Viewer) ([]model.Discipline, error)
}

// Session is the state of one exam being edited: the repository view, the
// filter criteria, the selection and the metadata. A Session has a single
// writer and is not safe for concurrent use.
type Session struct {
	repo      *Repository
	criteria  model.FilterCriteria
	selection *Selection
	metadata  model.ExamMetadata
}

// NewSession returns a session with a pending, empty repository.
func NewSession() *Session {
	return &Session{
		repo:      emptyRepository(StatusPending),
		selection: NewSelection(),
	}
}

// Load fetches questions and disciplines concurrently and waits for both.
// If either fetch fails the repository stays empty and moves to the
// terminal failed state; there is no retry.
func (s *Session) Load(ctx context.Context, src Source, viewer model.Viewer) error {
	if s.repo.Status() != StatusPending {
		return ErrAlreadyLoaded
	}

	var (
		questions   []model.Question
		disciplines []model.Discipline
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		qs, err := src.ListQuestions(gctx)
		if err != nil {
			return fmt.Errorf("list questions: %w", err)
		}
		questions = qs
		return nil
	})
	g.Go(func() error {
		ds, err := src.ListDisciplines(gctx, viewer)
		if err != nil {
			return fmt.Errorf("list disciplines: %w", err)
		}
		disciplines = ds
		return nil
	})

	if err := g.Wait(); err != nil {
		s.repo = emptyRepository(StatusFailed)
		return fmt.Errorf("%w: %w", ErrRepositoryUnavailable, err)
	}

	s.repo = NewRepository(questions, disciplines)
	return nil
}

// Repository returns the session's repository view.
func (s *Session) Repository() *Repository { return s.repo }

// Criteria returns the current filter criteria.
func (s *Session) Criteria() model.FilterCriteria { return s.criteria }

// SetCriteria replaces the filter criteria.
func (s *Session) SetCriteria(c model.FilterCriteria) { s.criteria = c }

// ResetCriteria clears the search term and every selector.
func (s *Session) ResetCriteria() { s.criteria = model.FilterCriteria{} }

// Visible applies the current criteria to the full bank.
func (s *Session) Visible() []model.Question {
	return Visible(s.repo.Questions(), s.criteria)
}

// Toggle adds or removes a question of the bank. See Selection.Toggle.
func (s *Session) Toggle(id int) bool { return s.selection.Toggle(id, s.repo) }

// Remove drops a question from the selection. See Selection.Remove.
func (s *Session) Remove(id int) bool { return s.selection.Remove(id) }

// Selection returns the selection set.
func (s *Session) Selection() *Selection { return s.selection }

// Metadata returns the exam metadata.
func (s *Session) Metadata() model.ExamMetadata { return s.metadata }

// SetMetadata replaces the exam metadata.
func (s *Session) SetMetadata(m model.ExamMetadata) { s.metadata = m }

// Assemble builds the exam document, refusing an empty selection.
func (s *Session) Assemble() (model.Document, error) {
	if s.selection.Len() == 0 {
		return model.Document{}, ErrNoQuestionsSelected
	}
	return Assemble(s.metadata, s.selection.Questions()), nil
}
