// Package paper is the question-selection and document-assembly engine:
// it filters a question bank, keeps the ordered selection of an exam and
// assembles that selection into a Document.
package paper

import "errors"

var (
	// ErrNoQuestionsSelected is returned when a document is requested for an
	// empty selection.
	ErrNoQuestionsSelected = errors.New("no questions selected")

	// ErrRepositoryUnavailable wraps a failed question or discipline fetch.
	ErrRepositoryUnavailable = errors.New("question repository unavailable")

	// ErrAlreadyLoaded is returned by Session.Load once the repository has
	// left the pending state.
	ErrAlreadyLoaded = errors.New("repository already loaded")
)
