package paper

import "github.com/stemsi/exstem-paper/internal/model"

// Snapshot is the serialisable state of a Session.
type Snapshot struct {
	Status      Status               `json:"status"`
	Questions   []model.Question     `json:"questions"`
	Disciplines []model.Discipline   `json:"disciplines"`
	Criteria    model.FilterCriteria `json:"criteria"`
	Selected    []model.Question     `json:"selected"`
	Metadata    model.ExamMetadata   `json:"metadata"`
}

// Snapshot captures the session state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Status:      s.repo.Status(),
		Questions:   s.repo.Questions(),
		Disciplines: s.repo.Disciplines(),
		Criteria:    s.criteria,
		Selected:    s.selection.Questions(),
		Metadata:    s.metadata,
	}
}

// Restore rebuilds a Session from a snapshot. Selected questions keep their
// order; repeated ids are dropped.
func Restore(snap Snapshot) *Session {
	var repo *Repository
	switch snap.Status {
	case StatusReady:
		repo = NewRepository(snap.Questions, snap.Disciplines)
	case StatusFailed:
		repo = emptyRepository(StatusFailed)
	default:
		repo = emptyRepository(StatusPending)
	}

	selection := NewSelection()
	for _, q := range snap.Selected {
		selection.add(q)
	}

	return &Session{
		repo:      repo,
		criteria:  snap.Criteria,
		selection: selection,
		metadata:  snap.Metadata,
	}
}
