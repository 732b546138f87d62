package paper

import "github.com/stemsi/exstem-paper/internal/model"

// View is what the exam builder screen shows for a session.
type View struct {
	Status         Status               `json:"status"`
	Visible        []VisibleQuestion    `json:"visible"`
	VisibleCount   int                  `json:"visible_count"`
	Facets         Facets               `json:"facets"`
	Disciplines    []model.Discipline   `json:"disciplines"`
	Criteria       model.FilterCriteria `json:"criteria"`
	Selection      []SelectedQuestion   `json:"selection"`
	SelectionCount int                  `json:"selection_count"`
	Metadata       model.ExamMetadata   `json:"metadata"`
}

// VisibleQuestion is a bank question passing the filter.
type VisibleQuestion struct {
	Question model.Question `json:"question"`
	Selected bool           `json:"selected"`
}

// SelectedQuestion is a selected question with its 1-based exam position.
type SelectedQuestion struct {
	Position int            `json:"position"`
	Question model.Question `json:"question"`
}

// View derives the screen state from the session.
func (s *Session) View() View {
	visible := s.Visible()
	vq := make([]VisibleQuestion, len(visible))
	for i, q := range visible {
		vq[i] = VisibleQuestion{Question: q, Selected: s.selection.Contains(q.ID)}
	}

	selected := s.selection.Questions()
	sq := make([]SelectedQuestion, len(selected))
	for i, q := range selected {
		sq[i] = SelectedQuestion{Position: i + 1, Question: q}
	}

	disciplines := s.repo.Disciplines()
	if disciplines == nil {
		disciplines = []model.Discipline{}
	}

	return View{
		Status:         s.repo.Status(),
		Visible:        vq,
		VisibleCount:   len(vq),
		Facets:         s.repo.Facets(),
		Disciplines:    disciplines,
		Criteria:       s.criteria,
		Selection:      sq,
		SelectionCount: len(sq),
		Metadata:       s.metadata,
	}
}
