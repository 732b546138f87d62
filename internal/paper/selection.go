package paper

import (
	"slices"

	"github.com/stemsi/exstem-paper/internal/model"
)

// Lookup resolves question ids against the source collection.
type Lookup interface {
	Find(id int) (model.Question, bool)
}

// Selection is the ordered, duplicate-free set of questions chosen for an
// exam. Insertion order is exam order. The zero value is an empty selection.
type Selection struct {
	questions []model.Question
	index     map[int]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{index: make(map[int]struct{})}
}

// Toggle removes id when selected, otherwise appends the question found in
// source. Unknown ids are ignored. It reports whether id is selected
// afterwards.
func (s *Selection) Toggle(id int, source Lookup) bool {
	if s.Remove(id) {
		return false
	}
	q, ok := source.Find(id)
	if !ok {
		return false
	}
	s.add(q)
	return true
}

// Remove drops id from the selection, keeping the order of the rest.
// It reports whether anything was removed.
func (s *Selection) Remove(id int) bool {
	if !s.Contains(id) {
		return false
	}
	i := slices.IndexFunc(s.questions, func(q model.Question) bool { return q.ID == id })
	s.questions = slices.Delete(s.questions, i, i+1)
	delete(s.index, id)
	return true
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id int) bool {
	_, ok := s.index[id]
	return ok
}

// Len is the number of selected questions.
func (s *Selection) Len() int { return len(s.questions) }

// Questions returns a copy of the selection in exam order.
func (s *Selection) Questions() []model.Question {
	return slices.Clone(s.questions)
}

// IDs returns the selected ids in exam order.
func (s *Selection) IDs() []int {
	ids := make([]int, len(s.questions))
	for i, q := range s.questions {
		ids[i] = q.ID
	}
	return ids
}

func (s *Selection) add(q model.Question) {
	if s.Contains(q.ID) {
		return
	}
	if s.index == nil {
		s.index = make(map[int]struct{})
	}
	s.questions = append(s.questions, q)
	s.index[q.ID] = struct{}{}
}
