package paper

import (
	"strings"

	"github.com/stemsi/exstem-paper/internal/model"
)

// Visible returns the questions matching c, in their original order.
// The input slice is not modified.
func Visible(questions []model.Question, c model.FilterCriteria) []model.Question {
	term := normalizeTerm(c.Term)
	visible := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		if matches(q, term, c) {
			visible = append(visible, q)
		}
	}
	return visible
}

// Matches reports whether a single question passes c.
func Matches(q model.Question, c model.FilterCriteria) bool {
	return matches(q, normalizeTerm(c.Term), c)
}

func matches(q model.Question, term string, c model.FilterCriteria) bool {
	return matchesTerm(q, term) &&
		(c.Discipline == "" || q.Discipline == c.Discipline) &&
		(c.Difficulty == "" || q.Difficulty == c.Difficulty) &&
		(c.Type == "" || q.Type == c.Type) &&
		(c.Creator == "" || q.Creator == c.Creator)
}

// matchesTerm expects term already trimmed and lower-cased.
func matchesTerm(q model.Question, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(q.Statement), term) ||
		strings.Contains(strings.ToLower(q.Discipline), term) ||
		strings.Contains(strings.ToLower(q.Creator), term)
}

func normalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
