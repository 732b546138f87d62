package paper

import "github.com/stemsi/exstem-paper/internal/model"

// Facets holds the values offered by the categorical filter selectors.
type Facets struct {
	Creators     []string           `json:"creators"`
	Types        []string           `json:"types"`
	Difficulties []model.Difficulty `json:"difficulties"`
}

// FacetsOf derives all facets of questions.
func FacetsOf(questions []model.Question) Facets {
	return Facets{
		Creators:     Creators(questions),
		Types:        Types(questions),
		Difficulties: Difficulties(questions),
	}
}

// Creators returns the distinct non-empty creator names in order of first
// appearance.
func Creators(questions []model.Question) []string {
	return distinct(questions, func(q model.Question) string { return q.Creator })
}

// Types returns the distinct non-empty type labels in order of first
// appearance.
func Types(questions []model.Question) []string {
	return distinct(questions, func(q model.Question) string { return q.Type })
}

// Difficulties returns the distinct non-empty difficulties in order of first
// appearance.
func Difficulties(questions []model.Question) []model.Difficulty {
	return distinct(questions, func(q model.Question) model.Difficulty { return q.Difficulty })
}

func distinct[T comparable](questions []model.Question, key func(model.Question) T) []T {
	var zero T
	seen := make(map[T]struct{})
	values := make([]T, 0)
	for _, q := range questions {
		v := key(q)
		if v == zero {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}
