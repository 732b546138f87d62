package paper

import "github.com/stemsi/exstem-paper/internal/model"

// Status is the load state of a Repository.
type Status string

const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Repository is the read-only view over the fetched question bank and
// discipline list of one session.
type Repository struct {
	status      Status
	questions   []model.Question
	disciplines []model.Discipline
	index       map[int]int
}

// NewRepository returns a ready repository over the given collections.
// When ids repeat, Find resolves to the first occurrence.
func NewRepository(questions []model.Question, disciplines []model.Discipline) *Repository {
	index := make(map[int]int, len(questions))
	for i, q := range questions {
		if _, dup := index[q.ID]; !dup {
			index[q.ID] = i
		}
	}
	return &Repository{
		status:      StatusReady,
		questions:   questions,
		disciplines: disciplines,
		index:       index,
	}
}

func emptyRepository(status Status) *Repository {
	return &Repository{status: status, index: map[int]int{}}
}

// Status returns the load state.
func (r *Repository) Status() Status { return r.status }

// Questions returns the full, unfiltered question bank. Callers must treat
// the slice as read-only.
func (r *Repository) Questions() []model.Question { return r.questions }

// Disciplines returns the discipline list visible to the session owner.
func (r *Repository) Disciplines() []model.Discipline { return r.disciplines }

// Find looks a question up by id.
func (r *Repository) Find(id int) (model.Question, bool) {
	i, ok := r.index[id]
	if !ok {
		return model.Question{}, false
	}
	return r.questions[i], true
}

// Facets derives the selector values from the full bank.
func (r *Repository) Facets() Facets {
	return FacetsOf(r.questions)
}
