package paper

import "github.com/stemsi/exstem-paper/internal/model"

func sampleBank() []model.Question {
	return []model.Question{
		{
			ID:         1,
			Statement:  "What is the derivative of x^2?",
			Discipline: "Math",
			Difficulty: model.DifficultyEasy,
			Type:       "multiple-choice",
			Creator:    "Alice Souza",
			Content: model.Choices{Options: []model.Option{
				{Text: "2x", Correct: true},
				{Text: "x"},
			}},
		},
		{
			ID:         2,
			Statement:  "Explain Newton's second law.",
			Discipline: "Physics",
			Difficulty: model.DifficultyMedium,
			Type:       "essay",
			Creator:    "Bruno Lima",
			Content:    model.OpenEnded{},
		},
		{
			ID:         3,
			Statement:  "Integrate sin(x).",
			Discipline: "Math",
			Difficulty: model.DifficultyHard,
			Type:       "essay",
			Creator:    "Bruno Lima",
			Content:    model.OpenEnded{},
		},
		{
			ID:         4,
			Statement:  "Which planet is closest to the sun?",
			Discipline: "Physics",
			Difficulty: model.DifficultyEasy,
			Type:       "multiple-choice",
			Creator:    "Alice Souza",
			Content: model.Choices{Options: []model.Option{
				{Text: "Mercury", Correct: true},
				{Text: "Venus"},
				{Text: "Mars"},
			}},
		},
	}
}

func ids(questions []model.Question) []int {
	out := make([]int, len(questions))
	for i, q := range questions {
		out[i] = q.ID
	}
	return out
}

// stubLookup resolves ids against a fixed slice.
type stubLookup []model.Question

func (s stubLookup) Find(id int) (model.Question, bool) {
	for _, q := range s {
		if q.ID == id {
			return q, true
		}
	}
	return model.Question{}, false
}
