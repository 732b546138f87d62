package model

import (
	"encoding/json"
)

// Difficulty grades how hard a question is.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Valid reports whether d is one of the known difficulty levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Option is a single answer choice of a multiple-choice question.
type Option struct {
	Text    string `json:"text" yaml:"text"`
	Correct bool   `json:"correct" yaml:"correct"`
}

// Content is the body of a question: either Choices or OpenEnded.
type Content interface {
	isContent()
}

// Choices holds the ordered options of a multiple-choice question.
type Choices struct {
	Options []Option
}

// OpenEnded marks a question answered in writing.
type OpenEnded struct{}

func (Choices) isContent()   {}
func (OpenEnded) isContent() {}

// ContentFromOptions returns Choices when opts has at least one entry and
// OpenEnded otherwise.
func ContentFromOptions(opts []Option) Content {
	if len(opts) == 0 {
		return OpenEnded{}
	}
	return Choices{Options: opts}
}

// Question represents a single authored question of the bank.
type Question struct {
	ID         int        `json:"id"`
	Statement  string     `json:"statement"`
	Discipline string     `json:"discipline"`
	Difficulty Difficulty `json:"difficulty"`
	Type       string     `json:"type"`
	Creator    string     `json:"creator"`
	Content    Content    `json:"-"`
}

// Options returns the question's choices, or nil for open-ended questions.
func (q Question) Options() []Option {
	if c, ok := q.Content.(Choices); ok {
		return c.Options
	}
	return nil
}

// questionJSON is the wire shape: a flat options array, absent when open-ended.
type questionJSON struct {
	ID         int        `json:"id"`
	Statement  string     `json:"statement"`
	Discipline string     `json:"discipline"`
	Difficulty Difficulty `json:"difficulty"`
	Type       string     `json:"type"`
	Creator    string     `json:"creator"`
	Options    []Option   `json:"options,omitempty"`
}

func (q Question) MarshalJSON() ([]byte, error) {
	return json.Marshal(questionJSON{
		ID:         q.ID,
		Statement:  q.Statement,
		Discipline: q.Discipline,
		Difficulty: q.Difficulty,
		Type:       q.Type,
		Creator:    q.Creator,
		Options:    q.Options(),
	})
}

func (q *Question) UnmarshalJSON(data []byte) error {
	var w questionJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*q = Question{
		ID:         w.ID,
		Statement:  w.Statement,
		Discipline: w.Discipline,
		Difficulty: w.Difficulty,
		Type:       w.Type,
		Creator:    w.Creator,
		Content:    ContentFromOptions(w.Options),
	}
	return nil
}
