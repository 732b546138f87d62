package seed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stemsi/exstem-paper/internal/model"
)

const sample = `
disciplines:
  - Math
questions:
  - statement: "  What is 2+2? "
    discipline: Math
    difficulty: easy
    type: multiple_choice
    creator_email: alice@example.com
    options:
      - text: "3"
      - text: "4"
        correct: true
  - statement: Explain inertia.
    discipline: Physics
    difficulty: MEDIUM
    type: essay
`

func TestParse(t *testing.T) {
	bank, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if diff := cmp.Diff([]string{"Math", "Physics"}, bank.Disciplines); diff != "" {
		t.Fatalf("disciplines mismatch (-want +got):\n%s", diff)
	}
	if len(bank.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(bank.Questions))
	}

	first := bank.Questions[0]
	if first.Statement != "What is 2+2?" || first.Difficulty != "EASY" {
		t.Fatalf("expected normalized entry, got %+v", first)
	}

	q := first.Question()
	choices, ok := q.Content.(model.Choices)
	if !ok || len(choices.Options) != 2 || !choices.Options[1].Correct {
		t.Fatalf("expected two choices with the second correct, got %#v", q.Content)
	}
	if _, ok := bank.Questions[1].Question().Content.(model.OpenEnded); !ok {
		t.Fatalf("expected question without options to be open-ended")
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{name: "empty", yaml: "", want: "empty document"},
		{name: "missing statement", yaml: "questions:\n  - type: essay\n", want: "statement is required"},
		{name: "duplicate", yaml: "questions:\n  - statement: A\n  - statement: A\n", want: "duplicate of question 1"},
		{name: "difficulty", yaml: "questions:\n  - statement: A\n    difficulty: brutal\n", want: "unknown difficulty"},
		{name: "blank option", yaml: "questions:\n  - statement: A\n    options:\n      - text: ' '\n", want: "option 1 has no text"},
		{name: "unknown field", yaml: "questions:\n  - statement: A\n    answer: b\n", want: "parse yaml"},
		{name: "multiple documents", yaml: "questions: []\n---\nquestions: []\n", want: "multiple documents"},
		{name: "second document with entries", yaml: "questions:\n  - statement: A\n---\ndisciplines:\n  - Math\n", want: "multiple documents"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	bank, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(bank.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(bank.Questions))
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
