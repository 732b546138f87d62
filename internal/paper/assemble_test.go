package paper

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stemsi/exstem-paper/internal/model"
)

func fallbackHeader() []model.Block {
	return []model.Block{
		model.TitleBlock{Text: FallbackInstitution, Style: model.StyleHeader},
		model.TitleBlock{Text: FallbackCourse, Style: model.StyleSubheader},
		model.TwoColumnBlock{
			Left:  model.Column{Label: LabelDiscipline, Value: BlankLine},
			Right: model.Column{Label: LabelInstructor, Value: BlankLine},
		},
		model.TwoColumnBlock{
			Left:  model.Column{Label: LabelStudent, Value: BlankStudentLine},
			Right: model.Column{Label: LabelDate, Value: BlankDateLine},
		},
		model.TitleBlock{Text: FallbackTitle, Style: model.StyleTitle},
	}
}

func TestAssembleOpenEndedWithEmptyMetadata(t *testing.T) {
	q := model.Question{ID: 7, Statement: "Describe photosynthesis.", Content: model.OpenEnded{}}

	got := Assemble(model.ExamMetadata{}, []model.Question{q})

	want := append(fallbackHeader(),
		model.QuestionBlock{Index: 1, Statement: q.Statement, Text: "Question 1) Describe photosynthesis.", Style: model.StyleQuestionHeader},
		model.AnswerSpaceBlock{Lines: AnswerSpaceLines, Style: model.StyleQuestionBody},
	)
	if diff := cmp.Diff(want, got.Blocks); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleLettersOptions(t *testing.T) {
	q := model.Question{
		ID:        1,
		Statement: "Capital of France?",
		Content: model.Choices{Options: []model.Option{
			{Text: "Paris", Correct: true},
			{Text: "London"},
		}},
	}

	got := Assemble(model.ExamMetadata{}, []model.Question{q}).Blocks[6:]

	want := []model.Block{
		model.OptionBlock{Letter: "a", Text: "Paris", Style: model.StyleOption},
		model.OptionBlock{Letter: "b", Text: "London", Style: model.StyleOption},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("option blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleHeaderUsesMetadata(t *testing.T) {
	meta := model.ExamMetadata{
		Title:       "Midterm",
		Institution: "Federal University",
		Course:      "Engineering",
		Discipline:  "Calculus I",
		Instructor:  "Dr. Reis",
	}

	got := Assemble(meta, []model.Question{{ID: 1, Statement: "x"}}).Blocks[:5]

	want := []model.Block{
		model.TitleBlock{Text: "Federal University", Style: model.StyleHeader},
		model.TitleBlock{Text: "Engineering", Style: model.StyleSubheader},
		model.TwoColumnBlock{
			Left:  model.Column{Label: LabelDiscipline, Value: "Calculus I"},
			Right: model.Column{Label: LabelInstructor, Value: "Dr. Reis"},
		},
		model.TwoColumnBlock{
			Left:  model.Column{Label: LabelStudent, Value: BlankStudentLine},
			Right: model.Column{Label: LabelDate, Value: BlankDateLine},
		},
		model.TitleBlock{Text: "Midterm", Style: model.StyleTitle},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleNumbersInSelectionOrder(t *testing.T) {
	bank := sampleBank()
	selection := []model.Question{bank[3], bank[1], bank[0]}

	doc := Assemble(model.ExamMetadata{}, selection)

	var headers []string
	for _, b := range doc.Blocks {
		if qb, ok := b.(model.QuestionBlock); ok {
			headers = append(headers, qb.Text)
		}
	}
	want := []string{
		"Question 1) Which planet is closest to the sun?",
		"Question 2) Explain Newton's second law.",
		"Question 3) What is the derivative of x^2?",
	}
	if diff := cmp.Diff(want, headers); diff != "" {
		t.Fatalf("question headers mismatch (-want +got):\n%s", diff)
	}

	// 5 header + (1+3) + (1+1) + (1+2)
	if len(doc.Blocks) != 14 {
		t.Fatalf("expected 14 blocks, got %d", len(doc.Blocks))
	}
}

func TestAssembleKeepsEmptyOptionText(t *testing.T) {
	q := model.Question{ID: 1, Statement: "Pick", Content: model.Choices{Options: []model.Option{{Text: ""}, {Text: "B"}}}}

	blocks := Assemble(model.ExamMetadata{}, []model.Question{q}).Blocks

	if got := blocks[6].(model.OptionBlock); got.Letter != "a" || got.Text != "" {
		t.Fatalf("expected empty option passed through as a), got %+v", got)
	}
}

func TestAssembleEmptySelectionIsHeaderOnly(t *testing.T) {
	got := Assemble(model.ExamMetadata{}, nil)
	if diff := cmp.Diff(fallbackHeader(), got.Blocks); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleBlankMetadataFallsBack(t *testing.T) {
	got := Assemble(model.ExamMetadata{Institution: "   ", Title: "\t"}, nil).Blocks

	if tb := got[0].(model.TitleBlock); tb.Text != FallbackInstitution {
		t.Fatalf("expected institution fallback, got %q", tb.Text)
	}
	if tb := got[4].(model.TitleBlock); tb.Text != FallbackTitle {
		t.Fatalf("expected title fallback, got %q", tb.Text)
	}
}

func TestAssembleChoicesWithoutOptionsGetAnswerSpace(t *testing.T) {
	q := model.Question{ID: 1, Statement: "x", Content: model.Choices{}}

	blocks := Assemble(model.ExamMetadata{}, []model.Question{q}).Blocks

	if _, ok := blocks[6].(model.AnswerSpaceBlock); !ok || len(blocks) != 7 {
		t.Fatalf("expected a single answer space block, got %#v", blocks[6:])
	}
}

func TestAssembleDoesNotModifySelection(t *testing.T) {
	selection := sampleBank()
	before := sampleBank()

	Assemble(model.ExamMetadata{Title: "T"}, selection)

	if diff := cmp.Diff(before, selection); diff != "" {
		t.Fatalf("selection modified (-before +after):\n%s", diff)
	}
}

func TestOptionLabel(t *testing.T) {
	tests := []struct {
		i, total int
		want     string
	}{
		{0, 4, "a"},
		{2, 4, "c"},
		{25, 26, "z"},
		{0, 27, "1"},
		{26, 27, "27"},
	}
	for _, tt := range tests {
		if got := OptionLabel(tt.i, tt.total); got != tt.want {
			t.Errorf("OptionLabel(%d, %d) = %q, want %q", tt.i, tt.total, got, tt.want)
		}
	}
}

func TestDocumentJSONCarriesKinds(t *testing.T) {
	q := model.Question{ID: 1, Statement: "Capital?", Content: model.Choices{Options: []model.Option{{Text: "Paris"}}}}
	doc := Assemble(model.ExamMetadata{}, []model.Question{q})

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		Blocks []map[string]any `json:"blocks"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	var kinds []string
	for _, b := range decoded.Blocks {
		kinds = append(kinds, b["kind"].(string))
	}
	want := []string{"title", "title", "two_column", "two_column", "title", "question", "option"}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(string(data), `"letter":"a"`) {
		t.Fatalf("expected option letter in %s", data)
	}
}
