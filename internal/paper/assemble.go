package paper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stemsi/exstem-paper/internal/model"
)

// Header fallbacks used when metadata fields are blank.
const (
	FallbackInstitution = "Institution not provided"
	FallbackCourse      = "Course not provided"
	FallbackTitle       = "Assessment"

	BlankLine        = "___________________"
	BlankStudentLine = "___________________________________________________"
	BlankDateLine    = "___/___/_____"
)

// Header labels of the two-column rows.
const (
	LabelDiscipline = "Discipline:"
	LabelInstructor = "Instructor:"
	LabelStudent    = "Student:"
	LabelDate       = "Date:"
)

// AnswerSpaceLines is the number of blank lines left under an open-ended
// question.
const AnswerSpaceLines = 2

// letterLimit is the number of options that can be lettered a..z.
const letterLimit = 26

// Assemble turns metadata and an ordered selection into a Document. An
// empty selection yields a header-only document; callers that must refuse
// it use Session.Assemble.
func Assemble(meta model.ExamMetadata, selection []model.Question) model.Document {
	blocks := make([]model.Block, 0, 5+3*len(selection))
	blocks = append(blocks, header(meta)...)
	for i, q := range selection {
		n := i + 1
		blocks = append(blocks, model.QuestionBlock{
			Index:     n,
			Statement: q.Statement,
			Text:      fmt.Sprintf("Question %d) %s", n, q.Statement),
			Style:     model.StyleQuestionHeader,
		})
		blocks = append(blocks, body(q)...)
	}
	return model.Document{Blocks: blocks}
}

func header(meta model.ExamMetadata) []model.Block {
	return []model.Block{
		model.TitleBlock{Text: orElse(meta.Institution, FallbackInstitution), Style: model.StyleHeader},
		model.TitleBlock{Text: orElse(meta.Course, FallbackCourse), Style: model.StyleSubheader},
		model.TwoColumnBlock{
			Left:  model.Column{Label: LabelDiscipline, Value: orElse(meta.Discipline, BlankLine)},
			Right: model.Column{Label: LabelInstructor, Value: orElse(meta.Instructor, BlankLine)},
		},
		model.TwoColumnBlock{
			Left:  model.Column{Label: LabelStudent, Value: BlankStudentLine},
			Right: model.Column{Label: LabelDate, Value: BlankDateLine},
		},
		model.TitleBlock{Text: orElse(meta.Title, FallbackTitle), Style: model.StyleTitle},
	}
}

func body(q model.Question) []model.Block {
	switch c := q.Content.(type) {
	case model.Choices:
		if len(c.Options) > 0 {
			return options(c.Options)
		}
	case model.OpenEnded, nil:
	}
	return []model.Block{model.AnswerSpaceBlock{Lines: AnswerSpaceLines, Style: model.StyleQuestionBody}}
}

func options(opts []model.Option) []model.Block {
	blocks := make([]model.Block, len(opts))
	for i, opt := range opts {
		blocks[i] = model.OptionBlock{
			Letter: OptionLabel(i, len(opts)),
			Text:   opt.Text,
			Style:  model.StyleOption,
		}
	}
	return blocks
}

// OptionLabel labels the option at zero-based index i of a question with
// total options: a, b, c, ... up to z. Questions with more than 26 options
// are numbered 1, 2, 3, ... throughout instead.
func OptionLabel(i, total int) string {
	if total > letterLimit {
		return strconv.Itoa(i + 1)
	}
	return string(rune('a' + i))
}

func orElse(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
