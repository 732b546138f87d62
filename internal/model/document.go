package model

import "encoding/json"

// BlockKind discriminates the blocks of a Document on the wire.
type BlockKind string

const (
	BlockTitle       BlockKind = "title"
	BlockTwoColumn   BlockKind = "two_column"
	BlockQuestion    BlockKind = "question"
	BlockOption      BlockKind = "option"
	BlockAnswerSpace BlockKind = "answer_space"
)

// Style is a named style tag. Its visual meaning belongs to the renderer.
type Style string

const (
	StyleHeader         Style = "header"
	StyleSubheader      Style = "subheader"
	StyleTitle          Style = "title"
	StyleQuestionHeader Style = "questionHeader"
	StyleQuestionBody   Style = "questionBody"
	StyleOption         Style = "option"
)

// Block is one atomic unit of a Document.
type Block interface {
	Kind() BlockKind
}

// Document is the renderer-agnostic structure of an assembled exam paper.
type Document struct {
	Blocks []Block `json:"blocks"`
}

// TitleBlock is a single centred line of text.
type TitleBlock struct {
	Text  string `json:"text"`
	Style Style  `json:"style"`
}

// Column is one labelled value of a TwoColumnBlock.
type Column struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// TwoColumnBlock is a row with a left and a right labelled value.
type TwoColumnBlock struct {
	Left  Column `json:"left"`
	Right Column `json:"right"`
}

// QuestionBlock opens a numbered question.
type QuestionBlock struct {
	Index     int    `json:"index"`
	Statement string `json:"statement"`
	Text      string `json:"text"`
	Style     Style  `json:"style"`
}

// OptionBlock is one labelled answer choice.
type OptionBlock struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
	Style  Style  `json:"style"`
}

// AnswerSpaceBlock reserves blank lines for a written answer.
type AnswerSpaceBlock struct {
	Lines int   `json:"lines"`
	Style Style `json:"style"`
}

func (TitleBlock) Kind() BlockKind       { return BlockTitle }
func (TwoColumnBlock) Kind() BlockKind   { return BlockTwoColumn }
func (QuestionBlock) Kind() BlockKind    { return BlockQuestion }
func (OptionBlock) Kind() BlockKind      { return BlockOption }
func (AnswerSpaceBlock) Kind() BlockKind { return BlockAnswerSpace }

// Each block carries its kind on the wire so renderers can dispatch on it.

func (b TitleBlock) MarshalJSON() ([]byte, error) {
	type plain TitleBlock
	return json.Marshal(struct {
		Kind BlockKind `json:"kind"`
		plain
	}{b.Kind(), plain(b)})
}

func (b TwoColumnBlock) MarshalJSON() ([]byte, error) {
	type plain TwoColumnBlock
	return json.Marshal(struct {
		Kind BlockKind `json:"kind"`
		plain
	}{b.Kind(), plain(b)})
}

func (b QuestionBlock) MarshalJSON() ([]byte, error) {
	type plain QuestionBlock
	return json.Marshal(struct {
		Kind BlockKind `json:"kind"`
		plain
	}{b.Kind(), plain(b)})
}

func (b OptionBlock) MarshalJSON() ([]byte, error) {
	type plain OptionBlock
	return json.Marshal(struct {
		Kind BlockKind `json:"kind"`
		plain
	}{b.Kind(), plain(b)})
}

func (b AnswerSpaceBlock) MarshalJSON() ([]byte, error) {
	type plain AnswerSpaceBlock
	return json.Marshal(struct {
		Kind BlockKind `json:"kind"`
		plain
	}{b.Kind(), plain(b)})
}
