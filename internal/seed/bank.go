// Package seed loads question bank fixtures from YAML files.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/stemsi/exstem-paper/internal/model"
	"gopkg.in/yaml.v3"
)

// Bank is the content of a seed file.
type Bank struct {
	Disciplines []string `yaml:"disciplines"`
	Questions   []Entry  `yaml:"questions"`
}

// Entry is one question of a seed file. Discipline and CreatorEmail refer
// to rows resolved at import time.
type Entry struct {
	Statement    string         `yaml:"statement"`
	Discipline   string         `yaml:"discipline"`
	Difficulty   string         `yaml:"difficulty"`
	Type         string         `yaml:"type"`
	CreatorEmail string         `yaml:"creator_email"`
	Options      []model.Option `yaml:"options"`
}

// Question converts the entry into a bank question. Names are left empty;
// the repository resolves them from the referenced rows.
func (e Entry) Question() model.Question {
	return model.Question{
		Statement:  e.Statement,
		Difficulty: model.Difficulty(e.Difficulty),
		Type:       e.Type,
		Content:    model.ContentFromOptions(e.Options),
	}
}

// LoadFile reads and validates a seed file.
func LoadFile(path string) (Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bank{}, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a single YAML document and normalizes it.
func Parse(data []byte) (Bank, error) {
	var bank Bank
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&bank); err != nil {
		if errors.Is(err, io.EOF) {
			return Bank{}, fmt.Errorf("parse yaml: empty document")
		}
		return Bank{}, fmt.Errorf("parse yaml: %w", err)
	}
	// A node accepts any trailing document, so KnownFields cannot mask it.
	var extra yaml.Node
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			return Bank{}, fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return Bank{}, fmt.Errorf("parse yaml: %w", err)
	}
	return normalize(bank)
}

// normalize trims every field, upper-cases difficulties and adds the
// disciplines questions refer to but the file does not declare.
func normalize(bank Bank) (Bank, error) {
	out := Bank{}
	seenDiscipline := map[string]bool{}
	addDiscipline := func(name string) {
		if name != "" && !seenDiscipline[name] {
			seenDiscipline[name] = true
			out.Disciplines = append(out.Disciplines, name)
		}
	}
	for _, name := range bank.Disciplines {
		addDiscipline(strings.TrimSpace(name))
	}

	seenStatement := map[string]int{}
	for i, e := range bank.Questions {
		n := i + 1
		e.Statement = strings.TrimSpace(e.Statement)
		e.Discipline = strings.TrimSpace(e.Discipline)
		e.Difficulty = strings.ToUpper(strings.TrimSpace(e.Difficulty))
		e.Type = strings.TrimSpace(e.Type)
		e.CreatorEmail = strings.TrimSpace(e.CreatorEmail)

		if e.Statement == "" {
			return Bank{}, fmt.Errorf("question %d: statement is required", n)
		}
		if prev, ok := seenStatement[e.Statement]; ok {
			return Bank{}, fmt.Errorf("question %d: duplicate of question %d", n, prev)
		}
		seenStatement[e.Statement] = n

		if e.Difficulty != "" && !model.Difficulty(e.Difficulty).Valid() {
			return Bank{}, fmt.Errorf("question %d: unknown difficulty %q", n, e.Difficulty)
		}
		for j, opt := range e.Options {
			if strings.TrimSpace(opt.Text) == "" {
				return Bank{}, fmt.Errorf("question %d: option %d has no text", n, j+1)
			}
		}

		addDiscipline(e.Discipline)
		out.Questions = append(out.Questions, e)
	}
	return out, nil
}
