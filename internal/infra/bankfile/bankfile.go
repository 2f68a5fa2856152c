// Package bankfile reads question banks from YAML documents of the form
//
//	banks:
//	  - title: Hackathon Science
//	    questions:
//	      - text: Which organelle is the primary site of cellular respiration?
//	        options: [Nucleus, Mitochondria, Ribosome, Chloroplast]
//	        correct_index: 1
//
// A bank without an explicit id is keyed by the slug of its title.
package bankfile

import (
	"context"
	"fmt"
	"os"

	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"

	"quiz-arcade/internal/domain"
)

type document struct {
	Banks []domain.QuestionBank `yaml:"banks"`
}

// Parse decodes and validates every bank in data.
func Parse(data []byte) (map[string]domain.QuestionBank, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode banks: %w", err)
	}

	banks := make(map[string]domain.QuestionBank, len(doc.Banks))
	for i, bank := range doc.Banks {
		if bank.ID == "" {
			bank.ID = slug.Make(bank.Title)
		}
		if bank.ID == "" {
			return nil, fmt.Errorf("bank %d has neither id nor title", i)
		}
		if _, dup := banks[bank.ID]; dup {
			return nil, fmt.Errorf("duplicate bank id %q", bank.ID)
		}
		if err := bank.Validate(); err != nil {
			return nil, err
		}
		banks[bank.ID] = bank
	}
	return banks, nil
}

// Load reads and parses the file at path.
func Load(path string) (map[string]domain.QuestionBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Loader serves banks from a YAML file, re-reading it on every load so edits
// show up once the repository cache expires.
type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

func (l *Loader) LoadBank(_ context.Context, bankID string) (domain.QuestionBank, error) {
	banks, err := Load(l.path)
	if err != nil {
		return domain.QuestionBank{}, err
	}
	bank, ok := banks[bankID]
	if !ok {
		return domain.QuestionBank{}, domain.ErrBankNotFound
	}
	return bank, nil
}
