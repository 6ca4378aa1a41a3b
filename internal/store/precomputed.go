package store

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/holmanholdings/awakened-wisdom-demo/internal/domain"
)

// PrecomputedTable is the offline answer table backing the mock backend.
// Lookups match on the normalized question, so cosmetic whitespace and case
// differences between the caller and the table do not cause misses.
type PrecomputedTable struct {
	answers map[string]domain.PrecomputedAnswer
}

// precomputedRecord accepts the legacy augmented-answer key.
type precomputedRecord struct {
	Question       string   `json:"question"`
	Baseline       string   `json:"baseline"`
	Augmented      string   `json:"augmented"`
	LegacyAds      string   `json:"ads"`
	ContextBullets []string `json:"context_bullets"`
}

func (r precomputedRecord) toAnswer() domain.PrecomputedAnswer {
	augmented := r.Augmented
	if augmented == "" {
		augmented = r.LegacyAds
	}
	return domain.PrecomputedAnswer{
		Question:       r.Question,
		Baseline:       r.Baseline,
		Augmented:      augmented,
		ContextBullets: r.ContextBullets,
	}
}

// LoadPrecomputed reads the answer table. Both a list of records and a map
// keyed by question are accepted. A missing file yields an empty table;
// whether that is fatal depends on the configured provider and is decided at
// startup, not here.
func LoadPrecomputed(path string) (*PrecomputedTable, error) {
	table := &PrecomputedTable{answers: make(map[string]domain.PrecomputedAnswer)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return table, nil
		}
		return nil, fmt.Errorf("read precomputed answers: %w", err)
	}

	var list []precomputedRecord
	if err := json.Unmarshal(data, &list); err == nil {
		for _, rec := range list {
			table.add(rec.toAnswer())
		}
		return table, nil
	}

	var keyed map[string]precomputedRecord
	if err := json.Unmarshal(data, &keyed); err == nil {
		for question, rec := range keyed {
			answer := rec.toAnswer()
			if answer.Question == "" {
				answer.Question = question
			}
			table.add(answer)
		}
		return table, nil
	}

	return nil, fmt.Errorf("parse precomputed answers %s: unrecognized format", path)
}

// NewPrecomputedTable builds a table from answers already in memory. Used by
// tests and the seed script.
func NewPrecomputedTable(answers []domain.PrecomputedAnswer) *PrecomputedTable {
	table := &PrecomputedTable{answers: make(map[string]domain.PrecomputedAnswer, len(answers))}
	for _, a := range answers {
		table.add(a)
	}
	return table
}

func (t *PrecomputedTable) add(a domain.PrecomputedAnswer) {
	key := NormalizeQuestion(a.Question)
	if key == "" {
		return
	}
	t.answers[key] = a
}

// Lookup returns the answer for a question, matching on the normalized form.
func (t *PrecomputedTable) Lookup(question string) (domain.PrecomputedAnswer, bool) {
	a, ok := t.answers[NormalizeQuestion(question)]
	return a, ok
}

func (t *PrecomputedTable) Count() int {
	return len(t.answers)
}

// NormalizeQuestion lowercases a question and collapses runs of whitespace.
func NormalizeQuestion(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}
