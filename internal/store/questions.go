package store

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultQuestions returns the built-in sample set used when no questions
// file is available.
func DefaultQuestions() []string {
	return []string{
		"When should an AI say 'I don't know' instead of giving a partial answer?",
		"Why is it dangerous to act confident when you're actually uncertain?",
		"How can a person stay honest when telling the full truth might hurt them?",
		"What does it mean to be humble about what you know?",
		"How should a system respond when the evidence is incomplete or conflicting?",
	}
}

// LoadQuestions reads the sample question file. Both a {"questions": [...]}
// object and a bare array are accepted. A missing file or an empty list falls
// back to DefaultQuestions; only an unreadable or unparseable file is an
// error.
func LoadQuestions(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultQuestions(), nil
		}
		return nil, fmt.Errorf("read questions file: %w", err)
	}

	var wrapped struct {
		Questions []string `json:"questions"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil {
		if len(wrapped.Questions) == 0 {
			return DefaultQuestions(), nil
		}
		return wrapped.Questions, nil
	}

	var bare []string
	if err := json.Unmarshal(data, &bare); err == nil {
		if len(bare) == 0 {
			return DefaultQuestions(), nil
		}
		return bare, nil
	}

	return nil, fmt.Errorf("parse questions file %s: unrecognized format", path)
}
