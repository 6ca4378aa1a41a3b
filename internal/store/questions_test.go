package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeQuestions(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadQuestions_WrappedForm(t *testing.T) {
	path := writeQuestions(t, `{"questions":["one?","two?"]}`)
	questions, err := LoadQuestions(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"one?", "two?"}, questions)
}

func TestLoadQuestions_BareArrayForm(t *testing.T) {
	path := writeQuestions(t, `["one?","two?","three?"]`)
	questions, err := LoadQuestions(path)
	require.NoError(t, err)
	assert.Len(t, questions, 3)
}

func TestLoadQuestions_MissingFileFallsBack(t *testing.T) {
	questions, err := LoadQuestions(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultQuestions(), questions)
}

func TestLoadQuestions_EmptyFallsBack(t *testing.T) {
	for _, content := range []string{`{"questions":[]}`, `[]`, `{}`} {
		path := writeQuestions(t, content)
		questions, err := LoadQuestions(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultQuestions(), questions, "content %s should fall back", content)
	}
}

func TestLoadQuestions_GarbageIsAnError(t *testing.T) {
	path := writeQuestions(t, `not json at all`)
	_, err := LoadQuestions(path)
	assert.Error(t, err)
}

func TestDefaultQuestions_FreshSlice(t *testing.T) {
	first := DefaultQuestions()
	first[0] = "mutated"
	assert.NotEqual(t, "mutated", DefaultQuestions()[0])
}
