package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/holmanholdings/awakened-wisdom-demo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAnswers(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "precomputed.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadPrecomputed_ListForm(t *testing.T) {
	path := writeAnswers(t, `[
		{"question":"What is truth?","baseline":"base answer","augmented":"aug answer","context_bullets":["b1"]},
		{"question":"Why doubt?","baseline":"b2","augmented":"a2"}
	]`)

	table, err := LoadPrecomputed(path)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Count())

	answer, ok := table.Lookup("What is truth?")
	require.True(t, ok)
	assert.Equal(t, "base answer", answer.Baseline)
	assert.Equal(t, "aug answer", answer.Augmented)
	assert.Equal(t, []string{"b1"}, answer.ContextBullets)
}

func TestLoadPrecomputed_MapForm(t *testing.T) {
	path := writeAnswers(t, `{
		"What is truth?": {"baseline":"base","augmented":"aug"}
	}`)

	table, err := LoadPrecomputed(path)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Count())

	answer, ok := table.Lookup("What is truth?")
	require.True(t, ok)
	assert.Equal(t, "What is truth?", answer.Question, "map key should backfill the question")
	assert.Equal(t, "aug", answer.Augmented)
}

func TestLoadPrecomputed_LegacyAugmentedKey(t *testing.T) {
	path := writeAnswers(t, `[{"question":"q","baseline":"b","ads":"legacy augmented"}]`)

	table, err := LoadPrecomputed(path)
	require.NoError(t, err)
	answer, ok := table.Lookup("q")
	require.True(t, ok)
	assert.Equal(t, "legacy augmented", answer.Augmented)
}

func TestLoadPrecomputed_MissingFileIsEmpty(t *testing.T) {
	table, err := LoadPrecomputed(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, table.Count())

	_, ok := table.Lookup("anything")
	assert.False(t, ok)
}

func TestLoadPrecomputed_GarbageIsAnError(t *testing.T) {
	path := writeAnswers(t, `not json`)
	_, err := LoadPrecomputed(path)
	assert.Error(t, err)
}

func TestPrecomputedTable_NormalizedLookup(t *testing.T) {
	table := NewPrecomputedTable([]domain.PrecomputedAnswer{
		{Question: "What Does  It Mean?", Baseline: "b", Augmented: "a"},
	})

	for _, q := range []string{
		"what does it mean?",
		"WHAT DOES IT MEAN?",
		"  what   does it\tmean?  ",
	} {
		_, ok := table.Lookup(q)
		assert.True(t, ok, "lookup %q should hit", q)
	}

	_, ok := table.Lookup("what does it mean")
	assert.False(t, ok, "punctuation still distinguishes questions")
}

func TestNormalizeQuestion(t *testing.T) {
	assert.Equal(t, "a b c?", NormalizeQuestion("  A   b \t C?  "))
	assert.Equal(t, "", NormalizeQuestion("   "))
}
