package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/holmanholdings/awakened-wisdom-demo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpus(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nodes.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644))
	return path
}

func TestLoadNodes_Valid(t *testing.T) {
	path := writeCorpus(t,
		`{"id":"wn-001","core_insight":"first insight","ethical_reflection":"first reflection","posterior":0.9,"warmth":"high","tier":"universal"}`,
		`{"id":"wn-002","core_insight":"second insight","posterior":0.5,"evidence":[{"quote":"a quote","locator":"p.1"}]}`,
		`{"id":"wn-003","core_insight":"third insight","posterior":1.0}`,
	)

	store, err := LoadNodes(path)
	require.NoError(t, err)
	assert.Equal(t, 3, store.Count())

	nodes := store.All()
	require.Len(t, nodes, 3)
	assert.Equal(t, "wn-001", nodes[0].ID)
	assert.Equal(t, "wn-002", nodes[1].ID)
	assert.Equal(t, "wn-003", nodes[2].ID)

	second, ok := store.Get("wn-002")
	require.True(t, ok)
	assert.Equal(t, "second insight", second.Insight)
	require.Len(t, second.Evidence, 1)
	assert.Equal(t, "a quote", second.Evidence[0].Quote)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestLoadNodes_LegacyForms(t *testing.T) {
	path := writeCorpus(t,
		`{"id":"wn-001","core_insight":"insight","posterior":0.8,"evidence":"a single bare quote","source":"book://old-pack"}`,
		`{"id":"wn-002","core_insight":"insight","posterior":0.8,"evidence":["q1","q2"]}`,
	)

	store, err := LoadNodes(path)
	require.NoError(t, err)

	first, _ := store.Get("wn-001")
	require.Len(t, first.Evidence, 1)
	assert.Equal(t, "a single bare quote", first.Evidence[0].Quote)
	assert.Equal(t, "book://old-pack", first.SourceURI, "legacy source key should populate source_uri")

	second, _ := store.Get("wn-002")
	require.Len(t, second.Evidence, 2)
	assert.Equal(t, "q1", second.Evidence[0].Quote)
}

func TestLoadNodes_SourceURIWins(t *testing.T) {
	path := writeCorpus(t,
		`{"id":"wn-001","core_insight":"insight","posterior":0.8,"source_uri":"book://new","source":"book://old"}`,
	)

	store, err := LoadNodes(path)
	require.NoError(t, err)
	node, _ := store.Get("wn-001")
	assert.Equal(t, "book://new", node.SourceURI)
}

func TestLoadNodes_SkipsBlankLines(t *testing.T) {
	path := writeCorpus(t,
		`{"id":"wn-001","core_insight":"insight","posterior":0.8}`,
		``,
		`   `,
		`{"id":"wn-002","core_insight":"insight","posterior":0.8}`,
	)

	store, err := LoadNodes(path)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Count())
}

func TestLoadNodes_RejectsPosteriorOutOfRange(t *testing.T) {
	for _, posterior := range []string{"1.5", "-0.1"} {
		path := writeCorpus(t,
			`{"id":"wn-001","core_insight":"insight","posterior":`+posterior+`}`,
		)

		_, err := LoadNodes(path)
		var corpusErr *CorpusError
		require.ErrorAs(t, err, &corpusErr, "posterior %s should be rejected", posterior)
		assert.Equal(t, 1, corpusErr.Line)
		assert.Contains(t, corpusErr.Reason, "posterior")
	}
}

func TestLoadNodes_RejectsDuplicateID(t *testing.T) {
	path := writeCorpus(t,
		`{"id":"wn-001","core_insight":"insight","posterior":0.8}`,
		`{"id":"wn-001","core_insight":"another","posterior":0.7}`,
	)

	_, err := LoadNodes(path)
	var corpusErr *CorpusError
	require.ErrorAs(t, err, &corpusErr)
	assert.Equal(t, 2, corpusErr.Line)
	assert.Contains(t, corpusErr.Reason, "duplicate id")
}

func TestLoadNodes_RejectsMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		record string
		reason string
	}{
		{"missing id", `{"core_insight":"insight","posterior":0.8}`, "missing id"},
		{"missing insight", `{"id":"wn-001","posterior":0.8}`, "core_insight"},
		{"invalid warmth", `{"id":"wn-001","core_insight":"x","posterior":0.8,"warmth":"tepid"}`, "warmth"},
		{"invalid tier", `{"id":"wn-001","core_insight":"x","posterior":0.8,"tier":"secret"}`, "tier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCorpus(t, tt.record)
			_, err := LoadNodes(path)
			var corpusErr *CorpusError
			require.ErrorAs(t, err, &corpusErr)
			assert.Contains(t, corpusErr.Reason, tt.reason)
		})
	}
}

func TestLoadNodes_RejectsMalformedJSON(t *testing.T) {
	path := writeCorpus(t,
		`{"id":"wn-001","core_insight":"insight","posterior":0.8}`,
		`{not json`,
	)

	_, err := LoadNodes(path)
	var corpusErr *CorpusError
	require.ErrorAs(t, err, &corpusErr)
	assert.Equal(t, 2, corpusErr.Line)
	assert.Contains(t, corpusErr.Reason, "invalid JSON")
}

func TestLoadNodes_MissingFile(t *testing.T) {
	_, err := LoadNodes(filepath.Join(t.TempDir(), "nope.jsonl"))
	var corpusErr *CorpusError
	require.ErrorAs(t, err, &corpusErr)
}

func TestNewNodeStore_Validates(t *testing.T) {
	_, err := NewNodeStore([]domain.WisdomNode{
		{ID: "a", Insight: "x", Posterior: 0.5},
		{ID: "a", Insight: "y", Posterior: 0.5},
	})
	var corpusErr *CorpusError
	require.True(t, errors.As(err, &corpusErr))
	assert.Contains(t, corpusErr.Reason, "duplicate id")

	store, err := NewNodeStore([]domain.WisdomNode{
		{ID: "a", Insight: "x", Posterior: 0.5},
		{ID: "b", Insight: "y", Posterior: 0.7},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, store.Count())
}

func TestNodeStore_AllReturnsCopy(t *testing.T) {
	store, err := NewNodeStore([]domain.WisdomNode{
		{ID: "a", Insight: "original", Posterior: 0.5},
	})
	require.NoError(t, err)

	snapshot := store.All()
	snapshot[0].Insight = "mutated"

	fresh := store.All()
	assert.Equal(t, "original", fresh[0].Insight)
}
