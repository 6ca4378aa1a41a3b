package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/holmanholdings/awakened-wisdom-demo/internal/domain"
)

// CorpusError reports a corpus pack that failed to load or validate. Loading
// is all-or-nothing: one bad record rejects the whole pack so that health
// checks always report a deterministic node count.
type CorpusError struct {
	Path   string
	Line   int
	Reason string
}

func (e *CorpusError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("corpus %s: line %d: %s", e.Path, e.Line, e.Reason)
	}
	if e.Path != "" {
		return fmt.Sprintf("corpus %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("corpus: %s", e.Reason)
}

// NodeStore owns the wisdom corpus for the process lifetime. It is immutable
// after construction and safe for unbounded concurrent readers.
type NodeStore struct {
	nodes []domain.WisdomNode
	byID  map[string]int
}

// nodeRecord accepts the legacy source key alongside the current wire format.
type nodeRecord struct {
	domain.WisdomNode
	LegacySource string `json:"source"`
}

// LoadNodes reads a JSONL corpus pack, one node per line, skipping blank
// lines. A malformed record, a missing required field, an out-of-range
// posterior, or a duplicate id aborts the entire load with a CorpusError.
func LoadNodes(path string) (*NodeStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &CorpusError{Path: path, Reason: err.Error()}
	}
	defer func() { _ = f.Close() }()

	var nodes []domain.WisdomNode
	byID := make(map[string]int)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var rec nodeRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, &CorpusError{Path: path, Line: line, Reason: fmt.Sprintf("invalid JSON: %v", err)}
		}

		node := rec.WisdomNode
		if node.SourceURI == "" {
			node.SourceURI = rec.LegacySource
		}

		if reason := validateNode(node); reason != "" {
			return nil, &CorpusError{Path: path, Line: line, Reason: reason}
		}
		if _, dup := byID[node.ID]; dup {
			return nil, &CorpusError{Path: path, Line: line, Reason: fmt.Sprintf("duplicate id %q", node.ID)}
		}

		byID[node.ID] = len(nodes)
		nodes = append(nodes, node)
	}
	if err := scanner.Err(); err != nil {
		return nil, &CorpusError{Path: path, Reason: err.Error()}
	}

	return &NodeStore{nodes: nodes, byID: byID}, nil
}

// NewNodeStore builds a store from nodes already in memory, applying the same
// validation as LoadNodes. Used by tests and the seed script.
func NewNodeStore(nodes []domain.WisdomNode) (*NodeStore, error) {
	byID := make(map[string]int, len(nodes))
	kept := make([]domain.WisdomNode, 0, len(nodes))
	for _, node := range nodes {
		if reason := validateNode(node); reason != "" {
			return nil, &CorpusError{Reason: reason}
		}
		if _, dup := byID[node.ID]; dup {
			return nil, &CorpusError{Reason: fmt.Sprintf("duplicate id %q", node.ID)}
		}
		byID[node.ID] = len(kept)
		kept = append(kept, node)
	}
	return &NodeStore{nodes: kept, byID: byID}, nil
}

func validateNode(n domain.WisdomNode) string {
	if n.ID == "" {
		return "missing id"
	}
	if n.Insight == "" {
		return fmt.Sprintf("node %q: missing core_insight", n.ID)
	}
	if n.Posterior < 0 || n.Posterior > 1 {
		return fmt.Sprintf("node %q: posterior %g out of range [0,1]", n.ID, n.Posterior)
	}
	if n.Warmth != "" && !domain.ValidWarmth(string(n.Warmth)) {
		return fmt.Sprintf("node %q: invalid warmth %q", n.ID, n.Warmth)
	}
	if n.Tier != "" && !domain.ValidNodeTier(string(n.Tier)) {
		return fmt.Sprintf("node %q: invalid tier %q", n.ID, n.Tier)
	}
	return ""
}

// All returns a snapshot of every node in load order.
func (s *NodeStore) All() []domain.WisdomNode {
	out := make([]domain.WisdomNode, len(s.nodes))
	copy(out, s.nodes)
	return out
}

func (s *NodeStore) Count() int {
	return len(s.nodes)
}

func (s *NodeStore) Get(id string) (domain.WisdomNode, bool) {
	i, ok := s.byID[id]
	if !ok {
		return domain.WisdomNode{}, false
	}
	return s.nodes[i], true
}
