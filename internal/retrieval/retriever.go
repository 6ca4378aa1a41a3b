package retrieval

import (
	"sort"
	"strings"
	"unicode"

	"github.com/holmanholdings/awakened-wisdom-demo/internal/domain"
)

// LexicalRetriever ranks nodes by lexical token overlap with the question.
// The corpus is small enough that a full scan per request is fine; a vector
// index could replace this without changing the domain.Retriever contract.
type LexicalRetriever struct {
	source domain.NodeSource
}

func NewLexicalRetriever(source domain.NodeSource) *LexicalRetriever {
	return &LexicalRetriever{source: source}
}

// Retrieve scores every node against the question and returns the top k.
// Score is the count of shared lowercase tokens between the question and the
// node's searchable text. Ties break by posterior (higher first), then id.
// A question with no usable tokens returns the first k nodes in load order
// with zero scores.
func (r *LexicalRetriever) Retrieve(question string, k int) []domain.ScoredNode {
	if k <= 0 {
		return nil
	}

	nodes := r.source.All()
	if k > len(nodes) {
		k = len(nodes)
	}

	qTokens := tokenSet(question)
	if len(qTokens) == 0 {
		head := make([]domain.ScoredNode, k)
		for i := 0; i < k; i++ {
			head[i] = domain.ScoredNode{Node: nodes[i]}
		}
		return head
	}

	scored := make([]domain.ScoredNode, 0, len(nodes))
	for _, node := range nodes {
		scored = append(scored, domain.ScoredNode{
			Node:  node,
			Score: float64(overlap(qTokens, tokenSet(node.SearchText()))),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Node.Posterior != b.Node.Posterior {
			return a.Node.Posterior > b.Node.Posterior
		}
		return a.Node.ID < b.Node.ID
	})

	return scored[:k]
}

// tokenSet lowercases text, splits on whitespace, and trims punctuation from
// token edges, so "know?" and "Know" both count as "know".
func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.TrimFunc(tok, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if tok == "" {
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}

func overlap(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			n++
		}
	}
	return n
}
