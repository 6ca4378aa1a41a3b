// Package prompt builds the two prompt variants the comparison pipeline
// sends to a generator: a plain baseline prompt and an augmented prompt
// carrying retrieved wisdom nodes as grounding context.
package prompt

import (
	"fmt"
	"strings"

	"github.com/holmanholdings/awakened-wisdom-demo/internal/domain"
)

const baselinePrompt = `You are a helpful, honest assistant.

Answer the user's question as clearly and precisely as you can.
If you are missing key information, say so explicitly instead of guessing.

User question:
%s
`

const augmentedPrompt = `You are a careful, humble assistant grounded in curated wisdom.

You will see a set of 'wisdom nodes' extracted from trusted sources. Use them to answer the user's question, but DO NOT exaggerate beyond the evidence.

Guidelines:
- Prefer to say 'I don't know' or 'the evidence is limited' over guessing.
- Explicitly cite insights from the wisdom nodes when they support your answer.
- Mention tradeoffs, limits, or counterpoints if they appear in the nodes.
- Be warm, honest, and precise.

User question:
%s

Wisdom nodes:
%s
`

const nodeBlock = `Node %d — Core Insight:
%s

Ethical Reflection:
%s

Evidence:
%s

Counterpoint:
%s

Source: %s
`

const (
	questionMarker = "User question:\n"
	nodesMarker    = "\n\nWisdom nodes:"
	emptyContext   = "No prior nodes selected."

	// Evidence quotes rendered per node. Packs can carry more; the prompt
	// stays bounded.
	maxEvidenceLines = 3
)

// Baseline renders the unassisted prompt for a question. It cannot fail.
func Baseline(question string) string {
	return fmt.Sprintf(baselinePrompt, question)
}

// Augmented renders the context-grounded prompt for a question. Nodes appear
// in the order given, numbered from 1. An empty node list renders a
// placeholder context block rather than failing.
func Augmented(question string, nodes []domain.ScoredNode) string {
	blocks := make([]string, 0, len(nodes))
	for i, sn := range nodes {
		blocks = append(blocks, fmt.Sprintf(nodeBlock,
			i+1,
			sn.Node.Insight,
			sn.Node.Reflection,
			evidenceLines(sn.Node.Evidence),
			sn.Node.Counterpoint,
			sn.Node.SourceURI,
		))
	}

	context := emptyContext
	if len(blocks) > 0 {
		context = strings.Join(blocks, "\n\n")
	}
	return fmt.Sprintf(augmentedPrompt, question, context)
}

// ContextBullets extracts the display bullets for the augmented side, one
// trimmed core insight per retrieved node, skipping nodes with none.
func ContextBullets(nodes []domain.ScoredNode) []string {
	bullets := make([]string, 0, len(nodes))
	for _, sn := range nodes {
		if insight := strings.TrimSpace(sn.Node.Insight); insight != "" {
			bullets = append(bullets, insight)
		}
	}
	return bullets
}

// ExtractQuestion recovers the user question from a rendered prompt and
// reports whether the prompt is the augmented variant. The mock generator
// uses this to look up precomputed answers without a live model.
func ExtractQuestion(text string) (question string, augmented bool) {
	augmented = strings.Contains(text, nodesMarker)
	i := strings.Index(text, questionMarker)
	if i < 0 {
		return "", augmented
	}
	rest := text[i+len(questionMarker):]
	if j := strings.Index(rest, nodesMarker); j >= 0 {
		rest = rest[:j]
	}
	return strings.TrimSpace(rest), augmented
}

func evidenceLines(evidence domain.EvidenceList) string {
	limit := len(evidence)
	if limit > maxEvidenceLines {
		limit = maxEvidenceLines
	}
	lines := make([]string, 0, limit)
	for _, ev := range evidence[:limit] {
		lines = append(lines, "- "+ev.Quote)
	}
	return strings.Join(lines, "\n")
}
