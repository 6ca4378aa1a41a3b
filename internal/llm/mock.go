package llm

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/holmanholdings/awakened-wisdom-demo/internal/domain"
	"github.com/holmanholdings/awakened-wisdom-demo/internal/prompt"
)

// MockGenerator answers from a precomputed table and never touches the
// network. It recovers the question from the rendered prompt and serves the
// matching side, baseline or augmented, of the stored answer. Questions
// without a stored answer fail with a precomputed-miss rather than
// fabricated content.
type MockGenerator struct {
	answers domain.AnswerTable
}

func NewMockGenerator(answers domain.AnswerTable) *MockGenerator {
	return &MockGenerator{answers: answers}
}

func (g *MockGenerator) Generate(ctx context.Context, promptText string) (*domain.GenerationResult, error) {
	question, augmented := prompt.ExtractQuestion(promptText)

	if g.answers == nil {
		return nil, g.miss(question)
	}
	answer, ok := g.answers.Lookup(question)
	if !ok {
		return nil, g.miss(question)
	}

	text := answer.Baseline
	if augmented {
		text = answer.Augmented
	}

	return &domain.GenerationResult{
		Text:         text,
		InputTokens:  approxTokens(promptText),
		OutputTokens: approxTokens(text),
		TimeS:        0,
	}, nil
}

func (g *MockGenerator) miss(question string) error {
	return generationErr(ProviderMock, domain.GenerationPrecomputedMiss,
		fmt.Errorf("%w: %q", domain.ErrNoPrecomputedAnswer, question))
}

// approxTokens fakes usage accounting at four runes per token so the demo
// UI has plausible numbers to display in mock mode.
func approxTokens(s string) int {
	return utf8.RuneCountInString(s) / 4
}
