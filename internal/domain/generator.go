package domain

import (
	"context"
	"errors"
	"fmt"
)

// Generator produces an answer for a fully rendered prompt. The backend is
// chosen once at startup; a single instance serves every request for the
// process lifetime and makes exactly one attempt per call.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*GenerationResult, error)
}

// Retriever ranks corpus nodes against a question. Implementations are pure:
// identical inputs must produce identical output.
type Retriever interface {
	Retrieve(question string, k int) []ScoredNode
}

// NodeSource is read-only access to the loaded corpus.
type NodeSource interface {
	All() []WisdomNode
	Count() int
}

// AnswerTable is the precomputed question/answer lookup backing mock mode.
type AnswerTable interface {
	Lookup(question string) (PrecomputedAnswer, bool)
	Count() int
}

// ErrNoPrecomputedAnswer is returned by the mock backend when a question has
// no entry in the answer table. The mock never fabricates content.
var ErrNoPrecomputedAnswer = errors.New("no precomputed answer for question")

type GenerationErrorKind string

const (
	GenerationTimeout           GenerationErrorKind = "timeout"
	GenerationAuthentication    GenerationErrorKind = "authentication"
	GenerationMalformedResponse GenerationErrorKind = "malformed_response"
	GenerationPrecomputedMiss   GenerationErrorKind = "precomputed_miss"
)

// GenerationError is the uniform failure type for every backend. Kind is
// machine-readable; Err carries the underlying cause.
type GenerationError struct {
	Kind     GenerationErrorKind
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
