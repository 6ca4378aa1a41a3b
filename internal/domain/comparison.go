package domain

// GenerationResult is the uniform envelope every backend returns: the answer
// text, provider-reported token usage, and wall-clock latency in seconds.
type GenerationResult struct {
	Text         string  `json:"text"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TimeS        float64 `json:"time_s"`
}

// ScoredNode pairs a node with its retrieval score.
type ScoredNode struct {
	Node  WisdomNode `json:"node"`
	Score float64    `json:"score"`
}

// ComparisonResult aggregates one baseline and one augmented generation for
// the same question, plus the retrieval that fed the augmented prompt.
// It is built per request and never persisted.
type ComparisonResult struct {
	Question       string           `json:"question"`
	Baseline       GenerationResult `json:"baseline"`
	Augmented      GenerationResult `json:"augmented"`
	Retrieved      []ScoredNode     `json:"retrieved"`
	ContextBullets []string         `json:"context_bullets"`
}

// PrecomputedAnswer is one row of the offline answer table used by the mock
// backend.
type PrecomputedAnswer struct {
	Question       string   `json:"question"`
	Baseline       string   `json:"baseline"`
	Augmented      string   `json:"augmented"`
	ContextBullets []string `json:"context_bullets,omitempty"`
}
