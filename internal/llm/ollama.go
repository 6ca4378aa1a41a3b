package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/holmanholdings/awakened-wisdom-demo/internal/domain"
)

const (
	ollamaBaseURL = "http://localhost:11434"
	ollamaModel   = "llama3.1"

	// Local models answer slowly on CPU hosts, so ollama gets a longer
	// default than the hosted providers.
	ollamaTimeout = 180 * time.Second
)

// OllamaClient generates answers through a local Ollama server. No
// credentials are involved.
type OllamaClient struct {
	url         string
	model       string
	temperature float64
	system      string
	httpClient  *http.Client
}

func NewOllamaClient(cfg Config) *OllamaClient {
	base := strings.TrimRight(stringOr(cfg.OllamaBaseURL, ollamaBaseURL), "/")
	return &OllamaClient{
		url:         base + "/api/chat",
		model:       stringOr(cfg.Model, ollamaModel),
		temperature: cfg.Temperature,
		system:      cfg.SystemPrompt,
		httpClient:  &http.Client{Timeout: timeoutOr(cfg.Timeout, ollamaTimeout)},
	}
}

type ollamaRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options"`
}

type ollamaResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
	Error           string `json:"error,omitempty"`
}

func (c *OllamaClient) Generate(ctx context.Context, prompt string) (*domain.GenerationResult, error) {
	var messages []chatMessage
	if c.system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: c.system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	payload := ollamaRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Options:  map[string]any{"temperature": c.temperature},
	}

	body, elapsed, err := postJSON(ctx, c.httpClient, ProviderOllama, c.url, nil, payload)
	if err != nil {
		return nil, err
	}

	var result ollamaResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, generationErr(ProviderOllama, domain.GenerationMalformedResponse,
			fmt.Errorf("unmarshal ollama response: %w", err))
	}
	if result.Error != "" {
		return nil, generationErr(ProviderOllama, domain.GenerationMalformedResponse,
			fmt.Errorf("ollama API error: %s", result.Error))
	}

	text := strings.TrimSpace(result.Message.Content)
	if text == "" {
		return nil, generationErr(ProviderOllama, domain.GenerationMalformedResponse,
			fmt.Errorf("ollama API returned empty message content"))
	}

	return &domain.GenerationResult{
		Text:         text,
		InputTokens:  result.PromptEvalCount,
		OutputTokens: result.EvalCount,
		TimeS:        elapsed,
	}, nil
}
