package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/holmanholdings/awakened-wisdom-demo/internal/domain"
)

// Provider constants
const (
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
	ProviderMock       = "mock"
)

const defaultTimeout = 90 * time.Second

// Config selects a backend and carries every knob the backends share.
// Empty optional fields fall back to per-provider defaults at construction.
type Config struct {
	Provider        string
	Model           string
	Temperature     float64
	MaxOutputTokens int
	SystemPrompt    string
	Timeout         time.Duration

	OpenAIAPIKey      string
	OpenAIBaseURL     string
	AnthropicAPIKey   string
	AnthropicBaseURL  string
	AnthropicVersion  string
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OllamaBaseURL     string
}

// NewClient creates a generator for the configured provider.
// Returns an error if the provider is unknown or its API key is empty
// (mock and ollama need no credentials). The answer table backs mock mode
// and is ignored by live providers.
func NewClient(cfg Config, answers domain.AnswerTable) (domain.Generator, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI provider")
		}
		return NewOpenAIClient(cfg), nil

	case ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for Anthropic provider")
		}
		return NewAnthropicClient(cfg), nil

	case ProviderOpenRouter:
		if cfg.OpenRouterAPIKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY is required for OpenRouter provider")
		}
		return NewOpenRouterClient(cfg), nil

	case ProviderOllama:
		return NewOllamaClient(cfg), nil

	case ProviderMock:
		return NewMockGenerator(answers), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (valid options: openai, anthropic, openrouter, ollama, mock)", cfg.Provider)
	}
}

var (
	_ domain.Generator = (*OpenAIClient)(nil)
	_ domain.Generator = (*AnthropicClient)(nil)
	_ domain.Generator = (*OpenRouterClient)(nil)
	_ domain.Generator = (*OllamaClient)(nil)
	_ domain.Generator = (*MockGenerator)(nil)
)

func generationErr(provider string, kind domain.GenerationErrorKind, err error) error {
	return &domain.GenerationError{Provider: provider, Kind: kind, Err: err}
}

// postJSON performs one provider round trip and returns the raw body plus
// wall-clock seconds for the call. Transport failures, timeouts included,
// map to the timeout subtype; 401/403 to authentication; any other non-200
// status to malformed response.
func postJSON(ctx context.Context, client *http.Client, provider, url string, headers map[string]string, payload any) ([]byte, float64, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal %s request: %w", provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("create %s request: %w", provider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, generationErr(provider, domain.GenerationTimeout, fmt.Errorf("%s request failed: %w", provider, err))
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, generationErr(provider, domain.GenerationTimeout, fmt.Errorf("read %s response: %w", provider, err))
	}
	elapsed := time.Since(start).Seconds()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, 0, generationErr(provider, domain.GenerationAuthentication,
			fmt.Errorf("%s API returned status %d: %s", provider, resp.StatusCode, string(respBody)))
	case resp.StatusCode != http.StatusOK:
		return nil, 0, generationErr(provider, domain.GenerationMalformedResponse,
			fmt.Errorf("%s API returned status %d: %s", provider, resp.StatusCode, string(respBody)))
	}

	return respBody, elapsed, nil
}

func stringOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func timeoutOr(v, fallback time.Duration) time.Duration {
	if v <= 0 {
		return fallback
	}
	return v
}
