package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/holmanholdings/awakened-wisdom-demo/internal/domain"
)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicModel       = "claude-3-5-sonnet-latest"
	anthropicVersion     = "2023-06-01"
)

// AnthropicClient generates answers through the Anthropic Messages API.
type AnthropicClient struct {
	apiKey      string
	url         string
	version     string
	model       string
	temperature float64
	maxTokens   int
	system      string
	httpClient  *http.Client
}

func NewAnthropicClient(cfg Config) *AnthropicClient {
	return &AnthropicClient{
		apiKey:      cfg.AnthropicAPIKey,
		url:         stringOr(cfg.AnthropicBaseURL, anthropicMessagesURL),
		version:     stringOr(cfg.AnthropicVersion, anthropicVersion),
		model:       stringOr(cfg.Model, anthropicModel),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxOutputTokens,
		system:      cfg.SystemPrompt,
		httpClient:  &http.Client{Timeout: timeoutOr(cfg.Timeout, defaultTimeout)},
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *AnthropicClient) Generate(ctx context.Context, prompt string) (*domain.GenerationResult, error) {
	payload := anthropicRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
		System:      c.system,
	}

	headers := map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": c.version,
	}
	body, elapsed, err := postJSON(ctx, c.httpClient, ProviderAnthropic, c.url, headers, payload)
	if err != nil {
		return nil, err
	}

	var result anthropicResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, generationErr(ProviderAnthropic, domain.GenerationMalformedResponse,
			fmt.Errorf("unmarshal anthropic response: %w", err))
	}
	if result.Error != nil {
		return nil, generationErr(ProviderAnthropic, domain.GenerationMalformedResponse,
			fmt.Errorf("anthropic API error: %s", result.Error.Message))
	}

	var parts []string
	for _, content := range result.Content {
		if content.Type == "text" && content.Text != "" {
			parts = append(parts, content.Text)
		}
	}
	text := strings.TrimSpace(strings.Join(parts, "\n"))
	if text == "" {
		return nil, generationErr(ProviderAnthropic, domain.GenerationMalformedResponse,
			fmt.Errorf("anthropic API returned no content"))
	}

	return &domain.GenerationResult{
		Text:         text,
		InputTokens:  result.Usage.InputTokens,
		OutputTokens: result.Usage.OutputTokens,
		TimeS:        elapsed,
	}, nil
}
