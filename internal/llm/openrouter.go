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
	openRouterChatURL = "https://openrouter.ai/api/v1/chat/completions"
	openRouterModel   = "openai/gpt-4o-mini"
)

// OpenRouterClient generates answers through the OpenRouter chat completions
// API, which proxies many upstream models behind one endpoint.
type OpenRouterClient struct {
	apiKey      string
	url         string
	model       string
	temperature float64
	maxTokens   int
	system      string
	httpClient  *http.Client
}

func NewOpenRouterClient(cfg Config) *OpenRouterClient {
	return &OpenRouterClient{
		apiKey:      cfg.OpenRouterAPIKey,
		url:         stringOr(cfg.OpenRouterBaseURL, openRouterChatURL),
		model:       stringOr(cfg.Model, openRouterModel),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxOutputTokens,
		system:      cfg.SystemPrompt,
		httpClient:  &http.Client{Timeout: timeoutOr(cfg.Timeout, defaultTimeout)},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openRouterRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type openRouterResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *OpenRouterClient) Generate(ctx context.Context, prompt string) (*domain.GenerationResult, error) {
	var messages []chatMessage
	if c.system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: c.system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	payload := openRouterRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	body, elapsed, err := postJSON(ctx, c.httpClient, ProviderOpenRouter, c.url, headers, payload)
	if err != nil {
		return nil, err
	}

	var result openRouterResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, generationErr(ProviderOpenRouter, domain.GenerationMalformedResponse,
			fmt.Errorf("unmarshal openrouter response: %w", err))
	}
	if result.Error != nil {
		return nil, generationErr(ProviderOpenRouter, domain.GenerationMalformedResponse,
			fmt.Errorf("openrouter API error: %s", result.Error.Message))
	}
	if len(result.Choices) == 0 {
		return nil, generationErr(ProviderOpenRouter, domain.GenerationMalformedResponse,
			fmt.Errorf("openrouter API returned no choices"))
	}

	text := strings.TrimSpace(result.Choices[0].Message.Content)
	if text == "" {
		return nil, generationErr(ProviderOpenRouter, domain.GenerationMalformedResponse,
			fmt.Errorf("openrouter API returned empty message content"))
	}

	return &domain.GenerationResult{
		Text:         text,
		InputTokens:  result.Usage.PromptTokens,
		OutputTokens: result.Usage.CompletionTokens,
		TimeS:        elapsed,
	}, nil
}
