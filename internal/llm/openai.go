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
	openAIResponsesURL = "https://api.openai.com/v1/responses"
	openAIModel        = "gpt-4o"
)

// OpenAIClient generates answers through the OpenAI Responses API.
type OpenAIClient struct {
	apiKey       string
	url          string
	model        string
	temperature  float64
	maxTokens    int
	instructions string
	httpClient   *http.Client
}

func NewOpenAIClient(cfg Config) *OpenAIClient {
	return &OpenAIClient{
		apiKey:       cfg.OpenAIAPIKey,
		url:          stringOr(cfg.OpenAIBaseURL, openAIResponsesURL),
		model:        stringOr(cfg.Model, openAIModel),
		temperature:  cfg.Temperature,
		maxTokens:    cfg.MaxOutputTokens,
		instructions: cfg.SystemPrompt,
		httpClient:   &http.Client{Timeout: timeoutOr(cfg.Timeout, defaultTimeout)},
	}
}

type openAIRequest struct {
	Model           string  `json:"model"`
	Input           string  `json:"input"`
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"max_output_tokens"`
	Instructions    string  `json:"instructions,omitempty"`
}

type openAIResponse struct {
	Output []struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (*domain.GenerationResult, error) {
	payload := openAIRequest{
		Model:           c.model,
		Input:           prompt,
		Temperature:     c.temperature,
		MaxOutputTokens: c.maxTokens,
		Instructions:    c.instructions,
	}

	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	body, elapsed, err := postJSON(ctx, c.httpClient, ProviderOpenAI, c.url, headers, payload)
	if err != nil {
		return nil, err
	}

	var result openAIResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, generationErr(ProviderOpenAI, domain.GenerationMalformedResponse,
			fmt.Errorf("unmarshal openai response: %w", err))
	}
	if result.Error != nil {
		return nil, generationErr(ProviderOpenAI, domain.GenerationMalformedResponse,
			fmt.Errorf("openai API error: %s", result.Error.Message))
	}

	var parts []string
	for _, item := range result.Output {
		for _, content := range item.Content {
			if (content.Type == "output_text" || content.Type == "text") && content.Text != "" {
				parts = append(parts, content.Text)
			}
		}
	}
	text := strings.TrimSpace(strings.Join(parts, "\n"))
	if text == "" {
		return nil, generationErr(ProviderOpenAI, domain.GenerationMalformedResponse,
			fmt.Errorf("openai API returned no output text"))
	}

	return &domain.GenerationResult{
		Text:         text,
		InputTokens:  result.Usage.InputTokens,
		OutputTokens: result.Usage.OutputTokens,
		TimeS:        elapsed,
	}, nil
}
