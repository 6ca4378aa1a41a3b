package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by WISDOM_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("WISDOM_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

// Config is the full startup configuration, resolved once and validated
// before any component is constructed.
type Config struct {
	ServerPort     int
	LogLevel       string
	RateLimitRPS   float64
	RateLimitBurst int

	NodesPath       string
	QuestionsPath   string
	PrecomputedPath string
	PackName        string
	RetrievalK      int

	LLMProvider        string
	LLMModel           string
	LLMTemperature     float64
	LLMMaxOutputTokens int
	LLMSystemPrompt    string
	LLMTimeout         time.Duration

	OpenAIAPIKey      string
	OpenAIBaseURL     string
	AnthropicAPIKey   string
	AnthropicBaseURL  string
	AnthropicVersion  string
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OllamaBaseURL     string
}

// FromEnv assembles a Config from the environment and validates it.
// Call Load first if a .env file should be honored.
func FromEnv() (Config, error) {
	cfg := Config{
		ServerPort:     ServerPort(),
		LogLevel:       LogLevel(),
		RateLimitRPS:   RateLimitRPS(),
		RateLimitBurst: RateLimitBurst(),

		NodesPath:       NodesPath(),
		QuestionsPath:   QuestionsPath(),
		PrecomputedPath: PrecomputedPath(),
		PackName:        PackName(),
		RetrievalK:      RetrievalK(),

		LLMProvider:        LLMProvider(),
		LLMModel:           os.Getenv("LLM_MODEL"),
		LLMTemperature:     LLMTemperature(),
		LLMMaxOutputTokens: LLMMaxOutputTokens(),
		LLMSystemPrompt:    os.Getenv("LLM_SYSTEM"),
		LLMTimeout:         LLMTimeout(),

		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:     os.Getenv("OPENAI_BASE_URL"),
		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicBaseURL:  os.Getenv("ANTHROPIC_BASE_URL"),
		AnthropicVersion:  os.Getenv("ANTHROPIC_VERSION"),
		OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterBaseURL: os.Getenv("OPENROUTER_BASE_URL"),
		OllamaBaseURL:     os.Getenv("OLLAMA_BASE_URL"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges the env getters cannot guarantee. Provider and
// credential checks live in the llm factory, which knows per-provider rules.
func (c Config) Validate() error {
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}
	if c.RetrievalK < 1 {
		return fmt.Errorf("RETRIEVAL_K must be at least 1, got %d", c.RetrievalK)
	}
	if c.LLMTemperature < 0 || c.LLMTemperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2, got %g", c.LLMTemperature)
	}
	if c.LLMMaxOutputTokens < 1 {
		return fmt.Errorf("LLM_MAX_OUTPUT_TOKENS must be at least 1, got %d", c.LLMMaxOutputTokens)
	}
	if c.LLMTimeout < 0 {
		return fmt.Errorf("LLM_TIMEOUT_SECONDS must not be negative, got %s", c.LLMTimeout)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

func NodesPath() string {
	p := os.Getenv("WISDOM_NODES_PATH")
	if p == "" {
		return "data/golden_nodes.jsonl"
	}
	return p
}

func QuestionsPath() string {
	p := os.Getenv("WISDOM_QUESTIONS_PATH")
	if p == "" {
		return "data/demo_questions.json"
	}
	return p
}

func PrecomputedPath() string {
	p := os.Getenv("WISDOM_PRECOMPUTED_PATH")
	if p == "" {
		return "data/precomputed_answers.json"
	}
	return p
}

// PackName identifies the loaded data pack in the health response.
func PackName() string {
	p := os.Getenv("WISDOM_PACK_NAME")
	if p == "" {
		return "Golden_Ethics_Sample_v1"
	}
	return p
}

// RetrievalK returns how many nodes feed the augmented prompt.
// Defaults to 3 if not set.
func RetrievalK() int {
	k, err := strconv.Atoi(os.Getenv("RETRIEVAL_K"))
	if err != nil || k <= 0 {
		return 3
	}
	return k
}

// LLMProvider returns the configured LLM provider.
// Defaults to "mock" if not set, so the demo runs without any API keys.
// Valid values: openai, anthropic, openrouter, ollama, mock
func LLMProvider() string {
	p := os.Getenv("LLM_PROVIDER")
	if p == "" {
		return "mock"
	}
	return p
}

// LLMTemperature returns the sampling temperature.
// Defaults to 0.2 if not set.
func LLMTemperature() float64 {
	temp, err := strconv.ParseFloat(os.Getenv("LLM_TEMPERATURE"), 64)
	if err != nil {
		return 0.2
	}
	return temp
}

// LLMMaxOutputTokens returns the output token cap for live providers.
// Defaults to 900 if not set.
func LLMMaxOutputTokens() int {
	n, err := strconv.Atoi(os.Getenv("LLM_MAX_OUTPUT_TOKENS"))
	if err != nil || n <= 0 {
		return 900
	}
	return n
}

// LLMTimeout returns the per-call timeout. Zero means the provider's own
// default applies (90s hosted, 180s ollama).
func LLMTimeout() time.Duration {
	sec, err := strconv.Atoi(os.Getenv("LLM_TIMEOUT_SECONDS"))
	if err != nil || sec <= 0 {
		return 0
	}
	return time.Duration(sec) * time.Second
}
