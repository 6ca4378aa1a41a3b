package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/holmanholdings/awakened-wisdom-demo/internal/api/handlers"
	mw "github.com/holmanholdings/awakened-wisdom-demo/internal/api/middleware"
	"github.com/holmanholdings/awakened-wisdom-demo/internal/config"
	"github.com/holmanholdings/awakened-wisdom-demo/internal/domain"
	"github.com/holmanholdings/awakened-wisdom-demo/internal/llm"
	"github.com/holmanholdings/awakened-wisdom-demo/internal/retrieval"
	"github.com/holmanholdings/awakened-wisdom-demo/internal/service"
	"github.com/holmanholdings/awakened-wisdom-demo/internal/store"
)

// App holds the router, the loaded corpus, and request counters for
// lifecycle management.
type App struct {
	Router *chi.Mux

	cfg         config.Config
	nodes       *store.NodeStore
	precomputed *store.PrecomputedTable

	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
	inFlight     atomic.Int64
}

// NewApp wires the loaded corpus into the comparison pipeline and mounts the
// HTTP surface. A backend that cannot be constructed (unknown provider,
// missing API key) is a startup failure, not a per-request one.
func NewApp(cfg config.Config, nodes *store.NodeStore, questions []string, precomputed *store.PrecomputedTable, logger *zap.Logger) (*App, error) {
	// A nil table must stay a nil interface so the mock backend can tell
	// "no table loaded" apart from "table loaded but empty".
	var answers domain.AnswerTable
	if precomputed != nil {
		answers = precomputed
	}

	generator, err := llm.NewClient(llmConfig(cfg), answers)
	if err != nil {
		return nil, err
	}
	logger.Info("generation backend initialized",
		zap.String("provider", cfg.LLMProvider),
		zap.String("model", cfg.LLMModel))

	retriever := retrieval.NewLexicalRetriever(nodes)
	comparisonSvc := service.NewComparisonService(retriever, generator, cfg.RetrievalK, logger)

	demoHandler := handlers.NewDemoHandler(comparisonSvc)
	questionsHandler := handlers.NewQuestionsHandler(questions)

	r := chi.NewRouter()

	app := &App{
		Router:      r,
		cfg:         cfg,
		nodes:       nodes,
		precomputed: precomputed,
		startTime:   time.Now(),
	}

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount, &app.inFlight)

	// Global middleware (order matters)
	r.Use(mw.RequestID)                                       // Generate/extract request ID first
	r.Use(middleware.RealIP)                                  // Extract real IP
	r.Use(metricsCollector.Middleware)                        // Collect metrics
	r.Use(mw.Logging(logger))                                 // Log all requests
	r.Use(middleware.Recoverer)                               // Recover from panics
	r.Use(mw.CORS)                                            // Before rate limiting so 429s carry CORS headers
	r.Use(mw.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)) // Rate limiting

	r.Get("/health", app.healthHandler())
	r.Get("/metrics", app.metricsHandler())
	r.Get("/questions", questionsHandler.List)
	r.Post("/demo/run", demoHandler.Run)

	return app, nil
}

// llmConfig maps flat env-derived settings onto the backend factory config.
func llmConfig(cfg config.Config) llm.Config {
	return llm.Config{
		Provider:        cfg.LLMProvider,
		Model:           cfg.LLMModel,
		Temperature:     cfg.LLMTemperature,
		MaxOutputTokens: cfg.LLMMaxOutputTokens,
		SystemPrompt:    cfg.LLMSystemPrompt,
		Timeout:         cfg.LLMTimeout,

		OpenAIAPIKey:      cfg.OpenAIAPIKey,
		OpenAIBaseURL:     cfg.OpenAIBaseURL,
		AnthropicAPIKey:   cfg.AnthropicAPIKey,
		AnthropicBaseURL:  cfg.AnthropicBaseURL,
		AnthropicVersion:  cfg.AnthropicVersion,
		OpenRouterAPIKey:  cfg.OpenRouterAPIKey,
		OpenRouterBaseURL: cfg.OpenRouterBaseURL,
		OllamaBaseURL:     cfg.OllamaBaseURL,
	}
}

func (app *App) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		precomputedLoaded := 0
		if app.precomputed != nil {
			precomputedLoaded = app.precomputed.Count()
		}

		response := map[string]any{
			"status":             "healthy",
			"nodes_loaded":       app.nodes.Count(),
			"pack_name":          app.cfg.PackName,
			"precomputed_loaded": precomputedLoaded,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds":     uptime.Seconds(),
			"uptime_human":       uptime.Round(time.Second).String(),
			"request_count":      app.requestCount.Load(),
			"error_count":        app.errorCount.Load(),
			"in_flight_requests": app.inFlight.Load(),
			"goroutines":         runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and the retriever satisfy the pipeline interfaces at compile time.
var (
	_ domain.NodeSource  = (*store.NodeStore)(nil)
	_ domain.AnswerTable = (*store.PrecomputedTable)(nil)
	_ domain.Retriever   = (*retrieval.LexicalRetriever)(nil)
)
