package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/holmanholdings/awakened-wisdom-demo/internal/config"
	"github.com/holmanholdings/awakened-wisdom-demo/internal/domain"
	"github.com/holmanholdings/awakened-wisdom-demo/internal/store"
)

func testConfig() config.Config {
	return config.Config{
		ServerPort:     8080,
		LogLevel:       "info",
		RateLimitRPS:   100,
		RateLimitBurst: 20,
		PackName:       "Test_Pack",
		RetrievalK:     2,
		LLMProvider:    "mock",
	}
}

func testApp(t *testing.T) *App {
	t.Helper()

	nodes, err := store.NewNodeStore([]domain.WisdomNode{
		{ID: "wn-1", Insight: "Honest doubt sharpens belief.", Reflection: "Certainty is earned.", Posterior: 0.9},
		{ID: "wn-2", Insight: "Evidence outlives rhetoric.", Reflection: "Cite or retract.", Posterior: 0.8},
	})
	require.NoError(t, err)

	precomputed := store.NewPrecomputedTable([]domain.PrecomputedAnswer{
		{
			Question:  "What is honest doubt?",
			Baseline:  "A generic take on doubt.",
			Augmented: "Doubt grounded in wn-1.",
		},
	})

	questions := []string{"What is honest doubt?"}

	app, err := NewApp(testConfig(), nodes, questions, precomputed, zap.NewNop())
	require.NoError(t, err)
	return app
}

func TestNewApp_UnknownProvider(t *testing.T) {
	nodes, err := store.NewNodeStore([]domain.WisdomNode{
		{ID: "wn-1", Insight: "x", Reflection: "y", Posterior: 0.5},
	})
	require.NoError(t, err)

	cfg := testConfig()
	cfg.LLMProvider = "carrier-pigeon"

	_, err = NewApp(cfg, nodes, nil, nil, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown LLM provider")
}

func TestHealthEndpoint(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(2), body["nodes_loaded"])
	assert.Equal(t, "Test_Pack", body["pack_name"])
	assert.Equal(t, float64(1), body["precomputed_loaded"])
}

func TestMetricsEndpoint(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "uptime_seconds")
	assert.Contains(t, body, "request_count")
	assert.Contains(t, body, "in_flight_requests")
	assert.Contains(t, body, "go_version")
}

func TestQuestionsEndpoint(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest(http.MethodGet, "/questions", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "What is honest doubt?")
}

func TestDemoRunEndpoint(t *testing.T) {
	app := testApp(t)

	body := strings.NewReader(`{"question": "What is honest doubt?"}`)
	req := httptest.NewRequest(http.MethodPost, "/demo/run", body)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Question string `json:"question"`
		Baseline struct {
			Text string `json:"text"`
		} `json:"baseline"`
		Augmented struct {
			Text      string `json:"text"`
			NodesUsed int    `json:"nodes_used"`
		} `json:"augmented"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "What is honest doubt?", resp.Question)
	assert.Equal(t, "A generic take on doubt.", resp.Baseline.Text)
	assert.Equal(t, "Doubt grounded in wn-1.", resp.Augmented.Text)
	assert.Equal(t, 2, resp.Augmented.NodesUsed)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDemoRunEndpoint_UnknownQuestionIs404(t *testing.T) {
	app := testApp(t)

	body := strings.NewReader(`{"question": "Something the table never saw?"}`)
	req := httptest.NewRequest(http.MethodPost, "/demo/run", body)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "no precomputed answer")
}
