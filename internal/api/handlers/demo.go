package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/holmanholdings/awakened-wisdom-demo/internal/domain"
	"github.com/holmanholdings/awakened-wisdom-demo/internal/service"
)

// DemoHandler serves the baseline-versus-augmented comparison endpoint.
type DemoHandler struct {
	svc *service.ComparisonService
}

func NewDemoHandler(svc *service.ComparisonService) *DemoHandler {
	return &DemoHandler{svc: svc}
}

type runDemoRequest struct {
	Question string `json:"question"`
}

type demoAnswer struct {
	Text         string  `json:"text"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TimeS        float64 `json:"time_s"`
}

type augmentedDemoAnswer struct {
	demoAnswer
	NodesUsed      int      `json:"nodes_used"`
	ContextBullets []string `json:"context_bullets"`
}

type retrievalMetric struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

type rawMetrics struct {
	Baseline  demoAnswer        `json:"baseline"`
	Augmented demoAnswer        `json:"augmented"`
	Retrieval []retrievalMetric `json:"retrieval"`
}

type runDemoResponse struct {
	Question   string              `json:"question"`
	Baseline   demoAnswer          `json:"baseline"`
	Augmented  augmentedDemoAnswer `json:"augmented"`
	RawMetrics rawMetrics          `json:"raw_metrics"`
}

func (h *DemoHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req runDemoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Run(r.Context(), req.Question)
	if err != nil {
		writeComparisonError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRunDemoResponse(result))
}

// writeComparisonError maps pipeline failures to HTTP statuses: validation
// to 400, a missing precomputed answer to 404, a provider timeout to 504,
// any other provider failure to 502, everything else to 500.
func writeComparisonError(w http.ResponseWriter, err error) {
	var genErr *domain.GenerationError

	switch {
	case errors.Is(err, service.ErrQuestionEmpty):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &genErr):
		switch genErr.Kind {
		case domain.GenerationPrecomputedMiss:
			writeError(w, http.StatusNotFound, err.Error())
		case domain.GenerationTimeout:
			writeError(w, http.StatusGatewayTimeout, err.Error())
		default:
			writeError(w, http.StatusBadGateway, err.Error())
		}
	default:
		writeError(w, http.StatusInternalServerError, "comparison failed")
	}
}

func toRunDemoResponse(result *domain.ComparisonResult) runDemoResponse {
	baseline := toDemoAnswer(result.Baseline)
	augmented := toDemoAnswer(result.Augmented)

	retrieval := make([]retrievalMetric, 0, len(result.Retrieved))
	for _, sn := range result.Retrieved {
		retrieval = append(retrieval, retrievalMetric{ID: sn.Node.ID, Score: sn.Score})
	}

	return runDemoResponse{
		Question: result.Question,
		Baseline: baseline,
		Augmented: augmentedDemoAnswer{
			demoAnswer:     augmented,
			NodesUsed:      len(result.Retrieved),
			ContextBullets: result.ContextBullets,
		},
		RawMetrics: rawMetrics{
			Baseline:  baseline,
			Augmented: augmented,
			Retrieval: retrieval,
		},
	}
}

func toDemoAnswer(g domain.GenerationResult) demoAnswer {
	return demoAnswer{
		Text:         g.Text,
		InputTokens:  g.InputTokens,
		OutputTokens: g.OutputTokens,
		TimeS:        g.TimeS,
	}
}
