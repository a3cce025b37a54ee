package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quantx/pulse/internal/api/response"
	"github.com/quantx/pulse/internal/core"
	"github.com/quantx/pulse/internal/insight"
)

// InsightHandler narrates a full evaluation through the configured
// chat provider.
type InsightHandler struct {
	analytics *AnalyticsHandler
	narrator  *insight.Narrator
}

// NewInsightHandler creates an insight handler.
func NewInsightHandler(analytics *AnalyticsHandler, narrator *insight.Narrator) *InsightHandler {
	return &InsightHandler{analytics: analytics, narrator: narrator}
}

// InsightResponse pairs the narration with the evaluation it reads.
type InsightResponse struct {
	Insight    string            `json:"insight"`
	Evaluation ConsensusResponse `json:"evaluation"`
}

// Narrate evaluates the snapshot and returns a plain-text commentary.
func (h *InsightHandler) Narrate(w http.ResponseWriter, r *http.Request) {
	var req ConsensusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrInvalidSnapshot, err))
		return
	}
	if err := req.Snapshot.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	eval := h.analytics.evaluate(req)
	text, err := h.narrator.Summarize(r.Context(), req.Snapshot, eval.Consensus, eval.Probability)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, core.ErrInsightDisabled) {
			status = http.StatusNotImplemented
		}
		response.Error(w, status, err)
		return
	}

	response.JSON(w, http.StatusOK, InsightResponse{Insight: text, Evaluation: eval})
}
