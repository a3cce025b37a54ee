// Package handler implements the JSON API endpoints.
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/quantx/pulse/internal/api/response"
	"github.com/quantx/pulse/internal/consensus"
	"github.com/quantx/pulse/internal/core"
	"github.com/quantx/pulse/internal/greeks"
	"github.com/quantx/pulse/internal/market"
	"github.com/quantx/pulse/internal/metrics"
	"github.com/quantx/pulse/internal/oi"
	"github.com/quantx/pulse/internal/probability"
	"github.com/quantx/pulse/internal/volatility"
)

// AnalyticsHandler serves the per-component analytics endpoints and the
// consensus fusion over all of them.
type AnalyticsHandler struct {
	suite   *probability.Suite
	metrics *metrics.Registry
}

// NewAnalyticsHandler creates an analytics handler. The metrics
// registry may be nil.
func NewAnalyticsHandler(suite *probability.Suite, reg *metrics.Registry) *AnalyticsHandler {
	return &AnalyticsHandler{suite: suite, metrics: reg}
}

// VolatilityRequest is the request body for the volatility endpoint.
type VolatilityRequest struct {
	Spot        float64         `json:"spot"`
	Strike      float64         `json:"strike"`
	OptionPrice float64         `json:"option_price"`
	Days        int             `json:"days_to_expiry"`
	Side        core.OptionSide `json:"side"`
	Rate        float64         `json:"rate"`
	Returns     []float64       `json:"returns,omitempty"`
	IVHistory   []float64       `json:"iv_history,omitempty"`
}

// OIRequest is the request body for the open-interest endpoint.
type OIRequest struct {
	OISeries     []float64 `json:"oi_series"`
	VolumeSeries []float64 `json:"volume_series"`
	PutOI        float64   `json:"put_oi"`
	CallOI       float64   `json:"call_oi"`
	PutVolume    float64   `json:"put_volume"`
	CallVolume   float64   `json:"call_volume"`
}

// ConsensusRequest carries everything the consensus fusion needs. The
// series fields are optional; absent analytics degrade to their neutral
// values.
type ConsensusRequest struct {
	Snapshot     core.MarketSnapshot `json:"snapshot"`
	OptionPrice  float64             `json:"option_price,omitempty"`
	Returns      []float64           `json:"returns,omitempty"`
	IVHistory    []float64           `json:"iv_history,omitempty"`
	OISeries     []float64           `json:"oi_series,omitempty"`
	VolumeSeries []float64           `json:"volume_series,omitempty"`
	PutOI        float64             `json:"put_oi,omitempty"`
	CallOI       float64             `json:"call_oi,omitempty"`
	PutVolume    float64             `json:"put_volume,omitempty"`
	CallVolume   float64             `json:"call_volume,omitempty"`
	PriceHistory core.PriceHistory   `json:"price_history,omitempty"`
}

// ConsensusResponse is the full evaluation the consensus endpoint
// returns.
type ConsensusResponse struct {
	Consensus   core.ConsensusScore      `json:"consensus"`
	Probability core.ProbabilityResult   `json:"probability"`
	Greeks      core.GreeksResult        `json:"greeks"`
	Volatility  core.VolatilityMetrics   `json:"volatility"`
	OI          core.OIMetrics           `json:"oi"`
	Market      core.MarketRegimeMetrics `json:"market"`
}

// Probability evaluates the full model suite for one snapshot.
func (h *AnalyticsHandler) Probability(w http.ResponseWriter, r *http.Request) {
	var snap core.MarketSnapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrInvalidSnapshot, err))
		return
	}
	if err := snap.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	result := h.suite.Evaluate(snap)
	h.record("probability", start)
	for _, name := range result.Failed {
		if h.metrics != nil {
			h.metrics.RecordModelFailure(name)
		}
	}

	response.JSON(w, http.StatusOK, result)
}

// Greeks computes price and sensitivities for one snapshot.
func (h *AnalyticsHandler) Greeks(w http.ResponseWriter, r *http.Request) {
	var snap core.MarketSnapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrInvalidSnapshot, err))
		return
	}
	if err := snap.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	result := greeks.Compute(snap)
	h.record("greeks", start)

	response.JSON(w, http.StatusOK, result)
}

// Volatility solves implied volatility and computes the descriptive
// volatility metrics.
func (h *AnalyticsHandler) Volatility(w http.ResponseWriter, r *http.Request) {
	var req VolatilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrInvalidSnapshot, err))
		return
	}
	if req.Spot <= 0 || req.Strike <= 0 {
		response.Error(w, http.StatusBadRequest, core.ErrInvalidSnapshot)
		return
	}

	start := time.Now()
	result := volatility.Metrics(req.Spot, req.Strike, req.OptionPrice, req.Days,
		req.Side, req.Rate, req.Returns, req.IVHistory)
	h.record("volatility", start)

	response.JSON(w, http.StatusOK, result)
}

// OI computes open-interest analytics over the supplied series.
func (h *AnalyticsHandler) OI(w http.ResponseWriter, r *http.Request) {
	var req OIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrNoData, err))
		return
	}

	start := time.Now()
	result := oi.Metrics(req.OISeries, req.VolumeSeries,
		req.PutOI, req.CallOI, req.PutVolume, req.CallVolume)
	h.record("oi", start)

	response.JSON(w, http.StatusOK, result)
}

// Market computes regime analytics over a bar history.
func (h *AnalyticsHandler) Market(w http.ResponseWriter, r *http.Request) {
	var history core.PriceHistory
	if err := json.NewDecoder(r.Body).Decode(&history); err != nil {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrNoData, err))
		return
	}

	start := time.Now()
	result := market.Metrics(history)
	h.record("market", start)

	response.JSON(w, http.StatusOK, result)
}

// Consensus runs every analytics component and fuses the results into
// the 0-100 confidence score.
func (h *AnalyticsHandler) Consensus(w http.ResponseWriter, r *http.Request) {
	var req ConsensusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrInvalidSnapshot, err))
		return
	}
	if err := req.Snapshot.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	resp := h.evaluate(req)
	h.record("consensus", start)
	if h.metrics != nil {
		h.metrics.SetConsensusScore(resp.Consensus.Confidence)
	}

	response.JSON(w, http.StatusOK, resp)
}

func (h *AnalyticsHandler) evaluate(req ConsensusRequest) ConsensusResponse {
	snap := req.Snapshot
	prob := h.suite.Evaluate(snap)
	vol := volatility.Metrics(snap.Spot, snap.Strike, req.OptionPrice,
		snap.DaysToExpiry, snap.Side, snap.Rate, req.Returns, req.IVHistory)
	oiMetrics := oi.Metrics(req.OISeries, req.VolumeSeries,
		req.PutOI, req.CallOI, req.PutVolume, req.CallVolume)
	marketMetrics := market.Metrics(req.PriceHistory)

	return ConsensusResponse{
		Consensus:   consensus.Compute(prob, vol, oiMetrics, marketMetrics),
		Probability: prob,
		Greeks:      greeks.Compute(snap),
		Volatility:  vol,
		OI:          oiMetrics,
		Market:      marketMetrics,
	}
}

func (h *AnalyticsHandler) record(component string, start time.Time) {
	if h.metrics != nil {
		h.metrics.RecordEvaluation(component, time.Since(start).Seconds())
	}
}
