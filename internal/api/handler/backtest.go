package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/quantx/pulse/internal/api/response"
	"github.com/quantx/pulse/internal/backtest"
	"github.com/quantx/pulse/internal/core"
	"github.com/quantx/pulse/internal/metrics"
	"github.com/quantx/pulse/internal/storage/archive"
	"github.com/quantx/pulse/internal/storage/memory"
	"github.com/quantx/pulse/internal/strategy"
)

// BacktestHandler runs backtests and serves stored results.
type BacktestHandler struct {
	engine     *backtest.Engine
	strategies *strategy.Engine
	store      *memory.BacktestStore
	defs       *memory.StrategyStore
	results    *archive.Results
	metrics    *metrics.Registry
	capital    float64
	logger     *zap.Logger
}

// NewBacktestHandler creates a backtest handler. The archive and
// metrics registry may be nil.
func NewBacktestHandler(
	engine *backtest.Engine,
	strategies *strategy.Engine,
	store *memory.BacktestStore,
	defs *memory.StrategyStore,
	results *archive.Results,
	reg *metrics.Registry,
	initialCapital float64,
	logger ...*zap.Logger,
) *BacktestHandler {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &BacktestHandler{
		engine:     engine,
		strategies: strategies,
		store:      store,
		defs:       defs,
		results:    results,
		metrics:    reg,
		capital:    initialCapital,
		logger:     l,
	}
}

// CreateRequest is the request body for starting a backtest.
type CreateRequest struct {
	Strategy       *core.StrategyDefinition `json:"strategy,omitempty"`
	Name           string                   `json:"name,omitempty"`
	Symbol         string                   `json:"symbol"`
	Prices         []float64                `json:"prices"`
	InitialCapital float64                  `json:"initial_capital,omitempty"`
}

// Create runs a backtest over the supplied price series.
func (h *BacktestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrStrategyInvalid, err))
		return
	}
	if req.Symbol == "" {
		response.Error(w, http.StatusBadRequest, core.ErrNoData)
		return
	}

	def := req.Strategy
	if def == nil && req.Name != "" {
		stored, err := h.defs.Get(r.Context(), req.Name)
		if err != nil {
			response.Error(w, http.StatusNotFound, err)
			return
		}
		def = stored
	}
	if def == nil {
		response.Error(w, http.StatusBadRequest, core.ErrStrategyInvalid)
		return
	}
	if err := h.strategies.Validate(*def); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	capital := req.InitialCapital
	if capital <= 0 {
		capital = h.capital
	}

	start := time.Now()
	result := h.engine.Run(*def, req.Symbol, req.Prices, capital)
	if h.metrics != nil {
		h.metrics.RecordBacktest("ok", time.Since(start).Seconds())
	}

	if err := h.store.Save(r.Context(), result); err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}
	if h.results != nil {
		if err := h.results.SaveBacktest(r.Context(), result); err != nil {
			// Archive failures do not fail the request.
			h.logger.Warn("backtest archive failed",
				zap.String("id", result.ID), zap.Error(err))
		}
	}

	response.JSON(w, http.StatusOK, result)
}

// Get returns one stored result by ID, falling back to the archive for
// results trimmed from memory.
func (h *BacktestHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	result, err := h.store.Get(r.Context(), id)
	if errors.Is(err, core.ErrNotFound) && h.results != nil {
		result, err = h.results.LoadBacktest(r.Context(), id)
	}
	if err != nil {
		response.Error(w, http.StatusNotFound, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// List returns recent results, newest first.
func (h *BacktestHandler) List(w http.ResponseWriter, r *http.Request) {
	results, err := h.store.List(r.Context(), 20)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}
	response.JSON(w, http.StatusOK, results)
}
