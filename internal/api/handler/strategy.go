package handler

import (
	"encoding/json"
	"net/http"

	"github.com/quantx/pulse/internal/api/response"
	"github.com/quantx/pulse/internal/core"
	"github.com/quantx/pulse/internal/storage/memory"
	"github.com/quantx/pulse/internal/strategy"
)

// StrategyHandler runs strategy definitions against a caller-supplied
// indicator context.
type StrategyHandler struct {
	engine *strategy.Engine
	store  *memory.StrategyStore
}

// NewStrategyHandler creates a strategy handler.
func NewStrategyHandler(engine *strategy.Engine, store *memory.StrategyStore) *StrategyHandler {
	return &StrategyHandler{engine: engine, store: store}
}

// RunRequest is the request body for a strategy run. Either an inline
// definition or the name of a stored one must be given.
type RunRequest struct {
	Strategy *core.StrategyDefinition `json:"strategy,omitempty"`
	Name     string                   `json:"name,omitempty"`
	Context  map[string]float64       `json:"context"`
}

// Run evaluates one strategy against the context and returns the
// decision.
func (h *StrategyHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrStrategyInvalid, err))
		return
	}

	def := req.Strategy
	if def == nil && req.Name != "" {
		stored, err := h.store.Get(r.Context(), req.Name)
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

	if err := h.engine.Validate(*def); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	// Inline definitions are kept for later runs and backtests.
	if req.Strategy != nil {
		if err := h.store.Save(r.Context(), *def); err != nil {
			response.Error(w, http.StatusInternalServerError, err)
			return
		}
	}

	decision := h.engine.Run(*def, strategy.Context(req.Context))
	response.JSON(w, http.StatusOK, decision)
}

// List returns the stored strategy definitions.
func (h *StrategyHandler) List(w http.ResponseWriter, r *http.Request) {
	defs, err := h.store.List(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err)
		return
	}
	response.JSON(w, http.StatusOK, defs)
}
