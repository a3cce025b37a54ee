package handler

import (
	"net/http"
	"time"

	"github.com/quantx/pulse/internal/api/response"
	"github.com/quantx/pulse/internal/chain"
	"github.com/quantx/pulse/internal/core"
)

// DashboardHandler serves the ATM-window directional summary.
type DashboardHandler struct {
	resolver *chain.Resolver
	now      func() time.Time
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(resolver *chain.Resolver) *DashboardHandler {
	return &DashboardHandler{resolver: resolver, now: time.Now}
}

// WithClock overrides the handler's clock, for tests
func (h *DashboardHandler) WithClock(now func() time.Time) *DashboardHandler {
	h.now = now
	return h
}

// Summary resolves the chain and spot for ?symbol= and returns the
// 11-strike window prediction.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		response.Error(w, http.StatusBadRequest, core.ErrNoData)
		return
	}
	expiry := r.URL.Query().Get("expiry")

	c, err := h.resolver.ResolveChain(r.Context(), symbol, expiry)
	if err != nil {
		response.Error(w, http.StatusBadGateway, err)
		return
	}
	spot, err := h.resolver.ResolveSpot(r.Context(), symbol)
	if err != nil {
		// The summary can still be built from a synthetic mid-strike spot.
		spot = 0
	}

	response.JSON(w, http.StatusOK, chain.Summarize(c, symbol, spot, h.now().UTC()))
}
