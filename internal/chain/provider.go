package chain

import (
	"context"

	"go.uber.org/zap"

	"github.com/quantx/pulse/internal/core"
)

// Provider fetches option-chain data from one upstream source
type Provider interface {
	Name() string
	FetchChain(ctx context.Context, symbol, expiry string) (*Chain, error)
	FetchSpot(ctx context.Context, symbol string) (float64, error)
}

// Resolver tries an ordered list of providers and returns the first
// successful result. Failures are logged and the next provider is
// consulted; a synthetic provider at the tail makes resolution total.
type Resolver struct {
	providers []Provider
	logger    *zap.Logger
}

// NewResolver creates a resolver over the given providers in priority order
func NewResolver(providers []Provider, logger ...*zap.Logger) *Resolver {
	l := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Resolver{providers: providers, logger: l}
}

// Providers returns the resolver's provider names in priority order
func (r *Resolver) Providers() []string {
	names := make([]string, len(r.providers))
	for i, p := range r.providers {
		names[i] = p.Name()
	}
	return names
}

// ResolveChain fetches the chain from the first provider that succeeds
func (r *Resolver) ResolveChain(ctx context.Context, symbol, expiry string) (*Chain, error) {
	if len(r.providers) == 0 {
		return nil, core.ErrNoData
	}
	var lastErr error
	for _, p := range r.providers {
		c, err := p.FetchChain(ctx, symbol, expiry)
		if err == nil && c != nil && len(c.Entries) > 0 {
			return c, nil
		}
		if err == nil {
			err = core.ErrNoData
		}
		lastErr = err
		r.logger.Warn("chain provider failed, trying next",
			zap.String("provider", p.Name()),
			zap.String("symbol", symbol),
			zap.Error(err))
	}
	return nil, core.WrapError(core.ErrProviderExhausted, lastErr)
}

// ResolveSpot fetches the spot price from the first provider that succeeds
func (r *Resolver) ResolveSpot(ctx context.Context, symbol string) (float64, error) {
	if len(r.providers) == 0 {
		return 0, core.ErrNoData
	}
	var lastErr error
	for _, p := range r.providers {
		spot, err := p.FetchSpot(ctx, symbol)
		if err == nil && spot > 0 {
			return spot, nil
		}
		if err == nil {
			err = core.ErrNoData
		}
		lastErr = err
		r.logger.Warn("spot provider failed, trying next",
			zap.String("provider", p.Name()),
			zap.String("symbol", symbol),
			zap.Error(err))
	}
	return 0, core.WrapError(core.ErrProviderExhausted, lastErr)
}
