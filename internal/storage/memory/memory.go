// Package memory provides in-memory stores for strategy definitions
// and backtest results.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/quantx/pulse/internal/core"
)

// StrategyStore is an in-memory strategy definition store keyed by name.
type StrategyStore struct {
	strategies map[string]core.StrategyDefinition
	mu         sync.RWMutex
}

// NewStrategyStore creates an empty strategy store.
func NewStrategyStore() *StrategyStore {
	return &StrategyStore{
		strategies: make(map[string]core.StrategyDefinition),
	}
}

// Save stores a definition under its name, replacing any previous one.
func (s *StrategyStore) Save(ctx context.Context, def core.StrategyDefinition) error {
	if def.Name == "" {
		return core.ErrStrategyInvalid
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strategies[def.Name] = def
	return nil
}

// Get retrieves a definition by name.
func (s *StrategyStore) Get(ctx context.Context, name string) (*core.StrategyDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	def, ok := s.strategies[name]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &def, nil
}

// List returns all definitions sorted by name.
func (s *StrategyStore) List(ctx context.Context) ([]core.StrategyDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]core.StrategyDefinition, 0, len(s.strategies))
	for _, def := range s.strategies {
		result = append(result, def)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Delete removes a definition by name.
func (s *StrategyStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.strategies[name]; !ok {
		return core.ErrNotFound
	}
	delete(s.strategies, name)
	return nil
}

// BacktestStore is an in-memory backtest result store with a capacity
// cap. Oldest results are trimmed when the cap is exceeded.
type BacktestStore struct {
	results []core.BacktestResult
	maxSize int
	mu      sync.RWMutex
}

// NewBacktestStore creates a store holding at most maxSize results.
// A maxSize below 1 is raised to 1 so a freshly saved result is always
// retrievable.
func NewBacktestStore(maxSize int) *BacktestStore {
	if maxSize < 1 {
		maxSize = 1
	}
	return &BacktestStore{
		results: make([]core.BacktestResult, 0, maxSize),
		maxSize: maxSize,
	}
}

// Save appends a result. The engine assigns result IDs.
func (s *BacktestStore) Save(ctx context.Context, result core.BacktestResult) error {
	if result.ID == "" {
		return core.ErrStorageFailed
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = append(s.results, result)

	// Trim if over capacity (remove oldest)
	if len(s.results) > s.maxSize {
		s.results = s.results[len(s.results)-s.maxSize:]
	}
	return nil
}

// Get retrieves a result by ID.
func (s *BacktestStore) Get(ctx context.Context, id string) (*core.BacktestResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.results {
		if s.results[i].ID == id {
			r := s.results[i]
			return &r, nil
		}
	}
	return nil, core.ErrNotFound
}

// List returns the most recent results, newest first, up to limit
// (limit <= 0 means all).
func (s *BacktestStore) List(ctx context.Context, limit int) ([]core.BacktestResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]core.BacktestResult, 0, len(s.results))
	for i := len(s.results) - 1; i >= 0; i-- {
		result = append(result, s.results[i])
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}
