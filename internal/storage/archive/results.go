package archive

import (
	"context"
	"encoding/json"
	"path"
	"strings"

	"github.com/quantx/pulse/internal/config"
	"github.com/quantx/pulse/internal/core"
)

const backtestPrefix = "backtests"

// FromConfig builds the archive backend selected by configuration.
func FromConfig(cfg config.ArchiveConfig) (Storage, error) {
	switch cfg.Type {
	case "s3":
		return NewS3(S3Config{
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		})
	default:
		return NewLocalFS(cfg.Path)
	}
}

// Results archives backtest results as JSON snapshots on a Storage
// backend.
type Results struct {
	storage Storage
}

// NewResults creates a result archive over the given backend.
func NewResults(storage Storage) *Results {
	return &Results{storage: storage}
}

func backtestPath(id string) string {
	return path.Join(backtestPrefix, id+".json")
}

// SaveBacktest archives one result under backtests/<id>.json.
func (r *Results) SaveBacktest(ctx context.Context, result core.BacktestResult) error {
	if result.ID == "" {
		return core.ErrStorageFailed
	}
	data, err := json.Marshal(result)
	if err != nil {
		return core.WrapError(core.ErrStorageFailed, err)
	}
	if err := r.storage.Write(ctx, backtestPath(result.ID), data); err != nil {
		return core.WrapError(core.ErrStorageFailed, err)
	}
	return nil
}

// LoadBacktest reads one archived result back.
func (r *Results) LoadBacktest(ctx context.Context, id string) (*core.BacktestResult, error) {
	exists, err := r.storage.Exists(ctx, backtestPath(id))
	if err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}
	if !exists {
		return nil, core.ErrNotFound
	}
	data, err := r.storage.Read(ctx, backtestPath(id))
	if err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}
	var result core.BacktestResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}
	return &result, nil
}

// ListBacktests returns the archived result IDs.
func (r *Results) ListBacktests(ctx context.Context) ([]string, error) {
	paths, err := r.storage.List(ctx, backtestPrefix)
	if err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}
	ids := make([]string, 0, len(paths))
	for _, p := range paths {
		name := path.Base(p)
		if strings.HasSuffix(name, ".json") {
			ids = append(ids, strings.TrimSuffix(name, ".json"))
		}
	}
	return ids, nil
}
