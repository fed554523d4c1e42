package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/lfom/pkg/cache"
	"github.com/matzehuels/lfom/pkg/lfom"
	"github.com/matzehuels/lfom/pkg/observability"
)

// keyTypeDesign labels design entries in cache hook events.
const keyTypeDesign = "design"

// Runner executes design runs through a cache.
//
// The Runner holds no per-run state, so one Runner may serve many goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer uses
// cache.DefaultKeyer and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLDesign,
	}
}

// Execute validates opts, then returns the cached record or computes and
// caches a new one.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	id := uuid.NewString()
	logger := opts.Logger.With("run", id[:8])
	result := &Result{ID: id, Key: r.Keyer.DesignKey(opts.KeyOpts())}

	start := time.Now()
	observability.Design().OnDesignStart(ctx, id, opts.Flow, opts.Headloss)
	rec, hit, err := r.designWithCacheInfo(ctx, result.Key, opts, logger)
	result.Stats.DesignTime = time.Since(start)

	rows := 0
	if rec != nil {
		rows = rec.Rows.Count
	}
	observability.Design().OnDesignComplete(ctx, id, rows, result.Stats.DesignTime, err)
	if err != nil {
		return nil, fmt.Errorf("design: %w", err)
	}

	result.Record = rec
	result.CacheHit = hit
	result.Stats.Rows = rows
	result.Stats.Orifices = rec.Total()

	logger.Info("designed meter",
		"flow", opts.Flow,
		"headloss", opts.Headloss,
		"rows", rows,
		"orifices", result.Stats.Orifices,
		"cached", hit,
		"duration", result.Stats.DesignTime)
	if len(rec.Quirks) > 0 {
		logger.Warn("design has quirks", "quirks", rec.Quirks)
	}
	return result, nil
}

// designWithCacheInfo returns the record for key and whether it came from
// the cache. Cache failures are logged and never fail the run.
func (r *Runner) designWithCacheInfo(ctx context.Context, key string, opts Options, logger *log.Logger) (*lfom.Record, bool, error) {
	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			logger.Warn("cache read failed", "err", err)
		case hit:
			var rec lfom.Record
			if err := json.Unmarshal(data, &rec); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeDesign)
				logger.Debug("cache hit", "key", key)
				return &rec, true, nil
			}
			logger.Debug("discarding undecodable cache entry", "key", key)
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeDesign)
	}

	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	cat, err := opts.ResolveCatalogs()
	if err != nil {
		return nil, false, err
	}
	rec, err := lfom.Design(opts.Flow, opts.Headloss, opts.Params, cat)
	if err != nil {
		return nil, false, err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, false, fmt.Errorf("encode record: %w", err)
	}
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		logger.Warn("cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, keyTypeDesign, len(data))
	}
	return rec, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
