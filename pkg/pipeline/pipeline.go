// Package pipeline runs LFOM designs behind a cache. The CLI and the API
// server both go through a [Runner] so that they share keys, logging and
// hook events.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Flow:     0.012,
//	    Headloss: 0.2,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Record.Counts())
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lfom/pkg/cache"
	"github.com/matzehuels/lfom/pkg/catalog"
	"github.com/matzehuels/lfom/pkg/errors"
	"github.com/matzehuels/lfom/pkg/lfom"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultDrillSeries is the drill series used when none is given.
const DefaultDrillSeries = catalog.SeriesImperial

// =============================================================================
// Options
// =============================================================================

// Options configures one design run. All quantities are SI.
type Options struct {
	Flow        float64     `json:"flow"`
	Headloss    float64     `json:"headloss,omitempty"`
	Params      lfom.Params `json:"params"`
	DrillSeries string      `json:"drills,omitempty"`
	Refresh     bool        `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// Catalogs overrides the embedded tables. CatalogHash must then identify
	// their content so that cache keys stay distinct.
	Catalogs    *lfom.Catalogs `json:"-"`
	CatalogHash string         `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults:
// zero Params become [lfom.DefaultParams], a zero headloss takes
// Params.Headloss, and the drill series defaults to imperial.
// Calling it again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Params == (lfom.Params{}) {
		o.Params = lfom.DefaultParams()
	}
	if err := o.Params.Validate(); err != nil {
		return err
	}
	if o.Headloss == 0 {
		o.Headloss = o.Params.Headloss
	}
	if err := errors.ValidatePositive("flow", o.Flow); err != nil {
		return err
	}
	if err := errors.ValidatePositive("headloss", o.Headloss); err != nil {
		return err
	}
	if o.DrillSeries == "" {
		o.DrillSeries = DefaultDrillSeries
	}
	if o.Catalogs == nil {
		if _, err := catalog.Drills(o.DrillSeries); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "unknown drill series %q", o.DrillSeries)
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ResolveCatalogs returns the override catalogs or the embedded tables for
// the drill series.
func (o *Options) ResolveCatalogs() (lfom.Catalogs, error) {
	if o.Catalogs != nil {
		return *o.Catalogs, nil
	}
	drills, err := catalog.Drills(o.DrillSeries)
	if err != nil {
		return lfom.Catalogs{}, err
	}
	return lfom.Catalogs{Pipes: catalog.DefaultPipes(), Drills: drills}, nil
}

// KeyOpts returns the cache key options for the run.
func (o *Options) KeyOpts() cache.DesignKeyOpts {
	return cache.DesignKeyOpts{
		Flow:           o.Flow,
		Headloss:       o.Headloss,
		SDR:            o.Params.SDR,
		RatioVCOrifice: o.Params.RatioVCOrifice,
		RatioSafety:    o.Params.RatioSafety,
		OrificeSpacing: o.Params.OrificeSpacing,
		DrillSeries:    o.DrillSeries,
		Catalog:        o.CatalogHash,
	}
}

// =============================================================================
// Results
// =============================================================================

// Result is the outcome of one run.
type Result struct {
	// ID identifies this run in logs and API responses.
	ID string `json:"id"`

	// Key is the cache key of the record.
	Key string `json:"key"`

	Record   *lfom.Record `json:"record"`
	Stats    Stats        `json:"stats"`
	CacheHit bool         `json:"cache_hit"`
}

// Stats contains run statistics.
type Stats struct {
	Rows       int           `json:"rows"`
	Orifices   int           `json:"orifices"`
	DesignTime time.Duration `json:"design_time"`
}
