package catalog

import (
	"math"
	"slices"

	"github.com/matzehuels/lfom/pkg/errors"
)

// nominalTolerance is the match tolerance in metres for nominal-size lookups.
const nominalTolerance = 1e-9

// Pipe is one standard pipe size. Diameters are in metres.
type Pipe struct {
	Nominal   float64 `json:"nominal"`
	Outer     float64 `json:"outer"`
	Available bool    `json:"available"`
}

// Inner returns the internal diameter for the dimension ratio sdr.
func (p Pipe) Inner(sdr float64) float64 {
	return p.Outer * (sdr - 2) / sdr
}

// PipeCatalog is an immutable list of pipe sizes ordered by nominal diameter,
// together with the dimension-ratio classes it is stocked in.
type PipeCatalog struct {
	pipes []Pipe
	sdrs  []float64
}

// NewPipeCatalog validates and orders pipes. sdrs lists the supported
// dimension-ratio classes; every class must exceed 2.
func NewPipeCatalog(pipes []Pipe, sdrs []float64) (*PipeCatalog, error) {
	if len(pipes) == 0 {
		return nil, errors.New(errors.ErrCodeCatalogInvalid, "pipe catalog has no entries")
	}
	ps := slices.Clone(pipes)
	for _, p := range ps {
		if !(p.Nominal > 0) || !(p.Outer > 0) {
			return nil, errors.New(errors.ErrCodeCatalogInvalid,
				"pipe with nominal %g m and outer %g m is invalid", p.Nominal, p.Outer)
		}
	}
	slices.SortStableFunc(ps, func(a, b Pipe) int {
		switch {
		case a.Nominal < b.Nominal:
			return -1
		case a.Nominal > b.Nominal:
			return 1
		}
		return 0
	})
	for i := 1; i < len(ps); i++ {
		if math.Abs(ps[i].Nominal-ps[i-1].Nominal) < nominalTolerance {
			return nil, errors.New(errors.ErrCodeCatalogInvalid, "duplicate nominal size %g m", ps[i].Nominal)
		}
	}

	ss := slices.Clone(sdrs)
	for _, sdr := range ss {
		if !(sdr > 2) {
			return nil, errors.New(errors.ErrCodeCatalogInvalid, "dimension ratio %g must exceed 2", sdr)
		}
	}
	slices.Sort(ss)
	return &PipeCatalog{pipes: ps, sdrs: slices.Compact(ss)}, nil
}

// Pipes returns a copy of all sizes, available or not.
func (c *PipeCatalog) Pipes() []Pipe { return slices.Clone(c.pipes) }

// SDRs returns the dimension-ratio classes listed by the catalog.
func (c *PipeCatalog) SDRs() []float64 { return slices.Clone(c.sdrs) }

// Lookup returns the pipe with the given nominal diameter.
func (c *PipeCatalog) Lookup(nominal float64) (Pipe, error) {
	for _, p := range c.pipes {
		if math.Abs(p.Nominal-nominal) < nominalTolerance {
			return p, nil
		}
	}
	return Pipe{}, errors.New(errors.ErrCodeNotFound, "no pipe with nominal diameter %g m", nominal)
}

// InnerDiameter returns the internal diameter of the nominal size at the
// dimension ratio sdr.
func (c *PipeCatalog) InnerDiameter(nominal, sdr float64) (float64, error) {
	if !(sdr > 2) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "dimension ratio %g must exceed 2", sdr)
	}
	p, err := c.Lookup(nominal)
	if err != nil {
		return 0, err
	}
	return p.Inner(sdr), nil
}

// NominalFor returns the smallest available pipe whose internal diameter at
// dimension ratio sdr is at least minInner.
func (c *PipeCatalog) NominalFor(minInner, sdr float64) (Pipe, error) {
	if !(sdr > 2) {
		return Pipe{}, errors.New(errors.ErrCodeInvalidInput, "dimension ratio %g must exceed 2", sdr)
	}
	if math.IsNaN(minInner) {
		return Pipe{}, errors.New(errors.ErrCodeInvalidInput, "minimum inner diameter is NaN")
	}
	for _, p := range c.pipes {
		if p.Available && p.Inner(sdr) >= minInner {
			return p, nil
		}
	}
	return Pipe{}, errors.New(errors.ErrCodeCatalogExhausted,
		"no available pipe at SDR %g has an inner diameter of at least %g m", sdr, minInner)
}
