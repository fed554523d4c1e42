package lfom

import (
	"math"
	"slices"

	"github.com/matzehuels/lfom/pkg/errors"
	"github.com/matzehuels/lfom/pkg/hydraulics"
)

// Clamp records whether a row count was bounded by the allocator.
type Clamp string

const (
	ClampNone  Clamp = "none"
	ClampFloor Clamp = "floor" // ideal count was negative
	ClampCap   Clamp = "cap"   // ideal count exceeded the per-row maximum
)

// RowAllocation is the orifice count per row, bottom row first.
type RowAllocation struct {
	Counts []int     `json:"counts"`
	Ideal  []float64 `json:"ideal"`
	Clamps []Clamp   `json:"clamps"`
	Max    int       `json:"max"`
}

// Total returns the total number of orifices.
func (a RowAllocation) Total() int {
	n := 0
	for _, c := range a.Counts {
		n += c
	}
	return n
}

// submergence returns the depth of a row centre below the water surface when
// the surface stands levels spacings above the row's lower boundary.
func submergence(spacing, d float64, levels int) float64 {
	return spacing*float64(levels) - d/2
}

// allocState is the accumulator of the row fold. Rows are committed in order;
// a committed row is never revisited.
type allocState struct {
	counts []int
	ideal  []float64
	clamps []Clamp
}

// satisfied returns the flow already passed by committed rows when the water
// surface sits at the upper boundary of row len(s.counts).
func (s allocState) satisfied(unit []float64) float64 {
	i := len(s.counts)
	var sum float64
	for j, c := range s.counts {
		sum += float64(c) * unit[i-j]
	}
	return sum
}

func (s allocState) commit(target float64, unit []float64, maxPerRow int) allocState {
	x := (target - s.satisfied(unit)) / unit[0]

	c, clamp := int(math.RoundToEven(x)), ClampNone
	switch {
	case c < 0:
		c, clamp = 0, ClampFloor
	case c > maxPerRow:
		c, clamp = maxPerRow, ClampCap
	}
	return allocState{
		counts: append(s.counts, c),
		ideal:  append(s.ideal, x),
		clamps: append(s.clamps, clamp),
	}
}

// AllocateRows assigns orifice counts bottom-up so that the cumulative flow at
// each row's upper boundary tracks ramp. Each row's count is the rounded
// quotient of the remaining flow deficit and the flow of one orifice in the
// newest row, clamped to [0, maxPerRow].
func AllocateRows(ramp []float64, spacing float64, o hydraulics.Orifice, maxPerRow int) (RowAllocation, error) {
	n := len(ramp)
	if n == 0 {
		return RowAllocation{}, errors.New(errors.ErrCodeInvalidInput, "flow ramp is empty")
	}
	if err := errors.ValidatePositive("row spacing", spacing); err != nil {
		return RowAllocation{}, err
	}
	if maxPerRow < 0 {
		return RowAllocation{}, errors.New(errors.ErrCodeInvalidInput, "max orifices per row is negative: %d", maxPerRow)
	}
	if _, err := hydraulics.NewOrifice(o.Diameter, o.Cd); err != nil {
		return RowAllocation{}, err
	}

	// unit[k] is the flow of one orifice k rows below the newest row.
	unit := make([]float64, n)
	for k := range unit {
		unit[k] = o.Flow(submergence(spacing, o.Diameter, k+1))
	}
	if !(unit[0] > 0) {
		return RowAllocation{}, errors.New(errors.ErrCodeInvalidInput,
			"orifice of %g m passes no flow at row spacing %g m", o.Diameter, spacing)
	}

	st := allocState{
		counts: make([]int, 0, n),
		ideal:  make([]float64, 0, n),
		clamps: make([]Clamp, 0, n),
	}
	for _, target := range ramp {
		st = st.commit(target, unit, maxPerRow)
	}
	return RowAllocation{
		Counts: slices.Clip(st.counts),
		Ideal:  slices.Clip(st.ideal),
		Clamps: slices.Clip(st.clamps),
		Max:    maxPerRow,
	}, nil
}
