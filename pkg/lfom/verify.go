package lfom

import (
	"iter"
	"math"
	"slices"

	"github.com/matzehuels/lfom/pkg/errors"
	"github.com/matzehuels/lfom/pkg/hydraulics"
)

// Layout is the drilled geometry of a meter: a stack of equally spaced rows,
// one orifice size, and a count per row. Row 0 is the bottom row.
type Layout struct {
	Spacing  float64
	Headloss float64
	Orifice  hydraulics.Orifice
	Counts   []int
}

// NewLayout copies counts into a new Layout.
func NewLayout(spacing, hl float64, o hydraulics.Orifice, counts []int) Layout {
	return Layout{
		Spacing:  spacing,
		Headloss: hl,
		Orifice:  o,
		Counts:   slices.Clone(counts),
	}
}

// RowHeights returns the height of each row centre above the meter bottom.
// The bottom row sits half an orifice up so that zero water depth gives zero
// flow.
func (l Layout) RowHeights() []float64 {
	hs := make([]float64, len(l.Counts))
	for i := range hs {
		hs[i] = l.Orifice.Diameter/2 + float64(i)*l.Spacing
	}
	return hs
}

// Flow returns the discharge with the water surface at height h above the
// meter bottom. Rows whose centre is at or above h are ignored.
func (l Layout) Flow(h float64) float64 {
	var q float64
	for i, z := range l.RowHeights() {
		if z >= h {
			break
		}
		q += float64(l.Counts[i]) * l.Orifice.Flow(h-z)
	}
	return q
}

// FlowAtRow returns the discharge with the water surface at the upper
// boundary of row k, the level the allocator targets.
func (l Layout) FlowAtRow(k int) float64 {
	if k < 0 || k >= len(l.Counts) {
		return 0
	}
	var q float64
	for j := 0; j <= k; j++ {
		q += float64(l.Counts[j]) * l.Orifice.Flow(submergence(l.Spacing, l.Orifice.Diameter, k-j+1))
	}
	return q
}

// Curve yields (height, flow) pairs at samples evenly spaced heights from 0
// to the headloss. Fewer than two samples yields the two end points.
func (l Layout) Curve(samples int) iter.Seq2[float64, float64] {
	return func(yield func(float64, float64) bool) {
		for h := range heights(l.Headloss, samples) {
			if !yield(h, l.Flow(h)) {
				return
			}
		}
	}
}

// IdealFlow returns the flow of a perfectly linear meter, q·h/hl.
func IdealFlow(q, hl, h float64) float64 {
	return q * h / hl
}

// IdealCurve yields the ideal (height, flow) line at the same heights as
// [Layout.Curve].
func IdealCurve(q, hl float64, samples int) iter.Seq2[float64, float64] {
	return func(yield func(float64, float64) bool) {
		for h := range heights(hl, samples) {
			if !yield(h, IdealFlow(q, hl, h)) {
				return
			}
		}
	}
}

func heights(hl float64, samples int) iter.Seq[float64] {
	samples = max(samples, 2)
	return func(yield func(float64) bool) {
		for i := range samples {
			h := hl * float64(i) / float64(samples-1)
			if i == samples-1 {
				h = hl
			}
			if !yield(h) {
				return
			}
		}
	}
}

// Deviation summarizes how far a layout departs from its flow targets.
// Errors are relative to the design flow.
type Deviation struct {
	Errors        []float64 `json:"errors"`
	MaxAbsError   float64   `json:"max_abs_error"`
	FullFlow      float64   `json:"full_flow"`
	FullFlowError float64   `json:"full_flow_error"`
}

// Verify compares the layout against ramp. Errors[k] is
// (FlowAtRow(k) - ramp[k]) / q, covering every row including the top one.
func Verify(l Layout, q float64, ramp []float64) (Deviation, error) {
	if err := errors.ValidatePositive("flow", q); err != nil {
		return Deviation{}, err
	}
	if len(ramp) != len(l.Counts) {
		return Deviation{}, errors.New(errors.ErrCodeInvalidInput,
			"flow ramp has %d targets for %d rows", len(ramp), len(l.Counts))
	}
	if len(ramp) == 0 {
		return Deviation{}, errors.New(errors.ErrCodeInvalidInput, "layout has no rows")
	}

	dev := Deviation{Errors: make([]float64, len(ramp))}
	for k, target := range ramp {
		e := (l.FlowAtRow(k) - target) / q
		dev.Errors[k] = e
		dev.MaxAbsError = max(dev.MaxAbsError, math.Abs(e))
	}
	dev.FullFlow = l.FlowAtRow(len(ramp) - 1)
	dev.FullFlowError = (dev.FullFlow - q) / q
	return dev, nil
}
