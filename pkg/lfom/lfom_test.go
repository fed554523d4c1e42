package lfom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lfom/pkg/catalog"
	"github.com/matzehuels/lfom/pkg/errors"
	"github.com/matzehuels/lfom/pkg/hydraulics"
	"github.com/matzehuels/lfom/pkg/lfom"
)

const inch = 0.0254

func TestWidthStout(t *testing.T) {
	p := lfom.DefaultParams()

	w, err := lfom.WidthStout(0.4, 0.4, p)
	require.NoError(t, err)
	assert.InDelta(t, 0.9019329453483474, w, 1e-12)

	w, err = lfom.WidthStout(0.2, 0.01, p)
	require.NoError(t, err)
	assert.InDelta(t, 11.408649616179787, w, 1e-12)

	prev := 0.0
	for _, z := range []float64{0.2, 0.1, 0.05, 0.01, 0.001} {
		w, err := lfom.WidthStout(0.2, z, p)
		require.NoError(t, err)
		assert.Greater(t, w, prev, "width grows toward the surface")
		prev = w
	}

	for _, tt := range []struct{ hl, z float64 }{{0.2, 0}, {0.2, -0.1}, {0, 0.1}, {-0.2, 0.1}} {
		_, err := lfom.WidthStout(tt.hl, tt.z, p)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "hl=%g z=%g", tt.hl, tt.z)
	}
}

func TestCriticalVelocity(t *testing.T) {
	v, err := lfom.CriticalVelocity(0.2)
	require.NoError(t, err)
	assert.InDelta(t, 0.8405802802312778, v, 1e-12)

	v, err = lfom.CriticalVelocity(0.6)
	require.NoError(t, err)
	assert.InDelta(t, 1.4559277532010582, v, 1e-12)

	_, err = lfom.CriticalVelocity(0)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestPlanRows(t *testing.T) {
	p := lfom.DefaultParams()
	tests := []struct {
		q      float64
		count  int
		forced bool
	}{
		{q: 0.001, count: 8, forced: true},   // estimate 123 clamps to 10
		{q: 0.012, count: 8, forced: true},   // estimate 10.26
		{q: 0.02, count: 8, forced: true},    // estimate 6.16
		{q: 0.0145, count: 8, forced: false}, // estimate 8.49
		{q: 0.05, count: 4, forced: false},   // estimate 2.46 clamps to 4
		{q: 0.1, count: 4, forced: false},
	}
	for _, tt := range tests {
		plan, err := lfom.PlanRows(tt.q, 0.2, p)
		require.NoError(t, err)
		assert.Equal(t, tt.count, plan.Count, "q=%g", tt.q)
		assert.Equal(t, tt.forced, plan.Forced, "q=%g", tt.q)
		assert.InDelta(t, 0.2, plan.Spacing*float64(plan.Count), 1e-12)
		assert.Contains(t, []int{4, 8}, plan.Count)
		assert.GreaterOrEqual(t, plan.Clamped, 4)
		assert.LessOrEqual(t, plan.Clamped, 10)
	}

	plan, err := lfom.PlanRows(0.012, 0.2, p)
	require.NoError(t, err)
	assert.InDelta(t, 10.262, plan.Estimate, 1e-3)

	n, err := lfom.NumRows(0.05, 0.2, p)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	s, err := lfom.RowSpacing(0.05, 0.2, p)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, s, 1e-15)

	for _, tt := range []struct{ q, hl float64 }{{0, 0.2}, {-1, 0.2}, {0.01, 0}} {
		_, err := lfom.PlanRows(tt.q, tt.hl, p)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "q=%g hl=%g", tt.q, tt.hl)
	}
}

func TestSizePipe(t *testing.T) {
	p := lfom.DefaultParams()
	pipe, err := lfom.SizePipe(0.012, 0.2, p, catalog.DefaultPipes())
	require.NoError(t, err)
	assert.InDelta(t, 0.16512, pipe.MinDiameter, 1e-4)
	assert.InDelta(t, 8*inch, pipe.Nominal, 1e-12)
	assert.InDelta(t, 0.20222, pipe.InnerDiameter, 1e-4)
	assert.GreaterOrEqual(t, pipe.InnerDiameter, pipe.MinDiameter)

	_, err = lfom.SizePipe(50, 0.2, p, catalog.DefaultPipes())
	assert.True(t, errors.Is(err, errors.ErrCodeCatalogExhausted), "got %v", err)
}

func TestSizeOrifice(t *testing.T) {
	p := lfom.DefaultParams()
	plan, err := lfom.PlanRows(0.012, 0.2, p)
	require.NoError(t, err)

	orf, err := lfom.SizeOrifice(0.012, plan, p, catalog.DefaultDrills())
	require.NoError(t, err)
	assert.InDelta(t, 0.03172, orf.MaxDiameter, 1e-4)
	assert.Equal(t, plan.Spacing, orf.Bound)
	assert.InDelta(t, 31.0/32*inch, orf.Diameter, 1e-12)
	assert.LessOrEqual(t, orf.Diameter, plan.Spacing)
	assert.LessOrEqual(t, orf.Diameter, orf.MaxDiameter)

	// A 2 mm headloss over 4 rows leaves a 0.5 mm spacing, smaller than any bit.
	tiny, err := lfom.PlanRows(0.0001, 0.002, p)
	require.NoError(t, err)
	_, err = lfom.SizeOrifice(0.0001, tiny, p, catalog.DefaultDrills())
	assert.True(t, errors.Is(err, errors.ErrCodeCatalogExhausted), "got %v", err)
}

func TestMaxOrificesPerRow(t *testing.T) {
	n, err := lfom.MaxOrificesPerRow(0.20222, 31.0/32*inch, 0.01)
	require.NoError(t, err)
	assert.Equal(t, 18, n)

	n, err = lfom.MaxOrificesPerRow(0.01, 0.02, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = lfom.MaxOrificesPerRow(0, 0.01, 0.01)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	_, err = lfom.MaxOrificesPerRow(0.1, 0.01, -0.01)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestFlowRamp(t *testing.T) {
	ramp, err := lfom.FlowRamp(0.008, 4)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.002, 0.004, 0.006, 0.008}, ramp, 1e-15)
	assert.Equal(t, 0.008, ramp[3])

	ramp, err = lfom.FlowRamp(1, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, ramp)

	_, err = lfom.FlowRamp(1, 0)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	_, err = lfom.FlowRamp(0, 4)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestAllocateRows(t *testing.T) {
	o, err := hydraulics.NewOrifice(31.0/32*inch, 0.63)
	require.NoError(t, err)
	ramp, err := lfom.FlowRamp(0.012, 8)
	require.NoError(t, err)

	alloc, err := lfom.AllocateRows(ramp, 0.025, o, 18)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 3, 3, 2, 3, 1, 2, 2}, alloc.Counts)
	assert.Equal(t, 26, alloc.Total())
	assert.Len(t, alloc.Ideal, 8)
	for i, c := range alloc.Clamps {
		assert.Equal(t, lfom.ClampNone, c, "row %d", i)
	}

	// The same ramp with a tight cap clamps the bottom row.
	capped, err := lfom.AllocateRows(ramp, 0.025, o, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, capped.Counts[0])
	assert.Equal(t, lfom.ClampCap, capped.Clamps[0])
	for _, c := range capped.Counts {
		assert.LessOrEqual(t, c, 4)
		assert.GreaterOrEqual(t, c, 0)
	}

	// A ramp that falls after the first row forces later rows to zero.
	floored, err := lfom.AllocateRows([]float64{0.012, 0.001}, 0.025, o, 18)
	require.NoError(t, err)
	assert.Zero(t, floored.Counts[1])
	assert.Equal(t, lfom.ClampFloor, floored.Clamps[1])
	assert.Negative(t, floored.Ideal[1])

	_, err = lfom.AllocateRows(nil, 0.025, o, 18)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	_, err = lfom.AllocateRows(ramp, 0, o, 18)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	_, err = lfom.AllocateRows(ramp, 0.025, o, -1)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestLayoutFlow(t *testing.T) {
	o, err := hydraulics.NewOrifice(0.01, 0.63)
	require.NoError(t, err)
	l := lfom.NewLayout(0.05, 0.2, o, []int{4, 3, 2, 1})

	assert.InDeltaSlice(t, []float64{0.005, 0.055, 0.105, 0.155}, l.RowHeights(), 1e-15)
	assert.Zero(t, l.Flow(0))
	assert.Zero(t, l.Flow(0.005))

	// Only the bottom row is wet below the second row centre.
	single := 4 * o.Flow(0.05-0.005)
	assert.InDelta(t, single, l.Flow(0.05), 1e-15)

	// Surface at the top of the meter matches the allocator convention.
	assert.InDelta(t, l.Flow(0.2), l.FlowAtRow(3), 1e-15)
	assert.InDelta(t, l.Flow(0.05), l.FlowAtRow(0), 1e-15)
	assert.Zero(t, l.FlowAtRow(4))

	prev := -1.0
	for h, q := range l.Curve(41) {
		assert.GreaterOrEqual(t, q, prev, "h=%g", h)
		prev = q
	}
}

func TestCurves(t *testing.T) {
	o, err := hydraulics.NewOrifice(0.01, 0.63)
	require.NoError(t, err)
	l := lfom.NewLayout(0.05, 0.2, o, []int{1, 1, 1, 1})

	var hs []float64
	for h := range l.Curve(5) {
		hs = append(hs, h)
	}
	assert.InDeltaSlice(t, []float64{0, 0.05, 0.1, 0.15, 0.2}, hs, 1e-15)

	var ideal []float64
	for _, q := range lfom.IdealCurve(0.01, 0.2, 3) {
		ideal = append(ideal, q)
	}
	assert.InDeltaSlice(t, []float64{0, 0.005, 0.01}, ideal, 1e-15)

	n := 0
	for range l.Curve(100) {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)

	assert.InDelta(t, 0.005, lfom.IdealFlow(0.01, 0.2, 0.1), 1e-15)
}

func TestVerify(t *testing.T) {
	o, err := hydraulics.NewOrifice(0.01, 0.63)
	require.NoError(t, err)
	l := lfom.NewLayout(0.05, 0.2, o, []int{4, 3, 2, 1})
	ramp := []float64{0.0005, 0.001, 0.0015, 0.002}

	dev, err := lfom.Verify(l, 0.002, ramp)
	require.NoError(t, err)
	require.Len(t, dev.Errors, 4)
	for k, e := range dev.Errors {
		assert.InDelta(t, (l.FlowAtRow(k)-ramp[k])/0.002, e, 1e-15)
		assert.LessOrEqual(t, abs(e), dev.MaxAbsError)
	}
	assert.Equal(t, dev.Errors[3], dev.FullFlowError)
	assert.Equal(t, l.FlowAtRow(3), dev.FullFlow)

	_, err = lfom.Verify(l, 0.002, ramp[:2])
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
