package lfom

import (
	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/lfom/pkg/errors"
)

// FlowRamp returns n flow targets spaced evenly from q/n to q. Target k is
// the flow the meter should pass when the water surface reaches row k+1.
func FlowRamp(q float64, n int) ([]float64, error) {
	if err := errors.ValidatePositive("flow", q); err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "row count must be positive, got %d", n)
	}
	if n == 1 {
		return []float64{q}, nil
	}
	ramp := floats.Span(make([]float64, n), q/float64(n), q)
	// Pin the end so ramp[n-1] is exactly q after interpolation rounding.
	ramp[n-1] = q
	return ramp, nil
}
