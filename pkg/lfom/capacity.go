package lfom

import (
	"math"

	"github.com/matzehuels/lfom/pkg/errors"
)

// MaxOrificesPerRow returns how many orifices of diameter d fit around a pipe
// circumference π·innerD with at least spacing between neighbours.
func MaxOrificesPerRow(innerD, d, spacing float64) (int, error) {
	if err := errors.ValidatePositive("inner diameter", innerD); err != nil {
		return 0, err
	}
	if err := errors.ValidatePositive("orifice diameter", d); err != nil {
		return 0, err
	}
	if err := errors.ValidateNonNegative("orifice spacing", spacing); err != nil {
		return 0, err
	}
	return int(math.Floor(math.Pi * innerD / (d + spacing))), nil
}
