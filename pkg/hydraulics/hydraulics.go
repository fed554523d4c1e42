// Package hydraulics provides the single-orifice and circle-geometry
// primitives used by the LFOM design procedure.
//
// All functions take and return SI values. They are pure and safe for
// concurrent use.
//
// # Vertical orifice discharge
//
// [FlowOrificeVert] integrates the Torricelli velocity over the circular
// opening of an orifice drilled in a vertical wall:
//
//	Q = Cd * sqrt(2g) * ∫ chord(z) * sqrt(h - z) dz,   z ∈ [-d/2, min(d/2, h)]
//
// where h is the depth of the free surface above the orifice centre and
// chord(z) = d * sqrt(1 - (2z/d)^2). The substitution z = (d/2)·cos θ removes
// the square-root endpoints of the chord, and the remaining integral is
// evaluated with fixed Gauss–Legendre quadrature from gonum.
package hydraulics

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/matzehuels/lfom/pkg/errors"
)

// Gravity is standard gravitational acceleration in m/s².
const Gravity = 9.80665

// quadNodes is the Gauss–Legendre order used for orifice integration.
// With the cosine substitution the integrand is smooth except for a
// square-root endpoint when the orifice is partially submerged.
const quadNodes = 96

// AreaCircle returns the area of a circle of diameter d.
func AreaCircle(d float64) float64 {
	return math.Pi * d * d / 4
}

// DiamCircle returns the diameter of a circle of area a.
func DiamCircle(a float64) float64 {
	return math.Sqrt(4 * a / math.Pi)
}

// FlowOrificeVert returns the discharge in m³/s through one circular orifice
// of diameter d in a vertical wall, with the free surface at height h above
// the orifice centre. h may be negative down to -d/2, where flow vanishes.
func FlowOrificeVert(d, h, cd float64) (float64, error) {
	if err := errors.ValidatePositive("orifice diameter", d); err != nil {
		return 0, err
	}
	if err := errors.ValidateFinite("orifice submergence", h); err != nil {
		return 0, err
	}
	if err := errors.ValidateFraction("discharge coefficient", cd); err != nil {
		return 0, err
	}
	return flowOrificeVert(d, h, cd), nil
}

// flowOrificeVert is FlowOrificeVert without argument checks, for callers
// that have validated d and cd once up front.
func flowOrificeVert(d, h, cd float64) float64 {
	r := d / 2
	if h <= -r {
		return 0
	}

	// z = r cos θ; θ runs from the wetted top (θ0) down to the orifice bottom (π).
	theta0 := 0.0
	if h < r {
		theta0 = math.Acos(h / r)
	}
	f := func(theta float64) float64 {
		s := math.Sin(theta)
		head := h - r*math.Cos(theta)
		if head <= 0 {
			return 0
		}
		return d * s * math.Sqrt(head) * r * s
	}
	integral := quad.Fixed(f, theta0, math.Pi, quadNodes, quad.Legendre{}, 0)
	return integral * cd * math.Sqrt(2*Gravity)
}

// FlowOrifice returns the discharge through an orifice of diameter d under
// head h using the lumped vena-contracta form Cd·A·sqrt(2gh). It is exact for
// a horizontal orifice and the large-head limit of [FlowOrificeVert].
func FlowOrifice(d, h, cd float64) (float64, error) {
	if err := errors.ValidatePositive("orifice diameter", d); err != nil {
		return 0, err
	}
	if err := errors.ValidateFraction("discharge coefficient", cd); err != nil {
		return 0, err
	}
	if h <= 0 {
		return 0, nil
	}
	return cd * AreaCircle(d) * math.Sqrt(2*Gravity*h), nil
}

// Orifice is a validated orifice geometry bound to a discharge coefficient.
// Its Flow method skips per-call validation and is used in the inner loops of
// the row allocator and verifier.
type Orifice struct {
	Diameter float64
	Cd       float64
}

// NewOrifice validates d and cd once.
func NewOrifice(d, cd float64) (Orifice, error) {
	if err := errors.ValidatePositive("orifice diameter", d); err != nil {
		return Orifice{}, err
	}
	if err := errors.ValidateFraction("discharge coefficient", cd); err != nil {
		return Orifice{}, err
	}
	return Orifice{Diameter: d, Cd: cd}, nil
}

// Flow returns the vertical-orifice discharge at submergence h.
func (o Orifice) Flow(h float64) float64 {
	return flowOrificeVert(o.Diameter, h, o.Cd)
}
