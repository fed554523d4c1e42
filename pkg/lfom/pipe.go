package lfom

import (
	"math"

	"github.com/matzehuels/lfom/pkg/catalog"
	"github.com/matzehuels/lfom/pkg/errors"
	"github.com/matzehuels/lfom/pkg/hydraulics"
)

// PipeCatalog resolves nominal pipe sizes. [*catalog.PipeCatalog] satisfies it.
type PipeCatalog interface {
	NominalFor(minInner, sdr float64) (catalog.Pipe, error)
	InnerDiameter(nominal, sdr float64) (float64, error)
}

// PipeDesign is the sizing result for the LFOM pipe. Lengths are in metres,
// areas in m², velocities in m/s.
type PipeDesign struct {
	CriticalVelocity float64 `json:"critical_velocity"`
	MinArea          float64 `json:"min_area"`
	MinDiameter      float64 `json:"min_diameter"`
	Nominal          float64 `json:"nominal"`
	Outer            float64 `json:"outer"`
	InnerDiameter    float64 `json:"inner_diameter"`
}

// CriticalVelocity returns the velocity 4/(3π)·sqrt(2 g hl) above which the
// pipe's own velocity head would distort the meter's linear response.
func CriticalVelocity(hl float64) (float64, error) {
	if err := errors.ValidatePositive("headloss", hl); err != nil {
		return 0, err
	}
	return 4 / (3 * math.Pi) * math.Sqrt(2*hydraulics.Gravity*hl), nil
}

// SizePipe picks the smallest available pipe whose internal diameter carries q
// below the critical velocity with the configured safety factor.
func SizePipe(q, hl float64, p Params, pipes PipeCatalog) (PipeDesign, error) {
	if err := errors.ValidatePositive("flow", q); err != nil {
		return PipeDesign{}, err
	}
	vc, err := CriticalVelocity(hl)
	if err != nil {
		return PipeDesign{}, err
	}
	if pipes == nil {
		return PipeDesign{}, errors.New(errors.ErrCodeInvalidInput, "pipe catalog is required")
	}

	area := p.RatioSafety * q / vc
	dmin := hydraulics.DiamCircle(area)
	pipe, err := pipes.NominalFor(dmin, p.SDR)
	if err != nil {
		return PipeDesign{}, err
	}
	inner, err := pipes.InnerDiameter(pipe.Nominal, p.SDR)
	if err != nil {
		return PipeDesign{}, err
	}
	return PipeDesign{
		CriticalVelocity: vc,
		MinArea:          area,
		MinDiameter:      dmin,
		Nominal:          pipe.Nominal,
		Outer:            pipe.Outer,
		InnerDiameter:    inner,
	}, nil
}
