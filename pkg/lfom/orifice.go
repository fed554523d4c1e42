package lfom

import (
	"github.com/matzehuels/lfom/pkg/errors"
	"github.com/matzehuels/lfom/pkg/hydraulics"
)

// DrillCatalog snaps a diameter down to a stocked drill bit.
// [*catalog.Series] satisfies it.
type DrillCatalog interface {
	Floor(x float64) (float64, error)
}

// OrificeDesign is the sizing result for the orifice drill bit.
type OrificeDesign struct {
	// TopArea is the Stout-weir area of the top row band.
	TopArea float64 `json:"top_area"`

	// MaxDiameter is the circle diameter with area TopArea.
	MaxDiameter float64 `json:"max_diameter"`

	// Bound is min(row spacing, MaxDiameter); the chosen bit never exceeds it.
	Bound float64 `json:"bound"`

	// Diameter is the largest catalog drill not larger than Bound.
	Diameter float64 `json:"diameter"`
}

// SizeOrifice chooses the orifice diameter. The top row band, centred half a
// spacing below the surface, sets the largest area an orifice may have; the
// diameter is further capped at the row spacing so adjacent rows never overlap.
func SizeOrifice(q float64, plan RowPlan, p Params, drills DrillCatalog) (OrificeDesign, error) {
	if err := errors.ValidatePositive("flow", q); err != nil {
		return OrificeDesign{}, err
	}
	if plan.Count <= 0 || !(plan.Spacing > 0) {
		return OrificeDesign{}, errors.New(errors.ErrCodeInvalidInput, "row plan is empty")
	}
	if drills == nil {
		return OrificeDesign{}, errors.New(errors.ErrCodeInvalidInput, "drill catalog is required")
	}

	w, err := WidthStout(plan.Headloss, plan.Headloss-plan.Spacing/2, p)
	if err != nil {
		return OrificeDesign{}, err
	}
	area := q * w * plan.Spacing
	dmax := hydraulics.DiamCircle(area)
	bound := min(plan.Spacing, dmax)

	d, err := drills.Floor(bound)
	if err != nil {
		return OrificeDesign{}, errors.Annotate(err,
			"no drill bit fits within %g m", bound)
	}
	return OrificeDesign{
		TopArea:     area,
		MaxDiameter: dmax,
		Bound:       bound,
		Diameter:    d,
	}, nil
}
