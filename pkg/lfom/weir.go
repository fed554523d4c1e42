package lfom

import (
	"math"

	"github.com/matzehuels/lfom/pkg/errors"
	"github.com/matzehuels/lfom/pkg/hydraulics"
)

// WidthStout returns the Stout-weir width per unit flow, in s/m², at depth z
// below the top of a meter with total headloss hl:
//
//	2 / (sqrt(2 g z) · Cd · π · hl)
//
// A Stout weir is the continuous profile whose discharge is linear in head;
// the LFOM approximates it with rows of orifices.
func WidthStout(hl, z float64, p Params) (float64, error) {
	if err := errors.ValidatePositive("headloss", hl); err != nil {
		return 0, err
	}
	if err := errors.ValidatePositive("depth", z); err != nil {
		return 0, err
	}
	if err := errors.ValidateFraction("ratio_vc_orifice", p.RatioVCOrifice); err != nil {
		return 0, err
	}
	return 2 / (math.Sqrt(2*hydraulics.Gravity*z) * p.RatioVCOrifice * math.Pi * hl), nil
}
