package lfom

import (
	"github.com/matzehuels/lfom/pkg/errors"
)

// Default design parameters.
const (
	DefaultSDR            = 26
	DefaultRatioVCOrifice = 0.63
	DefaultRatioSafety    = 1.5
	DefaultOrificeSpacing = 0.01 // m
	DefaultHeadloss       = 0.20 // m
)

// Params is the immutable configuration of one design run. It is passed by
// value into every stage; there is no package-level default instance.
type Params struct {
	// SDR is the pipe dimension-ratio class used for catalog lookups.
	SDR float64 `json:"sdr"`

	// RatioVCOrifice is the vena-contracta discharge coefficient.
	RatioVCOrifice float64 `json:"ratio_vc_orifice"`

	// RatioSafety multiplies the minimum pipe area.
	RatioSafety float64 `json:"ratio_safety"`

	// OrificeSpacing is the minimum edge-to-edge distance between orifices
	// in a row, in metres.
	OrificeSpacing float64 `json:"s_orifice"`

	// Headloss is the default total headloss in metres, used when a caller
	// does not supply one.
	Headloss float64 `json:"hl"`
}

// DefaultParams returns a fresh copy of the default parameter set.
func DefaultParams() Params {
	return Params{
		SDR:            DefaultSDR,
		RatioVCOrifice: DefaultRatioVCOrifice,
		RatioSafety:    DefaultRatioSafety,
		OrificeSpacing: DefaultOrificeSpacing,
		Headloss:       DefaultHeadloss,
	}
}

// Validate checks every field and returns an INVALID_CONFIG error naming the
// first bad one.
func (p Params) Validate() error {
	if !(p.SDR > 2) {
		return errors.New(errors.ErrCodeInvalidConfig, "sdr must exceed 2, got %g", p.SDR)
	}
	if err := errors.ValidateFraction("ratio_vc_orifice", p.RatioVCOrifice); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "ratio_vc_orifice")
	}
	if err := errors.ValidateFinite("ratio_safety", p.RatioSafety); err != nil || p.RatioSafety < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "ratio_safety must be at least 1, got %g", p.RatioSafety)
	}
	if err := errors.ValidateNonNegative("s_orifice", p.OrificeSpacing); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "s_orifice")
	}
	if err := errors.ValidatePositive("hl", p.Headloss); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "hl")
	}
	return nil
}
