package lfom

import (
	"math"

	"github.com/matzehuels/lfom/pkg/errors"
)

// Row-count policy bounds.
const (
	minRows = 4
	maxRows = 10

	// Designs only ever use 4 or 8 rows.
	rowsSmall = 4
	rowsLarge = 8
)

// RowPlan is the number and vertical spacing of orifice rows. Row 0 is the
// bottom row.
type RowPlan struct {
	Count    int     `json:"count"`
	Spacing  float64 `json:"spacing"`
	Headloss float64 `json:"headloss"`

	// Estimate is the continuous row-count estimate before clamping.
	Estimate float64 `json:"estimate"`

	// Clamped is trunc(Estimate) clamped to [4, 10].
	Clamped int `json:"clamped"`

	// Forced is set when Clamped was neither 4 nor 8 and was forced to 8.
	Forced bool `json:"forced"`
}

// PlanRows decides the row count and spacing for flow q and headloss hl.
//
// The continuous estimate hl·π / (2·WidthStout(hl, hl)·q) is truncated and
// clamped to [4, 10]. Any clamped value other than 4 then becomes 8, so only
// two row-count classes are produced. Intermediate estimates such as 5 or 6
// are not interpolated; the plan records this through Forced.
func PlanRows(q, hl float64, p Params) (RowPlan, error) {
	if err := errors.ValidatePositive("flow", q); err != nil {
		return RowPlan{}, err
	}
	w, err := WidthStout(hl, hl, p)
	if err != nil {
		return RowPlan{}, err
	}

	est := hl * math.Pi / (2 * w * q)
	clamped := int(min(maxRows, max(minRows, math.Trunc(est))))

	n := rowsSmall
	if clamped != rowsSmall {
		n = rowsLarge
	}
	return RowPlan{
		Count:    n,
		Spacing:  hl / float64(n),
		Headloss: hl,
		Estimate: est,
		Clamped:  clamped,
		Forced:   clamped != rowsSmall && clamped != rowsLarge,
	}, nil
}

// NumRows returns only the row count of [PlanRows].
func NumRows(q, hl float64, p Params) (int, error) {
	plan, err := PlanRows(q, hl, p)
	return plan.Count, err
}

// RowSpacing returns only the centre-to-centre row spacing of [PlanRows].
func RowSpacing(q, hl float64, p Params) (float64, error) {
	plan, err := PlanRows(q, hl, p)
	return plan.Spacing, err
}
