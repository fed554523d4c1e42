package lfom

import (
	"github.com/matzehuels/lfom/pkg/catalog"
	"github.com/matzehuels/lfom/pkg/errors"
	"github.com/matzehuels/lfom/pkg/hydraulics"
)

// Quirks reported on a [Record].
const (
	// QuirkRowCountForced means the row estimate fell in 5..10 and the row
	// count was forced to 8.
	QuirkRowCountForced = "row_count_forced_to_8"

	// QuirkRowsFloored means at least one row's ideal count was negative
	// and was raised to zero.
	QuirkRowsFloored = "row_count_floored_at_zero"

	// QuirkRowsCapped means at least one row wanted more orifices than fit
	// around the pipe.
	QuirkRowsCapped = "row_count_capped"
)

// Catalogs bundles the lookup tables a design draws from.
type Catalogs struct {
	Pipes  PipeCatalog
	Drills DrillCatalog
}

// DefaultCatalogs returns the embedded pipe catalog and imperial drill series.
func DefaultCatalogs() Catalogs {
	return Catalogs{
		Pipes:  catalog.DefaultPipes(),
		Drills: catalog.DefaultDrills(),
	}
}

// Row is one orifice row of a finished design.
type Row struct {
	Index  int     `json:"index"`
	Height float64 `json:"height"`
	Target float64 `json:"target"`
	Ideal  float64 `json:"ideal"`
	Count  int     `json:"count"`
	Clamp  Clamp   `json:"clamp"`
}

// Record is the complete, self-describing result of one design run. All
// values are SI. Two runs with equal inputs produce equal records.
type Record struct {
	Flow      float64       `json:"flow"`
	Headloss  float64       `json:"headloss"`
	Params    Params        `json:"params"`
	Pipe      PipeDesign    `json:"pipe"`
	Rows      RowPlan       `json:"rows"`
	Orifice   OrificeDesign `json:"orifice"`
	MaxPerRow int           `json:"max_per_row"`
	RowDetail []Row         `json:"row_detail"`
	Deviation Deviation     `json:"deviation"`
	Quirks    []string      `json:"quirks"`
}

// Counts returns the orifice count per row, bottom row first.
func (r *Record) Counts() []int {
	cs := make([]int, len(r.RowDetail))
	for i, row := range r.RowDetail {
		cs[i] = row.Count
	}
	return cs
}

// Total returns the total number of orifices to drill.
func (r *Record) Total() int {
	n := 0
	for _, row := range r.RowDetail {
		n += row.Count
	}
	return n
}

// Layout returns the drilled geometry, for flow queries at arbitrary heights.
func (r *Record) Layout() Layout {
	o := hydraulics.Orifice{Diameter: r.Orifice.Diameter, Cd: r.Params.RatioVCOrifice}
	return NewLayout(r.Rows.Spacing, r.Headloss, o, r.Counts())
}

// Design runs every stage for flow q and headloss hl and returns the record.
// The first failing stage aborts the run; no partial record is returned.
func Design(q, hl float64, p Params, cat Catalogs) (*Record, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := errors.ValidatePositive("flow", q); err != nil {
		return nil, err
	}
	if err := errors.ValidatePositive("headloss", hl); err != nil {
		return nil, err
	}
	// The record's params describe this run, not the caller's default.
	p.Headloss = hl

	if cat.Pipes == nil || cat.Drills == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "pipe and drill catalogs are required")
	}

	plan, err := PlanRows(q, hl, p)
	if err != nil {
		return nil, errors.Annotate(err, "plan rows")
	}
	pipe, err := SizePipe(q, hl, p, cat.Pipes)
	if err != nil {
		return nil, errors.Annotate(err, "size pipe")
	}
	orf, err := SizeOrifice(q, plan, p, cat.Drills)
	if err != nil {
		return nil, errors.Annotate(err, "size orifice")
	}
	maxPerRow, err := MaxOrificesPerRow(pipe.InnerDiameter, orf.Diameter, p.OrificeSpacing)
	if err != nil {
		return nil, errors.Annotate(err, "row capacity")
	}
	ramp, err := FlowRamp(q, plan.Count)
	if err != nil {
		return nil, err
	}

	o, err := hydraulics.NewOrifice(orf.Diameter, p.RatioVCOrifice)
	if err != nil {
		return nil, err
	}
	alloc, err := AllocateRows(ramp, plan.Spacing, o, maxPerRow)
	if err != nil {
		return nil, errors.Annotate(err, "allocate rows")
	}
	layout := NewLayout(plan.Spacing, hl, o, alloc.Counts)
	dev, err := Verify(layout, q, ramp)
	if err != nil {
		return nil, errors.Annotate(err, "verify")
	}

	heights := layout.RowHeights()
	rows := make([]Row, plan.Count)
	for i := range rows {
		rows[i] = Row{
			Index:  i,
			Height: heights[i],
			Target: ramp[i],
			Ideal:  alloc.Ideal[i],
			Count:  alloc.Counts[i],
			Clamp:  alloc.Clamps[i],
		}
	}

	return &Record{
		Flow:      q,
		Headloss:  hl,
		Params:    p,
		Pipe:      pipe,
		Rows:      plan,
		Orifice:   orf,
		MaxPerRow: maxPerRow,
		RowDetail: rows,
		Deviation: dev,
		Quirks:    quirks(plan, alloc),
	}, nil
}

func quirks(plan RowPlan, alloc RowAllocation) []string {
	qs := []string{}
	if plan.Forced {
		qs = append(qs, QuirkRowCountForced)
	}
	var floored, capped bool
	for _, c := range alloc.Clamps {
		floored = floored || c == ClampFloor
		capped = capped || c == ClampCap
	}
	if floored {
		qs = append(qs, QuirkRowsFloored)
	}
	if capped {
		qs = append(qs, QuirkRowsCapped)
	}
	return qs
}
