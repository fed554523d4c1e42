// Package lfom designs linear flow orifice meters.
//
// A linear flow orifice meter (LFOM) is a vertical pipe drilled with rows of
// equal circular orifices. Water entering the pipe through the orifices drops
// over a free fall, so the water level upstream of the pipe rises linearly with
// flow. Operators read the flow from the level and dose chemicals in
// proportion to it.
//
// # Design stages
//
// [Design] runs the stages in a fixed order, each a pure function of the
// previous results:
//
//  1. [PlanRows] estimates the row count from the Stout-weir width
//     ([WidthStout]) and snaps it to 4 or 8 rows.
//  2. [SizePipe] picks the smallest catalog pipe that keeps the flow below the
//     [CriticalVelocity].
//  3. [SizeOrifice] picks the largest catalog drill bit that fits the top row
//     band and the row spacing.
//  4. [MaxOrificesPerRow] bounds how many orifices fit around the pipe.
//  5. [FlowRamp] sets the flow target for each row.
//  6. [AllocateRows] assigns counts bottom-up against the ramp.
//  7. [Verify] measures how far the drilled meter departs from the ramp.
//
// The result is a [Record] carrying every intermediate value, the per-row
// layout and a mandatory [Deviation] block. Known simplifications of the
// procedure are reported in [Record.Quirks] rather than hidden.
//
// # Units
//
// Everything in this package is SI: metres, square metres, m³/s and seconds.
// Conversion from user units happens at the edges in pkg/units.
//
// # Catalogs
//
// Pipe and drill lookups go through the [PipeCatalog] and [DrillCatalog]
// interfaces. [DefaultCatalogs] returns the embedded tables from pkg/catalog.
//
// All functions are pure and safe for concurrent use.
package lfom
