// Package catalog holds the discrete component catalogs an LFOM design is
// snapped to: standard pipe sizes and drill-bit diameters.
//
// Catalogs are data, not code. The defaults are embedded TOML files
// (data/pipes.toml, data/drills.toml) whose sizes are exact decimal strings;
// they are converted to metres once and exposed through immutable types:
//
//   - [Series] is an ordered set of sizes with [Series.Floor] ("largest ≤ x")
//     and [Series.Ceil] ("smallest ≥ x") queries.
//   - [PipeCatalog] maps nominal sizes to outside diameters and answers
//     "smallest available pipe whose inner diameter at a dimension ratio is at
//     least x" via [PipeCatalog.NominalFor].
//
// Lookups that find no qualifying entry fail with the CATALOG_EXHAUSTED code
// from pkg/errors; they never fall back to an undersized component.
//
// User-supplied catalogs in the same format can be read with [LoadPipes] and
// [LoadDrills].
package catalog
