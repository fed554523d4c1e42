// Package pkg provides the libraries behind the lfom linear flow orifice
// meter designer.
//
// # Overview
//
// A linear flow orifice meter is a vertical pipe drilled with rows of
// orifices whose upstream water level rises linearly with flow. The pkg
// directory is organized into three areas:
//
//  1. Domain - [lfom] (the design stages), [hydraulics] (orifice flow),
//     [catalog] (pipe and drill tables) and [units] (unit-tagged quantities)
//  2. Infrastructure - [cache], [config], [errors], [observability] and
//     [buildinfo]
//  3. Orchestration - [pipeline] (cached design runs shared by the CLI and
//     the HTTP API)
//
// # Architecture
//
//	flow, headloss, params
//	         ↓
//	    [lfom.PlanRows] → [lfom.SizePipe] → [lfom.SizeOrifice]
//	         ↓
//	    [lfom.MaxOrificesPerRow] → [lfom.FlowRamp] → [lfom.AllocateRows]
//	         ↓
//	    [lfom.Verify] → [lfom.Record]
//
// # Quick Start
//
//	rec, err := lfom.Design(0.012, 0.2, lfom.DefaultParams(), lfom.DefaultCatalogs())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(rec.Counts()) // [10 3 3 2 3 1 2 2]
//
// Through the cached pipeline:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Flow: 0.012})
package pkg
