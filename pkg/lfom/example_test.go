package lfom_test

import (
	"fmt"

	"github.com/matzehuels/lfom/pkg/lfom"
)

func ExampleDesign() {
	// Design a meter for 12 L/s with 20 cm of headloss
	rec, err := lfom.Design(0.012, 0.2, lfom.DefaultParams(), lfom.DefaultCatalogs())
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println("Rows:", rec.Rows.Count)
	fmt.Printf("Pipe: %.0f in\n", rec.Pipe.Nominal/0.0254)
	fmt.Printf("Drill: %.5f in\n", rec.Orifice.Diameter/0.0254)
	fmt.Println("Counts:", rec.Counts())
	fmt.Println("Quirks:", rec.Quirks)
	// Output:
	// Rows: 8
	// Pipe: 8 in
	// Drill: 0.96875 in
	// Counts: [10 3 3 2 3 1 2 2]
	// Quirks: [row_count_forced_to_8]
}

func ExampleWidthStout() {
	w, _ := lfom.WidthStout(0.4, 0.4, lfom.DefaultParams())
	fmt.Printf("%.4f s/m²\n", w)
	// Output:
	// 0.9019 s/m²
}

func ExamplePlanRows() {
	// Large flows use 4 rows; everything else is forced to 8
	for _, q := range []float64{0.05, 0.02} {
		plan, _ := lfom.PlanRows(q, 0.2, lfom.DefaultParams())
		fmt.Printf("%g m³/s: %d rows (estimate %.2f, forced %v)\n", q, plan.Count, plan.Estimate, plan.Forced)
	}
	// Output:
	// 0.05 m³/s: 4 rows (estimate 2.46, forced false)
	// 0.02 m³/s: 8 rows (estimate 6.16, forced true)
}
