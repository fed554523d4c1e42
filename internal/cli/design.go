package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lfom/pkg/catalog"
	"github.com/matzehuels/lfom/pkg/errors"
	"github.com/matzehuels/lfom/pkg/lfom"
	"github.com/matzehuels/lfom/pkg/pipeline"
	"github.com/matzehuels/lfom/pkg/units"
)

// designOpts holds the flags shared by the design and curve commands.
type designOpts struct {
	flow     units.Flow   // design flow
	headloss units.Length // headloss at full flow (default: config)
	hlSet    bool         // --headloss given explicitly
	sdr      float64      // pipe dimension ratio (default: config)
	drills   string       // drill series name (default: config)
	json     bool         // print JSON instead of tables
	output   string       // also write JSON here
	noCache  bool
	refresh  bool
}

// addDesignFlags registers the flags every design-driven command takes.
func addDesignFlags(cmd *cobra.Command, o *designOpts) {
	cmd.Flags().VarP(&o.flow, "flow", "q", `design flow, e.g. "12 L/s", "0.5 m^3/h", "150 gpm"`)
	cmd.Flags().Var(&o.headloss, "headloss", `headloss at full flow, e.g. "20 cm" (default from config)`)
	cmd.Flags().Float64Var(&o.sdr, "sdr", 0, "pipe standard dimension ratio (default from config)")
	cmd.Flags().StringVar(&o.drills, "drills", "", "drill series: imperial, metric (default from config)")
	cmd.Flags().BoolVar(&o.json, "json", false, "print JSON")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "write JSON to file")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "recompute and overwrite the cached design")
	_ = cmd.MarkFlagRequired("flow")
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		o.hlSet = cmd.Flags().Changed("headloss")
	}
}

// designCommand creates the design command.
func (c *CLI) designCommand() *cobra.Command {
	var (
		o       designOpts
		pickSDR bool
	)

	cmd := &cobra.Command{
		Use:   "design",
		Short: "Design a linear flow orifice meter",
		Long: `Design a linear flow orifice meter for a flow and headloss.

The design picks the smallest pipe that keeps the inflow below the critical
velocity, the largest drill bit that fits the row spacing, and the number of
orifices in every row. It reports the flow the drilled meter delivers at each
row against the linear target.

Results are cached; use --refresh to recompute.`,
		Example: `  lfom design --flow "12 L/s"
  lfom design --flow "5 L/s" --headloss "35 cm" --drills metric
  lfom design --flow "150 gpm" --pick-sdr
  lfom design --flow "12 L/s" --json -o meter.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDesign(cmd.Context(), &o, pickSDR)
		},
	}

	addDesignFlags(cmd, &o)
	cmd.Flags().BoolVar(&pickSDR, "pick-sdr", false, "choose the pipe dimension ratio interactively")

	return cmd
}

func (c *CLI) runDesign(ctx context.Context, o *designOpts, pickSDR bool) error {
	opts, err := c.pipelineOptions(o)
	if err != nil {
		return err
	}
	if pickSDR {
		sdr, ok, err := pickSDRFor(opts)
		if err != nil {
			return err
		}
		if !ok {
			printInfo("No dimension ratio selected")
			return nil
		}
		opts.Params.SDR = sdr
	}

	runner, err := c.newRunner(ctx, o.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var spin *Spinner
	if !o.json {
		spin = newSpinnerWithContext(ctx, "Designing meter...")
		spin.Start()
	}
	res, err := runner.Execute(ctx, opts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	if o.output != "" {
		if err := writeJSONFile(o.output, res); err != nil {
			return err
		}
	}
	if o.json {
		return printJSON(res)
	}

	printDesign(res, opts.DrillSeries)
	if o.output != "" {
		printFile(o.output)
	}
	printNewline()
	printNextStep("Flow curve", fmt.Sprintf("lfom curve --flow %q", units.FormatFlow(res.Record.Flow)))
	return nil
}

// pipelineOptions merges flags over the configuration.
func (c *CLI) pipelineOptions(o *designOpts) (pipeline.Options, error) {
	cfg, err := c.config()
	if err != nil {
		return pipeline.Options{}, err
	}
	if o.flow.CubicMetresPerSecond() == 0 {
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "--flow must be positive")
	}
	// An unset headloss is zero and takes the config value downstream, so an
	// explicit zero has to be rejected here.
	if o.hlSet && o.headloss.Metres() <= 0 {
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "--headloss must be positive, got %s", o.headloss)
	}

	p := cfg.Params()
	if o.sdr != 0 {
		p.SDR = o.sdr
	}

	sel := *cfg
	if o.drills != "" && o.drills != cfg.Catalog.Drills {
		sel.Catalog.Drills = o.drills
		sel.Catalog.DrillFile = ""
	}
	cat, hash, err := sel.Catalogs()
	if err != nil {
		return pipeline.Options{}, err
	}

	return pipeline.Options{
		Flow:        o.flow.CubicMetresPerSecond(),
		Headloss:    o.headloss.Metres(),
		Params:      p,
		DrillSeries: sel.Catalog.Drills,
		Refresh:     o.refresh,
		Logger:      c.Logger,
		Catalogs:    &cat,
		CatalogHash: hash,
	}, nil
}

// pickSDRFor offers every dimension ratio the pipe catalog is stocked in.
func pickSDRFor(opts pipeline.Options) (float64, bool, error) {
	pl, ok := opts.Catalogs.Pipes.(interface{ SDRs() []float64 })
	if !ok {
		return 0, false, fmt.Errorf("pipe catalog does not list dimension ratios")
	}
	hl := opts.Headloss
	if hl == 0 {
		hl = opts.Params.Headloss
	}
	options := sdrOptions(opts.Flow, hl, opts.Params, opts.Catalogs.Pipes, pl.SDRs())
	return pickSDR(options, opts.Params.SDR)
}

// =============================================================================
// Output
// =============================================================================

func printDesign(res *pipeline.Result, series string) {
	rec := res.Record

	printSuccess("Designed meter for %s at %s headloss",
		StyleNumber.Render(units.FormatFlow(rec.Flow)),
		StyleNumber.Render(units.FormatLength(rec.Headloss)))
	printStats(rec.Rows.Count, rec.Total(), res.CacheHit)
	printNewline()

	printKeyValue("Pipe", fmt.Sprintf("%s nominal, SDR %g, inner %s",
		units.FormatInches(rec.Pipe.Nominal), rec.Params.SDR, units.FormatLength(rec.Pipe.InnerDiameter)))
	printKeyValue("Drill", drillLabel(rec.Orifice.Diameter, series))
	printKeyValue("Spacing", units.FormatLength(rec.Rows.Spacing))
	printKeyValue("Max/row", strconv.Itoa(rec.MaxPerRow))
	printNewline()

	printBlock(rowTable(rec))
	printNewline()

	printKeyValue("Full flow", fmt.Sprintf("%s (%+.2f%%)",
		units.FormatFlow(rec.Deviation.FullFlow), 100*rec.Deviation.FullFlowError))
	printKeyValue("Max error", fmt.Sprintf("%.2f%% of design flow", 100*rec.Deviation.MaxAbsError))
	for _, q := range rec.Quirks {
		printWarning("%s", quirkText(rec, q))
	}
}

func drillLabel(d float64, series string) string {
	if series == catalog.SeriesImperial {
		return fmt.Sprintf("%s (%s)", units.FormatInches(d), units.FormatLength(d))
	}
	return units.FormatLength(d)
}

func quirkText(rec *lfom.Record, quirk string) string {
	switch quirk {
	case lfom.QuirkRowCountForced:
		return fmt.Sprintf("row count forced to %d (estimate %.2f)", rec.Rows.Count, rec.Rows.Estimate)
	case lfom.QuirkRowsFloored:
		return "some rows wanted fewer than zero orifices and were left empty"
	case lfom.QuirkRowsCapped:
		return fmt.Sprintf("some rows were capped at %d orifices and under-deliver", rec.MaxPerRow)
	}
	return quirk
}

// rowTable renders the per-row layout, top row first as drilled.
func rowTable(rec *lfom.Record) string {
	rows := make([][]string, 0, len(rec.RowDetail))
	for i := len(rec.RowDetail) - 1; i >= 0; i-- {
		r := rec.RowDetail[i]
		clamp := ""
		if r.Clamp != lfom.ClampNone {
			clamp = string(r.Clamp)
		}
		rows = append(rows, []string{
			strconv.Itoa(r.Index + 1),
			units.FormatLength(r.Height),
			units.FormatFlow(r.Target),
			strconv.Itoa(r.Count),
			fmt.Sprintf("%+.2f%%", 100*rec.Deviation.Errors[i]),
			clamp,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cell := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Row", "Height", "Target", "Orifices", "Error", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle.Padding(0, 1)
			case col == 3:
				return cell.Foreground(colorCyan).Align(lipgloss.Right)
			case col == 5:
				return cell.Foreground(colorYellow)
			default:
				return cell.Foreground(colorWhite)
			}
		}).
		Render()
}

func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
