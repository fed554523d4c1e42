package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lfom/pkg/lfom"
	"github.com/matzehuels/lfom/pkg/units"
)

// curvePoint is one sample of the flow curve.
type curvePoint struct {
	Height float64 `json:"height"`
	Actual float64 `json:"actual"`
	Ideal  float64 `json:"ideal"`
	Error  float64 `json:"error"`
}

// curveCommand creates the curve command.
func (c *CLI) curveCommand() *cobra.Command {
	var (
		o       designOpts
		samples int
	)

	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Print the flow of a designed meter against water level",
		Long: `Print the flow of a designed meter against water level.

The meter is designed exactly as by 'lfom design' (and shares its cache), then
sampled at evenly spaced water levels from the bottom row to the headloss.
Each sample shows the flow through the drilled orifices, the ideal linear
flow and their difference as a fraction of the design flow.`,
		Example: `  lfom curve --flow "12 L/s"
  lfom curve --flow "12 L/s" --samples 41 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCurve(cmd.Context(), &o, samples)
		},
	}

	addDesignFlags(cmd, &o)
	cmd.Flags().IntVarP(&samples, "samples", "n", defaultCurveSamples, "number of water levels to sample")

	return cmd
}

func (c *CLI) runCurve(ctx context.Context, o *designOpts, samples int) error {
	logger := loggerFromContext(ctx)

	opts, err := c.pipelineOptions(o)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, o.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	points := flowCurve(res.Record, samples)
	prog.done("Sampled flow curve", "points", len(points))

	if o.output != "" {
		if err := writeJSONFile(o.output, points); err != nil {
			return err
		}
	}
	if o.json {
		return printJSON(points)
	}

	printSuccess("Flow curve for %s at %s headloss",
		StyleNumber.Render(units.FormatFlow(res.Record.Flow)),
		StyleNumber.Render(units.FormatLength(res.Record.Headloss)))
	printNewline()
	printBlock(curveTable(points))
	if o.output != "" {
		printFile(o.output)
	}
	return nil
}

// flowCurve samples the drilled and ideal flow at the same heights.
func flowCurve(rec *lfom.Record, samples int) []curvePoint {
	var points []curvePoint
	for h, q := range rec.Layout().Curve(samples) {
		points = append(points, curvePoint{Height: h, Actual: q})
	}
	i := 0
	for _, q := range lfom.IdealCurve(rec.Flow, rec.Headloss, samples) {
		points[i].Ideal = q
		points[i].Error = (points[i].Actual - q) / rec.Flow
		i++
	}
	return points
}

func curveTable(points []curvePoint) string {
	rows := make([][]string, len(points))
	for i, p := range points {
		rows[i] = []string{
			units.FormatLength(p.Height),
			units.FormatFlow(p.Actual),
			units.FormatFlow(p.Ideal),
			fmt.Sprintf("%+.2f%%", 100*p.Error),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Level", "Actual", "Ideal", "Error").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 1 {
				return cell.Foreground(colorCyan)
			}
			return cell.Foreground(colorWhite)
		}).
		Render()
}
