package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lfom/pkg/catalog"
	"github.com/matzehuels/lfom/pkg/units"
)

// catalogCommand creates the catalog command.
func (c *CLI) catalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List pipe sizes and drill series",
	}

	cmd.AddCommand(c.catalogPipesCommand())
	cmd.AddCommand(c.catalogDrillsCommand())

	return cmd
}

// catalogPipesCommand creates the "catalog pipes" subcommand.
func (c *CLI) catalogPipesCommand() *cobra.Command {
	var (
		sdr float64
		all bool
	)

	cmd := &cobra.Command{
		Use:   "pipes",
		Short: "List pipe sizes with their inner diameter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			cat, _, err := cfg.Catalogs()
			if err != nil {
				return err
			}
			pl, ok := cat.Pipes.(interface{ Pipes() []catalog.Pipe })
			if !ok {
				return fmt.Errorf("pipe catalog cannot be listed")
			}
			if sdr == 0 {
				sdr = cfg.Params().SDR
			}
			if !(sdr > 2) {
				return fmt.Errorf("--sdr must exceed 2, got %g", sdr)
			}
			printBlock(pipeTable(pl.Pipes(), sdr, all))
			return nil
		},
	}

	cmd.Flags().Float64Var(&sdr, "sdr", 0, "dimension ratio for the inner diameter column (default from config)")
	cmd.Flags().BoolVar(&all, "all", false, "include sizes that are not stocked")

	return cmd
}

// catalogDrillsCommand creates the "catalog drills" subcommand.
func (c *CLI) catalogDrillsCommand() *cobra.Command {
	var series string

	cmd := &cobra.Command{
		Use:   "drills",
		Short: "List the drill bits of a series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			sel := *cfg
			if series != "" && series != cfg.Catalog.Drills {
				sel.Catalog.Drills = series
				sel.Catalog.DrillFile = ""
			}
			cat, _, err := sel.Catalogs()
			if err != nil {
				return err
			}
			sl, ok := cat.Drills.(interface{ Values() []float64 })
			if !ok {
				return fmt.Errorf("drill series cannot be listed")
			}
			printBlock(drillTable(sl.Values(), sel.Catalog.Drills))
			return nil
		},
	}

	cmd.Flags().StringVar(&series, "series", "", "drill series: imperial, metric (default from config)")

	return cmd
}

func pipeTable(pipes []catalog.Pipe, sdr float64, all bool) string {
	var rows [][]string
	for _, p := range pipes {
		if !p.Available && !all {
			continue
		}
		stocked := "✓"
		if !p.Available {
			stocked = ""
		}
		rows = append(rows, []string{
			units.FormatInches(p.Nominal),
			units.FormatLength(p.Outer),
			units.FormatLength(p.Inner(sdr)),
			stocked,
		})
	}
	return listTable([]string{"Nominal", "Outer ⌀", "Inner ⌀ (SDR " + strconv.FormatFloat(sdr, 'g', -1, 64) + ")", "Stocked"}, rows)
}

func drillTable(sizes []float64, series string) string {
	rows := make([][]string, len(sizes))
	for i, d := range sizes {
		rows[i] = []string{strconv.Itoa(i + 1), drillLabel(d, series)}
	}
	return listTable([]string{"#", "Size"}, rows)
}

func listTable(headers []string, rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1).Foreground(colorWhite)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return cell
		}).
		Render()
}
