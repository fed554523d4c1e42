package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/lfom/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The --config flag is bound here; main binds --verbose because it owns the
// log level.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "lfom designs linear flow orifice meters",
		Long: `lfom designs linear flow orifice meters: vertical pipes drilled with rows of
orifices so that the water level upstream rises in proportion to the flow.

Given a design flow and the allowed headloss it picks the pipe, the drill bit
and the number of orifices in every row, and reports how closely the drilled
meter follows the ideal linear response.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.ConfigPath, "config", "c", "", "config file (default: $LFOM_CONFIG or ~/.config/lfom/lfom.toml)")

	root.AddCommand(c.designCommand())
	root.AddCommand(c.curveCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}
