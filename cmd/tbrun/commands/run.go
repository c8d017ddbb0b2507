package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [-- toolchain args...]",
		Short: "Clean, compile and simulate the configured testbench",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.RunAll(cmd.Context(), c.options(cmd, args))
		},
	}
	cmd.Flags().Bool("minimal", false, "Compile only the target's dependency cone")
	cmd.Flags().Bool("elaborate", false, "Elaborate the design without running the simulation")
	return cmd
}
