package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newSimulateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a previously compiled testbench without recompiling",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.SimulatePrecompiled(cmd.Context(), c.options(cmd, args))
		},
	}
}
