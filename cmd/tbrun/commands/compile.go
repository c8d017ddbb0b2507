package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [-- toolchain args...]",
		Short: "Compile the workspace and relocate the testbench artifact",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Compile(cmd.Context(), c.options(cmd, args))
		},
	}
	cmd.Flags().Bool("minimal", false, "Compile only the target's dependency cone")
	cmd.Flags().Bool("elaborate", false, "Elaborate the design after compiling")
	return cmd
}
