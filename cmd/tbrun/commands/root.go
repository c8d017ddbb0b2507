// Package commands implements the CLI commands for the tbrun testbench runner.
package commands

import (
	"context"

	"github.com/spf13/cobra"
	"go.trai.ch/tbrun/internal/app"
	"go.trai.ch/tbrun/internal/build"
)

// CLI represents the command line interface for tbrun.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "tbrun",
		Short:         "Compile and simulate HDL testbenches in a disposable container",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.String(),
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", "tbrun.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringP("target", "t", "", "Testbench target, overrides the config file")
	rootCmd.PersistentFlags().Bool("tui", false, "Render phase progress as a terminal UI")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newCompileCmd())
	rootCmd.AddCommand(c.newSimulateCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// options collects the flag values a subcommand shares with the app
// layer. Positional args are forwarded to the toolchain verbatim.
func (c *CLI) options(cmd *cobra.Command, args []string) app.RunOptions {
	configPath, _ := cmd.Flags().GetString("config")
	target, _ := cmd.Flags().GetString("target")
	minimal, _ := cmd.Flags().GetBool("minimal")
	elaborate, _ := cmd.Flags().GetBool("elaborate")
	useTUI, _ := cmd.Flags().GetBool("tui")
	return app.RunOptions{
		ConfigPath: configPath,
		Target:     target,
		Minimal:    minimal,
		Elaborate:  elaborate,
		Extra:      args,
		TUI:        useTUI,
	}
}
