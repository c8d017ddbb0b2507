// Package main is the entry point for the tbrun CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/tbrun/cmd/tbrun/commands"
	"go.trai.ch/tbrun/internal/app"
	"go.trai.ch/tbrun/internal/core/domain"
	_ "go.trai.ch/tbrun/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		// Write directly to stderr
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	// 2. Interface - CLI
	cli := commands.New(components.App)

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		components.Logger.Error(err)
		// A non-zero toolchain exit becomes this process's exit code so
		// CI wrappers see the simulator's verdict directly. Everything
		// else (config errors, engine failures, interruption) exits 1.
		if code, ok := domain.ExitCode(err); ok {
			return code
		}
		return 1
	}
	return 0
}
