// Package app implements the application layer for tbrun.
package app

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/tbrun/internal/adapters/telemetry/progrock"
	"go.trai.ch/tbrun/internal/core/domain"
	"go.trai.ch/tbrun/internal/core/ports"
	"go.trai.ch/tbrun/internal/engine/pipeline"
	"go.trai.ch/tbrun/internal/tui"
	"go.trai.ch/zerr"
)

// App ties the configuration layer to the pipeline. Each public method
// corresponds to one CLI command.
type App struct {
	configLoader ports.ConfigLoader
	pipeline     *pipeline.Pipeline
	logger       ports.Logger
	telemetry    ports.Telemetry
	teaOptions   []tea.ProgramOption
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	pipe *pipeline.Pipeline,
	logger ports.Logger,
	telemetry ports.Telemetry,
) *App {
	return &App{
		configLoader: loader,
		pipeline:     pipe,
		logger:       logger,
		telemetry:    telemetry,
	}
}

// WithTeaOptions adds Bubble Tea program options. Used by tests to run
// the TUI headless.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// RunOptions carries per-invocation overrides from the CLI. Flags win
// over config file values.
type RunOptions struct {
	// ConfigPath is the config file to load the workspace from.
	ConfigPath string
	// Target overrides the config file's target when non-empty.
	Target string
	// Minimal restricts the compile to the target's dependency cone.
	Minimal bool
	// Elaborate stops the simulate step right after elaboration.
	Elaborate bool
	// Extra is passed through to the toolchain verbatim.
	Extra []string
	// TUI renders phase progress in the terminal instead of streaming
	// raw toolchain output.
	TUI bool
}

// RunAll executes the full pipeline: clean, validate, compile, relocate,
// clean again, simulate.
func (a *App) RunAll(ctx context.Context, opts RunOptions) error {
	defer a.close()
	ws, err := a.workspace(opts)
	if err != nil {
		return err
	}
	return a.runWithUI(ctx, opts.TUI, func(ctx context.Context) error {
		return a.pipeline.RunAll(ctx, ws)
	})
}

// Compile cleans, compiles and relocates without simulating.
func (a *App) Compile(ctx context.Context, opts RunOptions) error {
	defer a.close()
	ws, err := a.workspace(opts)
	if err != nil {
		return err
	}
	return a.runWithUI(ctx, opts.TUI, func(ctx context.Context) error {
		return a.pipeline.CompileOnly(ctx, ws)
	})
}

// SimulatePrecompiled simulates against a previously relocated artifact,
// skipping clean, compile and relocate.
func (a *App) SimulatePrecompiled(ctx context.Context, opts RunOptions) error {
	defer a.close()
	ws, err := a.workspace(opts)
	if err != nil {
		return err
	}
	return a.runWithUI(ctx, opts.TUI, func(ctx context.Context) error {
		return a.pipeline.SimulatePrecompiled(ctx, ws)
	})
}

// Clean removes the simulation output directory.
func (a *App) Clean(ctx context.Context, opts RunOptions) error {
	defer a.close()
	ws, err := a.workspace(opts)
	if err != nil {
		return err
	}
	return a.pipeline.CleanOnly(ctx, ws)
}

// workspace loads the config file and folds the CLI overrides in.
func (a *App) workspace(opts RunOptions) (*domain.Workspace, error) {
	ws, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if opts.Target != "" {
		ws.Target = domain.Target(opts.Target)
	}
	if opts.Minimal {
		ws.Flags.Minimal = true
	}
	if opts.Elaborate {
		ws.Flags.Elaborate = true
	}
	ws.Flags.Extra = append(ws.Flags.Extra, opts.Extra...)

	return ws, nil
}

// runWithUI runs fn, optionally under the phase progress TUI. The UI
// subscribes to the telemetry stream; closing telemetry ends the stream
// and shuts the UI down.
func (a *App) runWithUI(ctx context.Context, enabled bool, fn func(context.Context) error) error {
	provider, ok := a.telemetry.(interface{ Source() *progrock.Stream })
	if !enabled || !ok || provider.Source() == nil {
		return fn(ctx)
	}

	// The TUI owns the terminal; raw toolchain output would tear the
	// screen apart. It stays visible through the log tail.
	a.pipeline.SetOutput(io.Discard, io.Discard)

	model := tui.NewModel(provider.Source())
	opts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(os.Stderr)}, a.teaOptions...)
	program := tea.NewProgram(model, opts...)

	uiDone := make(chan error, 1)
	go func() {
		_, err := program.Run()
		uiDone <- err
	}()

	err := fn(ctx)

	a.close()
	if uiErr := <-uiDone; uiErr != nil {
		a.logger.Warn("terminal UI exited with error: " + uiErr.Error())
	}
	return err
}

func (a *App) close() {
	if err := a.telemetry.Close(); err != nil {
		a.logger.Warn("failed to close telemetry recorder: " + err.Error())
	}
}
