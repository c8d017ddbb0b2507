// Package pipeline implements the phase orchestrator.
//
// A full run walks the states Cleaning, Validating, Compiling,
// Relocating, Recleaning, Simulating in that exact order, stopping at
// the first failure. Compile and simulate are separate container
// invocations on purpose: artifacts must cross the boundary through the
// filesystem, which is what makes the precompiled path possible. A
// later invocation can jump straight to simulation using an artifact a
// prior run relocated.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.trai.ch/tbrun/internal/core/domain"
	"go.trai.ch/tbrun/internal/core/ports"
)

// Pipeline sequences the build phases for one workspace at a time.
// Execution is strictly sequential; a single instance must not be shared
// by concurrent runs against the same working directory.
type Pipeline struct {
	runner    ports.Runner
	locator   ports.ArtifactLocator
	logger    ports.Logger
	telemetry ports.Telemetry
	hasher    ports.Hasher
	stores    ports.StoreFactory

	// Toolchain output goes to these sinks in addition to the telemetry
	// vertices. A TUI frontend redirects them to keep the screen intact.
	stdout io.Writer
	stderr io.Writer

	mu    sync.RWMutex
	phase domain.Phase
}

// New creates a new Pipeline.
func New(
	runner ports.Runner,
	locator ports.ArtifactLocator,
	logger ports.Logger,
	telemetry ports.Telemetry,
	hasher ports.Hasher,
	stores ports.StoreFactory,
) *Pipeline {
	return &Pipeline{
		runner:    runner,
		locator:   locator,
		logger:    logger,
		telemetry: telemetry,
		hasher:    hasher,
		stores:    stores,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		phase:     domain.PhaseIdle,
	}
}

// SetOutput redirects the toolchain output sinks. Must be called before
// a run starts.
func (p *Pipeline) SetOutput(stdout, stderr io.Writer) {
	p.stdout = stdout
	p.stderr = stderr
}

// Phase reports the pipeline's current state.
func (p *Pipeline) Phase() domain.Phase {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.phase
}

func (p *Pipeline) transition(phase domain.Phase) {
	p.mu.Lock()
	p.phase = phase
	p.mu.Unlock()
}

// fail moves to the terminal Failed state and surfaces the phase's error
// verbatim. No later phase runs and nothing is retried.
func (p *Pipeline) fail(err error) error {
	p.transition(domain.PhaseFailed)
	return err
}

// RunAll executes the complete pipeline: clean, validate, compile,
// relocate, clean again, simulate.
//
// The target is gated up front as well: a misconfigured invocation must
// not run any command at all, not even the initial clean.
func (p *Pipeline) RunAll(ctx context.Context, ws *domain.Workspace) error {
	if err := ws.Target.Validate(); err != nil {
		return p.fail(err)
	}
	if err := p.clean(ctx, ws, domain.PhaseCleaning); err != nil {
		return p.fail(err)
	}
	if err := p.validate(ctx, ws); err != nil {
		return p.fail(err)
	}
	if err := p.compile(ctx, ws); err != nil {
		return p.fail(err)
	}
	if err := p.relocate(ctx, ws); err != nil {
		return p.fail(err)
	}
	// The compile phase leaves elaboration state in the output tree that
	// must not leak into the simulation.
	if err := p.clean(ctx, ws, domain.PhaseRecleaning); err != nil {
		return p.fail(err)
	}
	if err := p.simulate(ctx, ws); err != nil {
		return p.fail(err)
	}
	p.transition(domain.PhaseDone)
	return nil
}

// CompileOnly cleans, validates, compiles and relocates, leaving an
// artifact in the working directory for a later precompiled simulation.
func (p *Pipeline) CompileOnly(ctx context.Context, ws *domain.Workspace) error {
	if err := ws.Target.Validate(); err != nil {
		return p.fail(err)
	}
	if err := p.clean(ctx, ws, domain.PhaseCleaning); err != nil {
		return p.fail(err)
	}
	if err := p.validate(ctx, ws); err != nil {
		return p.fail(err)
	}
	if err := p.compile(ctx, ws); err != nil {
		return p.fail(err)
	}
	if err := p.relocate(ctx, ws); err != nil {
		return p.fail(err)
	}
	p.transition(domain.PhaseDone)
	return nil
}

// SimulatePrecompiled skips straight to a single simulate invocation,
// reusing the artifact a prior run relocated. No clean, compile or
// relocate command runs.
func (p *Pipeline) SimulatePrecompiled(ctx context.Context, ws *domain.Workspace) error {
	// The target gate still applies: no command may start without one.
	if err := ws.Target.Validate(); err != nil {
		return p.fail(err)
	}

	if info := p.lookupRunInfo(ws); info == nil {
		p.logger.Warn(fmt.Sprintf(
			"no recorded compile for target %q, simulation will fail if the artifact is absent", ws.Target))
	}

	if err := p.simulate(ctx, ws); err != nil {
		return p.fail(err)
	}
	p.transition(domain.PhaseDone)
	return nil
}

// CleanOnly removes the simulation output directory and nothing else.
func (p *Pipeline) CleanOnly(ctx context.Context, ws *domain.Workspace) error {
	p.transition(domain.PhaseCleaning)
	_, v := p.telemetry.Record(ctx, domain.PhaseCleaning.String())
	stdout, stderr := p.sinks(v)
	err := p.runner.Run(ctx, cleanCommand(ws), ws.ExecContext(), stdout, stderr)
	v.Complete(err)
	if err != nil {
		return p.fail(err)
	}
	p.transition(domain.PhaseDone)
	return nil
}

// clean removes the output tree. Removing an already absent tree exits
// zero, so a non-zero exit means something real (permissions, bad
// mount); it is reported but only engine failures and interruption stop
// the pipeline here.
func (p *Pipeline) clean(ctx context.Context, ws *domain.Workspace, phase domain.Phase) error {
	p.transition(phase)
	_, v := p.telemetry.Record(ctx, phase.String())
	stdout, stderr := p.sinks(v)
	err := p.runner.Run(ctx, cleanCommand(ws), ws.ExecContext(), stdout, stderr)
	if err != nil &&
		!errors.Is(err, domain.ErrEnvironmentUnavailable) &&
		!errors.Is(err, domain.ErrInterrupted) {
		p.logger.Warn(fmt.Sprintf("failed to clean %s, continuing: %v", ws.Paths.OutputDir, err))
		err = nil
	}
	v.Complete(err)
	return err
}

func (p *Pipeline) validate(ctx context.Context, ws *domain.Workspace) error {
	p.transition(domain.PhaseValidating)
	_, v := p.telemetry.Record(ctx, domain.PhaseValidating.String())
	err := ws.Target.Validate()
	v.Complete(err)
	return err
}

func (p *Pipeline) compile(ctx context.Context, ws *domain.Workspace) error {
	p.transition(domain.PhaseCompiling)
	_, v := p.telemetry.Record(ctx, domain.PhaseCompiling.String())
	stdout, stderr := p.sinks(v)
	err := p.runner.Run(ctx, compileCommand(ws), ws.ExecContext(), stdout, stderr)
	v.Complete(err)
	return err
}

func (p *Pipeline) relocate(ctx context.Context, ws *domain.Workspace) error {
	p.transition(domain.PhaseRelocating)
	_, v := p.telemetry.Record(ctx, domain.PhaseRelocating.String())

	count, err := p.locator.Relocate(ctx, ws.Target, ws.Paths.SearchRoot, ws.Paths.DestDir)
	if err != nil {
		v.Complete(err)
		return err
	}

	if count == 0 {
		// Whether a missing artifact matters is decided by the simulate
		// phase; here it only earns a warning.
		p.logger.Warn(fmt.Sprintf(
			"no artifact named %q found under %s", ws.Target, ws.Paths.SearchRoot))
	} else {
		p.logger.Info(fmt.Sprintf("relocated %d artifact(s) for %q", count, ws.Target))
		p.recordRunInfo(ws, count)
	}

	v.Complete(nil)
	return nil
}

func (p *Pipeline) simulate(ctx context.Context, ws *domain.Workspace) error {
	p.transition(domain.PhaseSimulating)
	_, v := p.telemetry.Record(ctx, domain.PhaseSimulating.String())
	stdout, stderr := p.sinks(v)
	err := p.runner.Run(ctx, simulateCommand(ws), ws.ExecContext(), stdout, stderr)
	v.Complete(err)
	return err
}

// recordRunInfo persists the relocated artifact's digest. Bookkeeping
// failures must not fail a build that already succeeded, so everything
// here degrades to a warning.
func (p *Pipeline) recordRunInfo(ws *domain.Workspace, count int) {
	artifact := filepath.Join(ws.Paths.DestDir, ws.Target.String())
	hash, err := p.hasher.ComputeFileHash(artifact)
	if err != nil {
		p.logger.Warn(fmt.Sprintf("failed to hash relocated artifact: %v", err))
		return
	}

	store, err := p.stores.Open(ws.StateFile)
	if err != nil {
		p.logger.Warn(fmt.Sprintf("failed to open run info store: %v", err))
		return
	}

	info := domain.RunInfo{
		Target:       ws.Target.String(),
		ArtifactHash: hash,
		Relocated:    count,
		CompiledAt:   time.Now().UTC(),
	}
	if err := store.Put(info); err != nil {
		p.logger.Warn(fmt.Sprintf("failed to record run info: %v", err))
	}
}

func (p *Pipeline) sinks(v ports.Vertex) (io.Writer, io.Writer) {
	return io.MultiWriter(p.stdout, v.Stdout()), io.MultiWriter(p.stderr, v.Stderr())
}

func (p *Pipeline) lookupRunInfo(ws *domain.Workspace) *domain.RunInfo {
	store, err := p.stores.Open(ws.StateFile)
	if err != nil {
		p.logger.Warn(fmt.Sprintf("failed to open run info store: %v", err))
		return nil
	}
	info, err := store.Get(ws.Target.String())
	if err != nil {
		p.logger.Warn(fmt.Sprintf("failed to read run info: %v", err))
		return nil
	}
	return info
}

func cleanCommand(ws *domain.Workspace) string {
	return "rm -rf " + ws.Paths.OutputDir
}

func compileCommand(ws *domain.Workspace) string {
	parts := append(
		[]string{ws.Tool, "--compile", "--output-path", ws.Paths.OutputDir},
		ws.Flags.Args()...)
	return strings.Join(parts, " ")
}

func simulateCommand(ws *domain.Workspace) string {
	return strings.Join([]string{
		ws.Tool, "--simulate", ws.Target.String(),
		"--precompiled",
		"--output-path", ws.Paths.OutputDir,
	}, " ")
}
