// Package container provides the docker-backed command runner adapter.
package container

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os/exec"

	"go.trai.ch/tbrun/internal/core/domain"
	"go.trai.ch/tbrun/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// docker reserves this exit code for failures of the engine itself, as
// opposed to failures of the command running inside the container.
const engineFailureExit = 125

// Runner implements ports.Runner by launching each command in a
// disposable docker container.
type Runner struct {
	engine string
	logger ports.Logger
}

// NewRunner creates a Runner backed by the docker CLI.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{
		engine: "docker",
		logger: logger,
	}
}

// NewRunnerWithEngine creates a Runner for a specific engine binary.
// Used by tests and by installations that alias docker to podman.
func NewRunnerWithEngine(engine string, logger ports.Logger) *Runner {
	return &Runner{
		engine: engine,
		logger: logger,
	}
}

// Run launches command inside a fresh container configured per ec and
// blocks until it exits. The --rm flag guarantees teardown whether the
// command succeeds or fails.
func (r *Runner) Run(ctx context.Context, command string, ec domain.ExecContext, stdout, stderr io.Writer) error {
	argv := NewArgvBuilder(r.engine).
		Disposable().
		Mounts(ec.Mounts).
		Workdir(ec.Workdir).
		Env(ec.Env).
		Shell(ec.Image, command)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // argv is built from trusted config

	outPipe, err := cmd.StdoutPipe()
	if err != nil {
		return zerr.Wrap(err, "failed to open stdout pipe")
	}
	errPipe, err := cmd.StderrPipe()
	if err != nil {
		return zerr.Wrap(err, "failed to open stderr pipe")
	}

	if err := cmd.Start(); err != nil {
		if ctx.Err() != nil {
			return errors.Join(domain.ErrInterrupted, ctx.Err())
		}
		if errors.Is(err, exec.ErrNotFound) {
			return errors.Join(domain.ErrEnvironmentUnavailable,
				zerr.With(zerr.Wrap(err, "engine binary not found"), "engine", r.engine))
		}
		return zerr.With(zerr.Wrap(err, "failed to start command"), "engine", r.engine)
	}

	// Both streams drain concurrently so neither can stall the command.
	// Output goes verbatim to the provided writers and line by line to
	// the logger.
	var g errgroup.Group
	g.Go(func() error { return r.stream(outPipe, stdout, r.logger.Info) })
	g.Go(func() error {
		return r.stream(errPipe, stderr, func(line string) { r.logger.Error(zerr.New(line)) })
	})
	streamErr := g.Wait()

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if ctx.Err() != nil {
				return errors.Join(domain.ErrInterrupted, ctx.Err())
			}
			code := exitErr.ExitCode()
			if code == engineFailureExit {
				return errors.Join(domain.ErrEnvironmentUnavailable,
					zerr.With(zerr.Wrap(err, "engine failed to start container"), "exit_code", code))
			}
			return zerr.With(
				zerr.Wrap(errors.Join(domain.ErrCommandFailed, err), "command exited non-zero"),
				"exit_code", code)
		}
		return zerr.Wrap(err, "command failed")
	}

	return streamErr
}

func (r *Runner) stream(src io.Reader, dst io.Writer, logLine func(string)) error {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if _, err := io.WriteString(dst, line+"\n"); err != nil {
			return zerr.Wrap(err, "failed to forward command output")
		}
		logLine(line)
	}
	return scanner.Err()
}
