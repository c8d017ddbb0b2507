// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/tbrun/internal/core/domain"
)

// Runner executes a single shell command inside a disposable isolated
// environment.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type Runner interface {
	// Run launches command inside an environment configured per ec and
	// blocks until it exits. The environment is torn down afterwards
	// regardless of outcome.
	//
	// Command output streams to stdout/stderr verbatim; the runner never
	// swallows toolchain diagnostics.
	//
	// A non-zero exit is reported as domain.ErrCommandFailed carrying the
	// exit code (recoverable via domain.ExitCode). If the isolation engine
	// itself cannot start the command, the error wraps
	// domain.ErrEnvironmentUnavailable instead. The runner does not retry.
	Run(ctx context.Context, command string, ec domain.ExecContext, stdout, stderr io.Writer) error
}
