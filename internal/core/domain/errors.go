package domain

import "go.trai.ch/zerr"

var (
	// ErrMissingTarget is returned when no build target is configured.
	ErrMissingTarget = zerr.New("no build target configured, supply one with --target or the 'target' config key")

	// ErrEnvironmentUnavailable is returned when the container engine itself
	// cannot start a command. This points at infrastructure, not at the
	// sources or the toolchain.
	ErrEnvironmentUnavailable = zerr.New("container engine unavailable")

	// ErrCommandFailed is returned when a toolchain command exits non-zero.
	ErrCommandFailed = zerr.New("toolchain command failed")

	// ErrRelocationFailed is returned when copying a compiled artifact out
	// of the build tree fails.
	ErrRelocationFailed = zerr.New("artifact relocation failed")

	// ErrInterrupted is returned when the pipeline is cancelled while a
	// command is running.
	ErrInterrupted = zerr.New("pipeline interrupted")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrStoreReadFailed is returned when the run info state file cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read run info store")

	// ErrStoreWriteFailed is returned when the run info state file cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write run info store")
)

// ExitCode extracts the exit code a failed toolchain command recorded in
// the error chain. The second return is false when the error carries no
// exit code (configuration errors, engine failures, interruption).
func ExitCode(err error) (int, bool) {
	if err == nil {
		return 0, false
	}

	if z, ok := err.(*zerr.Error); ok {
		if code, ok := z.Metadata()["exit_code"].(int); ok {
			return code, true
		}
	}

	switch unwrapped := err.(type) {
	case interface{ Unwrap() error }:
		return ExitCode(unwrapped.Unwrap())
	case interface{ Unwrap() []error }:
		for _, e := range unwrapped.Unwrap() {
			if code, ok := ExitCode(e); ok {
				return code, true
			}
		}
	}
	return 0, false
}
