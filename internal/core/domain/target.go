package domain

import "strings"

// Target names the testbench unit to compile and simulate.
// It is supplied once at invocation time and immutable afterwards.
type Target string

// Validate checks that the target names an actual unit.
// An empty or whitespace-only target is a configuration error; the
// pipeline must not start any toolchain command in that case.
func (t Target) Validate() error {
	if strings.TrimSpace(string(t)) == "" {
		return ErrMissingTarget
	}
	return nil
}

func (t Target) String() string {
	return string(t)
}
