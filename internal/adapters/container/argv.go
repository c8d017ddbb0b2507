package container

import (
	"fmt"
	"sort"

	"go.trai.ch/tbrun/internal/core/domain"
)

// ArgvBuilder assembles the container engine command line for one
// disposable invocation. Arguments are appended in a fixed order and
// environment variables are sorted so the same context always yields the
// same argv.
type ArgvBuilder struct {
	engine string
	args   []string
}

// NewArgvBuilder creates a builder for the given engine binary.
func NewArgvBuilder(engine string) *ArgvBuilder {
	return &ArgvBuilder{engine: engine}
}

// Disposable makes the environment tear itself down after the command
// exits, regardless of outcome.
func (b *ArgvBuilder) Disposable() *ArgvBuilder {
	b.args = append(b.args, "--rm")
	return b
}

// Mounts adds the host to container path mappings.
func (b *ArgvBuilder) Mounts(mounts []domain.Mount) *ArgvBuilder {
	for _, m := range mounts {
		b.args = append(b.args, "-v", fmt.Sprintf("%s:%s", m.Host, m.Container))
	}
	return b
}

// Workdir fixes the working directory inside the container.
func (b *ArgvBuilder) Workdir(dir string) *ArgvBuilder {
	if dir != "" {
		b.args = append(b.args, "-w", dir)
	}
	return b
}

// Env injects the environment variables, sorted by key.
func (b *ArgvBuilder) Env(env map[string]string) *ArgvBuilder {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.args = append(b.args, "-e", fmt.Sprintf("%s=%s", k, env[k]))
	}
	return b
}

// Shell terminates the builder with the image and the command, run
// through a shell inside the container.
func (b *ArgvBuilder) Shell(image, command string) []string {
	argv := make([]string, 0, len(b.args)+5)
	argv = append(argv, b.engine, "run")
	argv = append(argv, b.args...)
	argv = append(argv, image, "/bin/sh", "-c", command)
	return argv
}
