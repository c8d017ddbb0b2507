package domain

// Mount maps a host path to a path inside the container.
type Mount struct {
	Host      string `yaml:"host"`
	Container string `yaml:"container"`
}

// WorkingPaths holds the three filesystem locations the pipeline touches.
type WorkingPaths struct {
	// OutputDir is the simulation output directory. It is ephemeral and
	// recreated on every run; nothing in it survives across runs.
	OutputDir string
	// SearchRoot is the tree searched for compiled artifacts.
	SearchRoot string
	// DestDir is where relocated artifacts land (the invocation's cwd).
	DestDir string
}

// Workspace is the fully resolved configuration for one invocation.
type Workspace struct {
	// Image is the container image the toolchain runs in.
	Image string
	// Tool is the toolchain entry command, e.g. "python3 run.py".
	Tool string
	// Workdir is the working directory inside the container.
	Workdir string
	// Mounts maps host paths into the container.
	Mounts []Mount
	// Env is injected into the container, including the module
	// search-path variable the toolchain needs to resolve libraries.
	Env map[string]string

	Target Target
	Flags  Flags
	Paths  WorkingPaths

	// StateFile is where per-target run info is persisted.
	StateFile string
}

// ExecContext builds a fresh execution context for one container command.
func (w *Workspace) ExecContext() ExecContext {
	env := make(map[string]string, len(w.Env))
	for k, v := range w.Env {
		env[k] = v
	}
	mounts := make([]Mount, len(w.Mounts))
	copy(mounts, w.Mounts)
	return ExecContext{
		Image:   w.Image,
		Mounts:  mounts,
		Workdir: w.Workdir,
		Env:     env,
	}
}
