package domain

// ExecContext describes the disposable environment a single command runs
// in: the image, the mount mapping, the working directory inside the
// container, and the injected environment variables. It is created fresh
// per invocation and never persisted.
type ExecContext struct {
	Image   string
	Mounts  []Mount
	Workdir string
	Env     map[string]string
}
