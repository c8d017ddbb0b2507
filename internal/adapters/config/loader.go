// Package config provides the configuration loader for tbrun.
package config

import (
	"errors"
	"os"

	"go.trai.ch/tbrun/internal/core/domain"
	"go.trai.ch/tbrun/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Defaults applied when the corresponding key is absent from tbrun.yaml.
const (
	DefaultImage     = "ghdl/vunit:llvm"
	DefaultTool      = "python3 run.py"
	DefaultWorkdir   = "/src"
	DefaultOutputDir = "sim_out"
	DefaultStateFile = ".tbrun/state.json"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the configuration file at path and returns the resolved
// workspace with defaults applied.
func (l *Loader) Load(path string) (*domain.Workspace, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, errors.Join(domain.ErrConfigReadFailed,
			zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path))
	}

	var file Tbrunfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Join(domain.ErrConfigParseFailed,
			zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", path))
	}

	return resolve(&file), nil
}

// resolve fills in defaults and converts the DTO into the domain workspace.
func resolve(file *Tbrunfile) *domain.Workspace {
	ws := &domain.Workspace{
		Image:   file.Image,
		Tool:    file.Tool,
		Workdir: file.Workdir,
		Env:     file.Env,
		Target:  domain.Target(file.Target),
		Flags: domain.Flags{
			Minimal:   file.Flags.Minimal,
			Elaborate: file.Flags.Elaborate,
			Extra:     file.Flags.Extra,
		},
		Paths: domain.WorkingPaths{
			OutputDir:  file.OutputDir,
			SearchRoot: file.SearchRoot,
			DestDir:    file.DestDir,
		},
		StateFile: file.StateFile,
	}

	if ws.Image == "" {
		ws.Image = DefaultImage
	}
	if ws.Tool == "" {
		ws.Tool = DefaultTool
	}
	if ws.Workdir == "" {
		ws.Workdir = DefaultWorkdir
	}
	if ws.Env == nil {
		ws.Env = map[string]string{}
	}
	if ws.Paths.OutputDir == "" {
		ws.Paths.OutputDir = DefaultOutputDir
	}
	if ws.Paths.SearchRoot == "" {
		// Compiled artifacts land in the output tree unless stated otherwise.
		ws.Paths.SearchRoot = ws.Paths.OutputDir
	}
	if ws.Paths.DestDir == "" {
		ws.Paths.DestDir = "."
	}
	if ws.StateFile == "" {
		ws.StateFile = DefaultStateFile
	}

	for _, m := range file.Mounts {
		ws.Mounts = append(ws.Mounts, domain.Mount{Host: m.Host, Container: m.Container})
	}
	if len(ws.Mounts) == 0 {
		ws.Mounts = []domain.Mount{{Host: ".", Container: ws.Workdir}}
	}

	return ws
}
