package config

// Tbrunfile represents the structure of the tbrun.yaml configuration file.
type Tbrunfile struct {
	Image      string            `yaml:"image"`
	Tool       string            `yaml:"tool"`
	Workdir    string            `yaml:"workdir"`
	Mounts     []MountDTO        `yaml:"mounts"`
	Env        map[string]string `yaml:"env"`
	Target     string            `yaml:"target"`
	Flags      FlagsDTO          `yaml:"flags"`
	OutputDir  string            `yaml:"outputDir"`
	SearchRoot string            `yaml:"searchRoot"`
	DestDir    string            `yaml:"destDir"`
	StateFile  string            `yaml:"stateFile"`
}

// MountDTO represents a host to container path mapping.
type MountDTO struct {
	Host      string `yaml:"host"`
	Container string `yaml:"container"`
}

// FlagsDTO represents the compile flags in the configuration.
type FlagsDTO struct {
	Minimal   bool     `yaml:"minimal"`
	Elaborate bool     `yaml:"elaborate"`
	Extra     []string `yaml:"extra"`
}
