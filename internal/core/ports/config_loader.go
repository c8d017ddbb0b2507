package ports

import "go.trai.ch/tbrun/internal/core/domain"

// ConfigLoader loads the workspace configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration file at the given path and returns the
	// resolved workspace with defaults applied.
	Load(path string) (*domain.Workspace, error)
}
