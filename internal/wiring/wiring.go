// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/tbrun/internal/adapters/cas"
	_ "go.trai.ch/tbrun/internal/adapters/config"
	_ "go.trai.ch/tbrun/internal/adapters/container"
	_ "go.trai.ch/tbrun/internal/adapters/fs"
	_ "go.trai.ch/tbrun/internal/adapters/logger"
	_ "go.trai.ch/tbrun/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/tbrun/internal/app"
	_ "go.trai.ch/tbrun/internal/engine/pipeline"
)
