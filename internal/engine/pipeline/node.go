package pipeline

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/tbrun/internal/adapters/cas"
	"go.trai.ch/tbrun/internal/adapters/container"
	"go.trai.ch/tbrun/internal/adapters/fs"
	"go.trai.ch/tbrun/internal/adapters/logger"
	"go.trai.ch/tbrun/internal/adapters/telemetry/progrock"
	"go.trai.ch/tbrun/internal/core/ports"
)

// NodeID is the unique identifier for the pipeline Graft node.
const NodeID graft.ID = "engine.pipeline"

func init() {
	graft.Register(graft.Node[*Pipeline]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			container.NodeID,
			fs.LocatorNodeID,
			fs.HasherNodeID,
			logger.NodeID,
			progrock.NodeID,
			cas.NodeID,
		},
		Run: func(ctx context.Context) (*Pipeline, error) {
			runner, err := graft.Dep[ports.Runner](ctx)
			if err != nil {
				return nil, err
			}
			locator, err := graft.Dep[ports.ArtifactLocator](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			stores, err := graft.Dep[ports.StoreFactory](ctx)
			if err != nil {
				return nil, err
			}
			return New(runner, locator, log, telemetry, hasher, stores), nil
		},
	})
}
