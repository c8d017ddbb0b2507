package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/tbrun/internal/adapters/logger"
	"go.trai.ch/tbrun/internal/core/ports"
)

const (
	LocatorNodeID graft.ID = "adapter.fs.locator"
	HasherNodeID  graft.ID = "adapter.fs.hasher"
)

func init() {
	graft.Register(graft.Node[ports.ArtifactLocator]{
		ID:        LocatorNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ArtifactLocator, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLocator(log), nil
		},
	})

	graft.Register(graft.Node[ports.Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Hasher, error) {
			return NewHasher(), nil
		},
	})
}
