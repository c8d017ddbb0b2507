package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/tbrun/internal/core/ports"
)

const NodeID graft.ID = "adapter.store"

func init() {
	graft.Register(graft.Node[ports.StoreFactory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.StoreFactory, error) {
			return NewFactory(), nil
		},
	})
}
