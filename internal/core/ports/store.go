package ports

import "go.trai.ch/tbrun/internal/core/domain"

//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks

// RunInfoStore persists per-target run information across invocations.
type RunInfoStore interface {
	// Get retrieves the run info for a given target.
	// Returns nil, nil if not found.
	Get(target string) (*domain.RunInfo, error)

	// Put stores the run info.
	Put(info domain.RunInfo) error
}

// StoreFactory opens the run info store at a workspace-configured path.
type StoreFactory interface {
	Open(path string) (RunInfoStore, error)
}
