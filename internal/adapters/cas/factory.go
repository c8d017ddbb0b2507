package cas

import "go.trai.ch/tbrun/internal/core/ports"

var _ ports.StoreFactory = (*Factory)(nil)

// Factory opens file-backed run info stores.
type Factory struct{}

// NewFactory creates a new Factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Open opens the store backing file at path, creating state lazily on the
// first Put.
func (f *Factory) Open(path string) (ports.RunInfoStore, error) {
	return NewStore(path)
}
