package ports

import (
	"context"

	"go.trai.ch/tbrun/internal/core/domain"
)

// ArtifactLocator finds compiled artifacts in a build tree and relocates
// them to a working directory.
//
//go:generate go run go.uber.org/mock/mockgen -source=locator.go -destination=mocks/mock_locator.go -package=mocks
type ArtifactLocator interface {
	// Relocate searches searchRoot recursively for files whose name
	// matches target (case-insensitive) and copies each into destDir,
	// overwriting the destination only when the source is newer.
	//
	// It returns the number of files actually copied. Zero matches is not
	// an error; whether a missing artifact matters is the simulate
	// phase's concern.
	Relocate(ctx context.Context, target domain.Target, searchRoot, destDir string) (int, error)
}
