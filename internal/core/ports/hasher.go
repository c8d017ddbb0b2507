package ports

// Hasher computes content digests of relocated artifacts.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeFileHash returns the content digest of the file at path,
	// formatted as a fixed-width hex string.
	ComputeFileHash(path string) (string, error)
}
