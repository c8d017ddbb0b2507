package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tbrun/internal/adapters/fs"
)

func TestComputeFileHash(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tb_uart")
	require.NoError(t, os.WriteFile(path, []byte("artifact content"), 0o644))

	hasher := fs.NewHasher()

	hash, err := hasher.ComputeFileHash(path)
	require.NoError(t, err)
	assert.Len(t, hash, 16)

	// Same content, same digest.
	again, err := hasher.ComputeFileHash(path)
	require.NoError(t, err)
	assert.Equal(t, hash, again)

	// Different content, different digest.
	require.NoError(t, os.WriteFile(path, []byte("other content"), 0o644))
	changed, err := hasher.ComputeFileHash(path)
	require.NoError(t, err)
	assert.NotEqual(t, hash, changed)
}

func TestComputeFileHash_MissingFile(t *testing.T) {
	_, err := fs.NewHasher().ComputeFileHash(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}
