//go:build unix

package mmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func createFile(t *testing.T, size int64) *os.File {
	t.Helper()

	f, err := os.OpenFile(filepath.Join(t.TempDir(), "mapped"), os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(size))
	t.Cleanup(func() { _ = f.Close() })

	return f
}

func TestMap_SharedWrites(t *testing.T) {
	f := createFile(t, 4096)

	first, err := Map(f, 4096)
	require.NoError(t, err)
	require.Len(t, first, 4096)

	second, err := Map(f, 4096)
	require.NoError(t, err)

	first[100] = 0x5A
	require.Equal(t, byte(0x5A), second[100], "mappings of one file share pages")

	require.NoError(t, Sync(first))
	require.NoError(t, Unmap(first))
	require.NoError(t, Unmap(second))

	content, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	require.Equal(t, byte(0x5A), content[100])
}

func TestMap_PartialLength(t *testing.T) {
	f := createFile(t, 8192)

	data, err := Map(f, 64)
	require.NoError(t, err)
	require.Len(t, data, 64)
	require.NoError(t, Unmap(data))
}

func TestUnmap_Nil(t *testing.T) {
	require.NoError(t, Unmap(nil))
	require.NoError(t, Sync(nil))
}
