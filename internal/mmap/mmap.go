// Package mmap maps files into memory as shared, writable byte slices.
//
// Every mapping is MAP_SHARED so that writes become visible to other
// processes mapping the same file.
package mmap

import "os"

// Map maps the first length bytes of f read-write and shared.
// The file must already be at least length bytes long.
func Map(f *os.File, length int) ([]byte, error) {
	return mapFile(f, length)
}

// Unmap releases a mapping returned by Map. A nil slice is a no-op.
func Unmap(data []byte) error {
	if data == nil {
		return nil
	}

	return unmap(data)
}

// Sync flushes dirty pages of the mapping back to the file.
func Sync(data []byte) error {
	if data == nil {
		return nil
	}

	return sync(data)
}
