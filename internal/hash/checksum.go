// Package hash wraps xxHash64 for frame checksums.
package hash

import "github.com/cespare/xxhash/v2"

// ChecksumLength is the encoded size of a checksum.
const ChecksumLength = 8

// Checksum computes the xxHash64 of data.
func Checksum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// ChecksumString computes the xxHash64 of s without copying it.
func ChecksumString(s string) uint64 {
	return xxhash.Sum64String(s)
}

// Verify reports whether data hashes to want.
func Verify(data []byte, want uint64) bool {
	return xxhash.Sum64(data) == want
}
