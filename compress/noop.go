package compress

import "github.com/arloliu/nuklei/format"

// NoOpCompressor stores payloads unchanged.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a codec that copies bytes unchanged.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

func (c NoOpCompressor) Type() format.CompressionType {
	return format.CompressionNone
}

// AppendCompressed appends a copy of src to dst.
func (c NoOpCompressor) AppendCompressed(dst, src []byte) ([]byte, error) {
	return append(dst, src...), nil
}

// AppendDecompressed appends a copy of src to dst after checking its length.
func (c NoOpCompressor) AppendDecompressed(dst, src []byte, rawLen int) ([]byte, error) {
	if err := checkDecodedLength("none", len(src), rawLen); err != nil {
		return dst, err
	}

	return append(dst, src...), nil
}

// MaxDecodedLen returns len(src).
func (c NoOpCompressor) MaxDecodedLen(src []byte) (int, error) {
	return len(src), nil
}
