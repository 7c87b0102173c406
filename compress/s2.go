package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"

	"github.com/arloliu/nuklei/errs"
	"github.com/arloliu/nuklei/format"
)

// S2Compressor provides S2 block compression: fast, with a ratio between LZ4 and Zstd.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

func (c S2Compressor) Type() format.CompressionType {
	return format.CompressionS2
}

// AppendCompressed appends an S2 block holding src to dst.
func (c S2Compressor) AppendCompressed(dst, src []byte) ([]byte, error) {
	bound := s2.MaxEncodedLen(len(src))
	if bound < 0 {
		return dst, fmt.Errorf("%w: s2 input of %d bytes is too large", errs.ErrMessageTooLong, len(src))
	}

	start := len(dst)
	dst, tail := grow(dst, bound)
	encoded := s2.Encode(tail, src)

	return dst[:start+len(encoded)], nil
}

// AppendDecompressed decodes the S2 block in src and appends the result to dst.
func (c S2Compressor) AppendDecompressed(dst, src []byte, rawLen int) ([]byte, error) {
	n, err := s2.DecodedLen(src)
	if err != nil {
		return dst, fmt.Errorf("%w: s2: %w", errs.ErrInvalidFrame, err)
	}
	if err := checkDecodedLength("s2", n, rawLen); err != nil {
		return dst, err
	}

	start := len(dst)
	out, tail := grow(dst, n)
	if _, err := s2.Decode(tail, src); err != nil {
		return out[:start], fmt.Errorf("%w: s2: %w", errs.ErrInvalidFrame, err)
	}

	return out, nil
}

// MaxDecodedLen returns the decoded length stored in the S2 block header.
func (c S2Compressor) MaxDecodedLen(src []byte) (int, error) {
	n, err := s2.DecodedLen(src)
	if err != nil {
		return 0, fmt.Errorf("%w: s2: %w", errs.ErrInvalidFrame, err)
	}

	return n, nil
}
