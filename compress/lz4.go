package compress

import (
	"fmt"
	"math"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/nuklei/errs"
	"github.com/arloliu/nuklei/format"
)

// lz4.Compressor keeps a hash table between calls, so instances are pooled.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// lz4MaxExpansion bounds the decoded size of an LZ4 block per input byte:
// a match length extension byte adds at most 255 output bytes.
const lz4MaxExpansion = 255

// LZ4Compressor provides LZ4 block compression, the fastest to decode.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

func (c LZ4Compressor) Type() format.CompressionType {
	return format.CompressionLZ4
}

// AppendCompressed appends an LZ4 block holding src to dst.
//
// Returns:
//   - []byte: dst extended by the block
//   - error: ErrIncompressible when LZ4 cannot shrink src (always for empty src)
func (c LZ4Compressor) AppendCompressed(dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return dst, ErrIncompressible
	}

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	start := len(dst)
	out, tail := grow(dst, lz4.CompressBlockBound(len(src)))
	n, err := lc.CompressBlock(src, tail)
	if err != nil {
		return dst, fmt.Errorf("lz4: %w", err)
	}
	if n == 0 {
		return out[:start], ErrIncompressible
	}

	return out[:start+n], nil
}

// AppendDecompressed decodes the LZ4 block in src into exactly rawLen bytes appended to dst.
func (c LZ4Compressor) AppendDecompressed(dst, src []byte, rawLen int) ([]byte, error) {
	if rawLen == 0 {
		return dst, checkDecodedLength("lz4", len(src), 0)
	}
	if err := CheckDecodedLength(c, src, rawLen); err != nil {
		return dst, err
	}

	start := len(dst)
	out, tail := grow(dst, rawLen)
	n, err := lz4.UncompressBlock(src, tail)
	if err != nil {
		return out[:start], fmt.Errorf("%w: lz4: %w", errs.ErrInvalidFrame, err)
	}
	if err := checkDecodedLength("lz4", n, rawLen); err != nil {
		return out[:start], err
	}

	return out, nil
}

// MaxDecodedLen returns the largest size an LZ4 block of len(src) bytes can
// expand to. LZ4 blocks carry no length, so this is a ratio bound.
func (c LZ4Compressor) MaxDecodedLen(src []byte) (int, error) {
	if len(src) == 0 {
		return 0, nil
	}
	if len(src) > math.MaxInt32/lz4MaxExpansion {
		return math.MaxInt32, nil
	}

	return len(src)*lz4MaxExpansion + 16, nil
}
