package compress

import (
	"fmt"
	"math"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/arloliu/nuklei/errs"
	"github.com/arloliu/nuklei/format"
)

// The zstd encoder and decoder are designed to run allocation-free once
// warmed up, so they are pooled rather than created per call.
var zstdDecoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
			zstd.WithDecodeAllCapLimit(true),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd decoder for pool: %v", err))
		}

		return decoder
	},
}

var zstdEncoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd encoder for pool: %v", err))
		}

		return encoder
	},
}

const (
	// zstdMaxBlockSize is the largest decoded size of one zstd block.
	zstdMaxBlockSize = 128 << 10
	// zstdMinBlockLength is a block header plus one byte of content.
	zstdMinBlockLength = 4
)

// ZstdCompressor provides Zstandard compression, the best ratio of the
// built-in codecs at a moderate speed.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

func (c ZstdCompressor) Type() format.CompressionType {
	return format.CompressionZstd
}

// AppendCompressed appends a zstd frame holding src to dst.
func (c ZstdCompressor) AppendCompressed(dst, src []byte) ([]byte, error) {
	encoder, _ := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(encoder)

	return encoder.EncodeAll(src, dst), nil
}

// AppendDecompressed decodes the zstd frame in src and appends the result to dst.
func (c ZstdCompressor) AppendDecompressed(dst, src []byte, rawLen int) ([]byte, error) {
	if len(src) == 0 {
		return dst, checkDecodedLength("zstd", 0, rawLen)
	}

	if err := CheckDecodedLength(c, src, rawLen); err != nil {
		return dst, err
	}

	decoder, _ := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(decoder)

	// The decoder never grows dst past its capacity.
	start := len(dst)
	if cap(dst)-start < rawLen {
		grown := make([]byte, start, start+rawLen)
		copy(grown, dst)
		dst = grown
	}
	out, err := decoder.DecodeAll(src, dst)
	if err != nil {
		return dst, fmt.Errorf("%w: zstd: %w", errs.ErrInvalidFrame, err)
	}
	if err := checkDecodedLength("zstd", len(out)-start, rawLen); err != nil {
		return dst, err
	}

	return out, nil
}

// MaxDecodedLen returns the frame content size when the zstd frame header
// carries one, otherwise a bound of one full block per minimal block.
func (c ZstdCompressor) MaxDecodedLen(src []byte) (int, error) {
	if len(src) == 0 {
		return 0, nil
	}

	var header zstd.Header
	if err := header.Decode(src); err != nil {
		return 0, fmt.Errorf("%w: zstd: %w", errs.ErrInvalidFrame, err)
	}
	if header.HasFCS {
		if header.FrameContentSize > math.MaxInt32 {
			return math.MaxInt32, nil
		}

		return int(header.FrameContentSize), nil
	}

	blocks := (len(src) - header.HeaderSize) / zstdMinBlockLength
	if blocks > math.MaxInt32/zstdMaxBlockSize {
		return math.MaxInt32, nil
	}

	return blocks * zstdMaxBlockSize, nil
}
