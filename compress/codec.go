package compress

import (
	"errors"
	"fmt"

	"github.com/arloliu/nuklei/errs"
	"github.com/arloliu/nuklei/format"
)

// ErrIncompressible reports that compressing would not shrink the input.
var ErrIncompressible = errors.New("compress: input is incompressible")

// Codec compresses and decompresses whole blocks.
type Codec interface {
	// Type returns the compression type stored in frame flags.
	Type() format.CompressionType

	// AppendCompressed appends the compressed form of src to dst.
	// src is not modified and the result never aliases it.
	AppendCompressed(dst, src []byte) ([]byte, error)

	// AppendDecompressed appends the decompressed form of src to dst.
	// rawLen is the exact decoded length; any other result is an error.
	// rawLen is checked against MaxDecodedLen before dst is grown.
	AppendDecompressed(dst, src []byte, rawLen int) ([]byte, error)

	// MaxDecodedLen returns an upper bound on the decoded size of src,
	// read from src alone without decoding it.
	MaxDecodedLen(src []byte) (int, error)
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves the built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: unsupported compression type %s", errs.ErrInvalidFrame, compressionType)
}

// grow returns dst extended by n bytes, and the extension.
func grow(dst []byte, n int) ([]byte, []byte) {
	start := len(dst)
	if cap(dst)-start < n {
		grown := make([]byte, start, start+n)
		copy(grown, dst)
		dst = grown
	}
	dst = dst[:start+n]

	return dst, dst[start:]
}

// CheckDecodedLength reports ErrInvalidFrame when src cannot decode to rawLen
// bytes with codec. Nothing is allocated.
func CheckDecodedLength(codec Codec, src []byte, rawLen int) error {
	bound, err := codec.MaxDecodedLen(src)
	if err != nil {
		return err
	}
	if rawLen < 0 || rawLen > bound {
		return fmt.Errorf("%w: %s body of %d bytes cannot decode to %d bytes", errs.ErrInvalidFrame, codec.Type(), len(src), rawLen)
	}

	return nil
}

func checkDecodedLength(name string, got, want int) error {
	if got != want {
		return fmt.Errorf("%w: %s decoded %d bytes, expected %d", errs.ErrInvalidFrame, name, got, want)
	}

	return nil
}
