// Package compress provides the payload codecs available to frame envelopes.
//
// Frames carry payloads of at most a ring buffer's maximum message length,
// and always record the uncompressed length next to the compressed bytes. The
// codecs therefore work on whole blocks with a known decoded size and append
// their output to a caller-supplied buffer:
//
//	codec, _ := compress.GetCodec(format.CompressionS2)
//	dst, err := codec.AppendCompressed(dst[:0], payload)
//	...
//	raw, err := codec.AppendDecompressed(nil, dst, len(payload))
//
// # Supported Algorithms
//
//   - format.CompressionNone: copies bytes unchanged
//   - format.CompressionZstd: klauspost/compress zstd with pooled encoders and decoders
//   - format.CompressionS2: klauspost/compress s2 block format
//   - format.CompressionLZ4: pierrec/lz4 block format
//
// A codec that cannot shrink its input may return ErrIncompressible; callers
// are expected to fall back to format.CompressionNone.
//
// All codecs are stateless values and safe for concurrent use.
package compress
