package frame

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/arloliu/nuklei/compress"
	"github.com/arloliu/nuklei/encoding"
	"github.com/arloliu/nuklei/endian"
	"github.com/arloliu/nuklei/errs"
	"github.com/arloliu/nuklei/format"
	"github.com/arloliu/nuklei/internal/hash"
	"github.com/arloliu/nuklei/internal/options"
	"github.com/arloliu/nuklei/internal/pool"
)

const (
	streamIDLength  = 8
	flagsOffset     = streamIDLength
	bodyOffset      = flagsOffset + 1
	compressionMask = 0x0F
	checksumFlag    = 0x10

	// MaxPayloadLength bounds the decoded payload size a frame may declare.
	MaxPayloadLength = math.MaxInt32
)

var engine = endian.GetLittleEndianEngine()

// Frame is a decoded envelope.
type Frame struct {
	StreamID    int64
	Compression format.CompressionType
	Checksummed bool
	// Payload aliases the decoded buffer when Compression is format.CompressionNone.
	Payload []byte
}

// Encoder builds frames. It is immutable after construction and safe for
// concurrent use.
type Encoder struct {
	codec    compress.Codec
	checksum bool
}

// NewEncoder creates an encoder. Without options it writes uncompressed
// frames without checksum.
func NewEncoder(opts ...Option) (*Encoder, error) {
	e := &Encoder{codec: compress.NewNoOpCompressor()}
	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}

	return e, nil
}

// Compression returns the configured compression type.
func (e *Encoder) Compression() format.CompressionType {
	return e.codec.Type()
}

// Checksum reports whether frames carry a checksum.
func (e *Encoder) Checksum() bool {
	return e.checksum
}

// Encode returns a new frame holding payload.
func (e *Encoder) Encode(streamID int64, payload []byte) ([]byte, error) {
	return e.Append(nil, streamID, payload)
}

// Append appends a frame holding payload to dst.
//
// Parameters:
//   - dst: Buffer to append to, may be nil
//   - streamID: Stream the payload belongs to
//   - payload: Message body
//
// Returns:
//   - []byte: dst extended by the frame
//   - error: Codec failure or ErrMessageTooLong
func (e *Encoder) Append(dst []byte, streamID int64, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadLength {
		return dst, fmt.Errorf("%w: payload of %d bytes", errs.ErrMessageTooLong, len(payload))
	}

	compression := format.CompressionNone
	body := payload

	if e.codec.Type() != format.CompressionNone && len(payload) > 0 {
		scratch := pool.GetFrameBuffer()
		defer pool.PutFrameBuffer(scratch)

		compressed, err := e.codec.AppendCompressed(scratch.B[:0], payload)
		switch {
		case errors.Is(err, compress.ErrIncompressible):
		case err != nil:
			return dst, err
		default:
			scratch.B = compressed[:0]
			if len(compressed) < len(payload) {
				compression = e.codec.Type()
				body = compressed
			}
		}
	}

	flags := byte(compression)
	if e.checksum {
		flags |= checksumFlag
	}

	start := len(dst)
	dst = engine.AppendUint64(dst, uint64(streamID))
	dst = append(dst, flags)
	dst = encoding.AppendVarint(dst, int64(len(body)))
	if compression != format.CompressionNone {
		dst = encoding.AppendVarint(dst, int64(len(payload)))
	}
	dst = append(dst, body...)

	if e.checksum {
		dst = engine.AppendUint64(dst, hash.Checksum(dst[start:]))
	}

	return dst, nil
}

// Decode decodes the frame at the start of buf and returns it with the
// number of bytes it occupies.
//
// Returns errs.ErrBufferTooShort for a truncated frame, errs.ErrInvalidFrame
// for unknown flags or a corrupt body and errs.ErrChecksumMismatch when the
// checksum does not match.
func Decode(buf []byte) (Frame, int, error) {
	if len(buf) < bodyOffset {
		return Frame{}, 0, fmt.Errorf("%w: frame header needs %d bytes, have %d", errs.ErrBufferTooShort, bodyOffset, len(buf))
	}

	flags := buf[flagsOffset]
	if flags&^(compressionMask|checksumFlag) != 0 {
		return Frame{}, 0, fmt.Errorf("%w: unknown flags 0x%02x", errs.ErrInvalidFrame, flags)
	}

	f := Frame{
		StreamID:    int64(engine.Uint64(buf)),
		Compression: format.CompressionType(flags & compressionMask),
		Checksummed: flags&checksumFlag != 0,
	}

	codec, err := compress.GetCodec(f.Compression)
	if err != nil {
		return Frame{}, 0, err
	}

	pos := bodyOffset
	bodyLen, err := readLength(buf, &pos)
	if err != nil {
		return Frame{}, 0, err
	}

	rawLen := bodyLen
	if f.Compression != format.CompressionNone {
		if rawLen, err = readLength(buf, &pos); err != nil {
			return Frame{}, 0, err
		}
	}

	if len(buf)-pos < bodyLen {
		return Frame{}, 0, fmt.Errorf("%w: body needs %d bytes, have %d", errs.ErrBufferTooShort, bodyLen, len(buf)-pos)
	}
	body := buf[pos : pos+bodyLen]
	pos += bodyLen

	if f.Checksummed {
		if len(buf)-pos < hash.ChecksumLength {
			return Frame{}, 0, fmt.Errorf("%w: missing checksum", errs.ErrBufferTooShort)
		}
		if !hash.Verify(buf[:pos], engine.Uint64(buf[pos:])) {
			return Frame{}, 0, fmt.Errorf("%w: stream %d", errs.ErrChecksumMismatch, f.StreamID)
		}
		pos += hash.ChecksumLength
	}

	if f.Compression == format.CompressionNone {
		f.Payload = body
	} else if err = compress.CheckDecodedLength(codec, body, rawLen); err != nil {
		return Frame{}, 0, err
	} else if f.Payload, err = codec.AppendDecompressed(make([]byte, 0, rawLen), body, rawLen); err != nil {
		return Frame{}, 0, err
	}

	return f, pos, nil
}

func readLength(buf []byte, pos *int) (int, error) {
	v, n, err := encoding.DecodeVarint(buf[*pos:])
	if err != nil {
		return 0, fmt.Errorf("frame length: %w", err)
	}
	if v < 0 || v > MaxPayloadLength {
		return 0, fmt.Errorf("%w: length %d", errs.ErrInvalidFrame, v)
	}
	*pos += n

	return int(v), nil
}

// All iterates over consecutive frames in buf. Iteration stops after the
// first error, which is yielded with a zero Frame.
func All(buf []byte) iter.Seq2[Frame, error] {
	return func(yield func(Frame, error) bool) {
		for len(buf) > 0 {
			f, n, err := Decode(buf)
			if err != nil {
				yield(Frame{}, err)
				return
			}
			if !yield(f, nil) {
				return
			}
			buf = buf[n:]
		}
	}
}
