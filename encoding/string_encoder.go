package encoding

import (
	"fmt"

	"github.com/arloliu/nuklei/endian"
	"github.com/arloliu/nuklei/errs"
	"github.com/arloliu/nuklei/format"
	"github.com/arloliu/nuklei/internal/pool"
)

// StringEncoder writes a sequence of length-prefixed strings and varints into
// one pooled buffer.
//
// Each string is encoded as:
//   - prefix: length in the configured width (or the null marker)
//   - N bytes: UTF-8 string data
//
// It is the reusable-scratch alternative to the one-shot Encode* functions:
// a script building a long payload calls Write repeatedly and takes Bytes once.
type StringEncoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	width  format.PrefixWidth
	count  int
}

// NewStringEncoder creates a string encoder for the given prefix width.
//
// Parameters:
//   - width: Prefix width (Prefix8, Prefix16 or PrefixVarint)
//   - engine: Byte order for Prefix16 prefixes (typically little-endian)
//
// Returns:
//   - *StringEncoder: A new encoder backed by a pooled buffer
//   - error: ErrInvalidPrefix for an unknown width
func NewStringEncoder(width format.PrefixWidth, engine endian.EndianEngine) (*StringEncoder, error) {
	if width < format.Prefix8 || width > format.PrefixVarint {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidPrefix, width)
	}

	return &StringEncoder{
		buf:    pool.GetMessageBuffer(),
		engine: engine,
		width:  width,
	}, nil
}

// MaxLength returns the longest text this encoder accepts.
func (e *StringEncoder) MaxLength() int {
	switch e.width {
	case format.Prefix8:
		return MaxString8Length
	case format.Prefix16:
		return MaxString16Length
	default:
		return MaxVarStringLength
	}
}

// Write encodes a single non-null string.
//
// Returns:
//   - error: ErrTextTooLong if text exceeds MaxLength; nothing is written then
func (e *StringEncoder) Write(text string) error {
	if len(text) > e.MaxLength() {
		return fmt.Errorf("%w: %s length %d exceeds maximum %d", errs.ErrTextTooLong, e.width, len(text), e.MaxLength())
	}

	e.buffer().Grow(MaxVarintLen64 + len(text))
	e.writePrefix(int64(len(text)))
	e.buf.MustWriteString(text)
	e.count++

	return nil
}

// WriteNull encodes the null marker of the configured width.
func (e *StringEncoder) WriteNull() {
	e.buffer()
	switch e.width {
	case format.Prefix8:
		e.buf.MustWriteByte(nullString8)
	case format.Prefix16:
		e.buf.B = e.engine.AppendUint16(e.buf.B, nullString16)
	default:
		e.buf.B = AppendVarint(e.buf.B, nullVarString)
	}
	e.count++
}

// WriteSlice encodes a slice of strings with a single buffer growth.
//
// All strings are validated first; if any is too long nothing is written.
func (e *StringEncoder) WriteSlice(texts []string) error {
	maxLen := e.MaxLength()
	totalSize := 0
	for _, text := range texts {
		if len(text) > maxLen {
			return fmt.Errorf("%w: %s length %d exceeds maximum %d", errs.ErrTextTooLong, e.width, len(text), maxLen)
		}
		totalSize += MaxVarintLen64 + len(text)
	}

	e.buffer().Grow(totalSize)
	for _, text := range texts {
		e.writePrefix(int64(len(text)))
		e.buf.MustWriteString(text)
		e.count++
	}

	return nil
}

// WriteVarint encodes v as a zigzag varint. It does not count as a string.
func (e *StringEncoder) WriteVarint(v int64) {
	e.buffer()
	e.buf.B = AppendVarint(e.buf.B, v)
}

func (e *StringEncoder) writePrefix(length int64) {
	switch e.width {
	case format.Prefix8:
		e.buf.MustWriteByte(uint8(length)) //nolint:gosec
	case format.Prefix16:
		e.buf.B = e.engine.AppendUint16(e.buf.B, uint16(length)) //nolint:gosec
	default:
		e.buf.B = AppendVarint(e.buf.B, length)
	}
}

// Bytes returns the encoded data.
//
// The returned slice shares the encoder's buffer and is invalid after Reset
// or Release.
func (e *StringEncoder) Bytes() []byte {
	if e.buf == nil {
		return nil
	}

	return e.buf.Bytes()
}

// Len returns the number of strings (including nulls) written.
func (e *StringEncoder) Len() int {
	return e.count
}

// Size returns the number of encoded bytes.
func (e *StringEncoder) Size() int {
	if e.buf == nil {
		return 0
	}

	return e.buf.Len()
}

// Reset clears the encoded data, keeping the buffer for reuse.
func (e *StringEncoder) Reset() {
	if e.buf != nil {
		e.buf.Reset()
	}
	e.count = 0
}

// Release clears the encoder and returns its buffer to the pool.
// A later write takes a new buffer from the pool.
func (e *StringEncoder) Release() {
	if e.buf != nil {
		pool.PutMessageBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

func (e *StringEncoder) buffer() *pool.ByteBuffer {
	if e.buf == nil {
		e.buf = pool.GetMessageBuffer()
	}

	return e.buf
}
