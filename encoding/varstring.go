package encoding

import (
	"fmt"
	"math"

	"github.com/arloliu/nuklei/endian"
	"github.com/arloliu/nuklei/errs"
	"github.com/arloliu/nuklei/format"
)

// Maximum encodable text lengths. The top value of each fixed-width prefix is
// reserved for the null marker.
const (
	MaxString8Length   = math.MaxUint8 - 1
	MaxString16Length  = math.MaxUint16 - 1
	MaxVarStringLength = math.MaxInt32
)

const (
	nullString8   = math.MaxUint8
	nullString16  = math.MaxUint16
	nullVarString = -1
)

// AppendString8 appends text with a single-byte length prefix.
//
// A nil text appends the null marker 0xFF and no payload.
//
// Returns:
//   - []byte: Extended buffer
//   - error: ErrTextTooLong if text exceeds MaxString8Length bytes
func AppendString8(dst []byte, text *string) ([]byte, error) {
	if text == nil {
		return append(dst, nullString8), nil
	}
	if len(*text) > MaxString8Length {
		return dst, fmt.Errorf("%w: string8 length %d exceeds maximum %d", errs.ErrTextTooLong, len(*text), MaxString8Length)
	}

	dst = append(dst, uint8(len(*text))) //nolint:gosec

	return append(dst, *text...), nil
}

// EncodeString8 encodes text with a single-byte length prefix into a new slice.
func EncodeString8(text *string) ([]byte, error) {
	return AppendString8(make([]byte, 0, 1+textLen(text)), text)
}

// DecodeString8 decodes a single-byte length prefixed string from src.
//
// Returns:
//   - string: Decoded text (empty when null)
//   - bool: false if the null marker was decoded
//   - int: Number of bytes consumed
//   - error: ErrBufferTooShort if src is shorter than the encoded value
func DecodeString8(src []byte) (string, bool, int, error) {
	if len(src) < 1 {
		return "", false, 0, fmt.Errorf("%w: missing string8 prefix", errs.ErrBufferTooShort)
	}
	if src[0] == nullString8 {
		return "", false, 1, nil
	}

	return decodePayload(src, 1, int(src[0]))
}

// AppendString16 appends text with a two-byte length prefix written by engine.
//
// A nil text appends the null marker 0xFFFF and no payload.
//
// Returns:
//   - []byte: Extended buffer
//   - error: ErrTextTooLong if text exceeds MaxString16Length bytes
func AppendString16(dst []byte, engine endian.EndianEngine, text *string) ([]byte, error) {
	if text == nil {
		return engine.AppendUint16(dst, nullString16), nil
	}
	if len(*text) > MaxString16Length {
		return dst, fmt.Errorf("%w: string16 length %d exceeds maximum %d", errs.ErrTextTooLong, len(*text), MaxString16Length)
	}

	dst = engine.AppendUint16(dst, uint16(len(*text))) //nolint:gosec

	return append(dst, *text...), nil
}

// EncodeString16 encodes text with a two-byte length prefix into a new slice.
func EncodeString16(engine endian.EndianEngine, text *string) ([]byte, error) {
	return AppendString16(make([]byte, 0, 2+textLen(text)), engine, text)
}

// DecodeString16 decodes a two-byte length prefixed string from src.
func DecodeString16(src []byte, engine endian.EndianEngine) (string, bool, int, error) {
	if len(src) < 2 {
		return "", false, 0, fmt.Errorf("%w: missing string16 prefix", errs.ErrBufferTooShort)
	}

	length := engine.Uint16(src)
	if length == nullString16 {
		return "", false, 2, nil
	}

	return decodePayload(src, 2, int(length))
}

// AppendVarString appends text with a zigzag varint length prefix.
//
// A nil text appends the varint -1 and no payload.
func AppendVarString(dst []byte, text *string) ([]byte, error) {
	if text == nil {
		return AppendVarint(dst, nullVarString), nil
	}
	if len(*text) > MaxVarStringLength {
		return dst, fmt.Errorf("%w: varstring length %d exceeds maximum %d", errs.ErrTextTooLong, len(*text), MaxVarStringLength)
	}

	dst = AppendVarint(dst, int64(len(*text)))

	return append(dst, *text...), nil
}

// EncodeVarString encodes text with a varint length prefix into a new slice.
func EncodeVarString(text *string) ([]byte, error) {
	n := textLen(text)
	return AppendVarString(make([]byte, 0, VarintLen(int64(n))+n), text)
}

// DecodeVarString decodes a varint length prefixed string from src.
// Negative lengths other than the null marker yield ErrInvalidPrefix.
func DecodeVarString(src []byte) (string, bool, int, error) {
	length, n, err := DecodeVarint(src)
	if err != nil {
		return "", false, 0, err
	}
	if length == nullVarString {
		return "", false, n, nil
	}
	if length < 0 || length > MaxVarStringLength {
		return "", false, 0, fmt.Errorf("%w: varstring length %d", errs.ErrInvalidPrefix, length)
	}

	return decodePayload(src, n, int(length))
}

// DecodeString decodes a string of the given prefix width. engine is only
// consulted for format.Prefix16.
func DecodeString(width format.PrefixWidth, engine endian.EndianEngine, src []byte) (string, bool, int, error) {
	switch width {
	case format.Prefix8:
		return DecodeString8(src)
	case format.Prefix16:
		return DecodeString16(src, engine)
	case format.PrefixVarint:
		return DecodeVarString(src)
	default:
		return "", false, 0, fmt.Errorf("%w: %s", errs.ErrInvalidPrefix, width)
	}
}

func decodePayload(src []byte, prefixLen, length int) (string, bool, int, error) {
	end := prefixLen + length
	if len(src) < end {
		return "", false, 0, fmt.Errorf("%w: need %d bytes, have %d", errs.ErrBufferTooShort, end, len(src))
	}

	return string(src[prefixLen:end]), true, end, nil
}

func textLen(text *string) int {
	if text == nil {
		return 0
	}

	return len(*text)
}
