package encoding

import (
	"fmt"

	"github.com/arloliu/nuklei/errs"
)

// MaxVarintLen64 is the maximum number of bytes a zigzag varint can occupy.
const MaxVarintLen64 = 10

// zigzag maps signed values onto unsigned ones so that small magnitudes of
// either sign stay small: 0 -> 0, -1 -> 1, 1 -> 2, -2 -> 3, ...
func zigzag(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63) //nolint:gosec
}

func unzigzag(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1) //nolint:gosec
}

// VarintLen returns the number of bytes AppendVarint writes for v.
func VarintLen(v int64) int {
	u := zigzag(v)
	n := 1
	for u >= 0x80 {
		u >>= 7
		n++
	}

	return n
}

// AppendVarint appends the zigzag varint encoding of v to dst.
//
// Parameters:
//   - dst: Destination buffer, may be nil
//   - v: Value to encode
//
// Returns:
//   - []byte: dst extended by 1 to 10 bytes
func AppendVarint(dst []byte, v int64) []byte {
	u := zigzag(v)
	for u >= 0x80 {
		dst = append(dst, byte(u)|0x80)
		u >>= 7
	}

	return append(dst, byte(u))
}

// EncodeVarint returns the zigzag varint encoding of v in a new slice.
func EncodeVarint(v int64) []byte {
	return AppendVarint(make([]byte, 0, VarintLen(v)), v)
}

// DecodeVarint decodes a zigzag varint from the start of src.
//
// Parameters:
//   - src: Buffer starting with an encoded varint
//
// Returns:
//   - int64: Decoded value
//   - int: Number of bytes consumed
//   - error: ErrBufferTooShort if src ends mid-value, ErrVarintOverflow if the
//     encoding does not fit in 64 bits
func DecodeVarint(src []byte) (int64, int, error) {
	var u uint64
	var shift uint

	for i, b := range src {
		if i == MaxVarintLen64 {
			return 0, 0, fmt.Errorf("%w: more than %d bytes", errs.ErrVarintOverflow, MaxVarintLen64)
		}

		if b < 0x80 {
			// The tenth byte may only carry the 64th bit.
			if i == MaxVarintLen64-1 && b > 1 {
				return 0, 0, errs.ErrVarintOverflow
			}
			u |= uint64(b) << shift

			return unzigzag(u), i + 1, nil
		}

		u |= uint64(b&0x7f) << shift
		shift += 7
	}

	return 0, 0, fmt.Errorf("%w: truncated varint", errs.ErrBufferTooShort)
}
