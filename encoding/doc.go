// Package encoding implements the compact wire codecs used to build nukleus
// control and stream payloads.
//
// # VarInt
//
// Signed 64-bit integers are zigzag-mapped and written base-128, least
// significant group first, with the 0x80 continuation bit set on every byte
// but the last. Small magnitudes of either sign encode to one byte:
//
//	encoding.EncodeVarint(0)             // [0x00]
//	encoding.EncodeVarint(-1)            // [0x01]
//	encoding.EncodeVarint(64)            // [0x80 0x01]
//	encoding.EncodeVarint(math.MinInt64) // 10 bytes
//
// # Strings
//
// Text is encoded as a length prefix followed by the raw UTF-8 bytes. Three
// prefix widths exist, each with a sentinel meaning "null", distinct from the
// empty string:
//
//	| Variant    | Prefix          | Max length | Null marker   |
//	|------------|-----------------|------------|---------------|
//	| String8    | uint8           | 254        | 0xFF          |
//	| String16   | uint16 (engine) | 65534      | 0xFFFF        |
//	| VarString  | zigzag varint   | MaxInt32   | -1 (0x01)     |
//
// A nil *string encodes the null marker:
//
//	null, _ := encoding.EncodeString8(nil)   // [0xFF]
//	text := ""
//	empty, _ := encoding.EncodeString8(&text) // [0x00]
//
// The one-shot Encode* functions allocate a fresh slice per call and the
// Append* functions write into a caller-supplied buffer. StringEncoder batches
// many values into one pooled buffer.
//
// # Thread Safety
//
// The package-level functions are safe for concurrent use. A StringEncoder is
// not; use one per goroutine.
package encoding
