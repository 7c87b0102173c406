// Package frame encodes the envelope carried by data-plane messages on a
// stream ring.
//
// # Frame Format
//
//	Bytes      | Field        | Notes
//	-----------|--------------|------------------------------------------
//	0-7        | StreamID     | int64, little-endian
//	8          | Flags        | low nibble: format.CompressionType, bit 4: checksum
//	9-         | BodyLength   | zigzag varint
//	           | RawLength    | zigzag varint, only when compressed
//	           | Body         | payload, compressed when flagged
//	           | Checksum     | xxHash64 of all previous bytes, little-endian, when flagged
//
// The encoder falls back to an uncompressed body whenever compression does
// not shrink the payload, so a frame's compression type may differ from the
// encoder's.
//
// # Basic Usage
//
//	enc, _ := frame.NewEncoder(frame.WithCompression(format.CompressionS2), frame.WithChecksum(true))
//	buf, _ := enc.Encode(streamID, payload)
//	_ = ring.Write(msgTypeID, buf)
//
//	f, _, err := frame.Decode(msg)
package frame
