package format

type (
	PrefixWidth     uint8
	CompressionType uint8
)

const (
	Prefix8      PrefixWidth = 0x1 // Prefix8 is a single-byte length prefix, 0xFF marks null.
	Prefix16     PrefixWidth = 0x2 // Prefix16 is a two-byte length prefix, 0xFFFF marks null.
	PrefixVarint PrefixWidth = 0x3 // PrefixVarint is a zigzag varint length prefix, -1 marks null.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (p PrefixWidth) String() string {
	switch p {
	case Prefix8:
		return "String8"
	case Prefix16:
		return "String16"
	case PrefixVarint:
		return "VarString"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
