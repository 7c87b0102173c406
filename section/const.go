package section

// ControlVersion is the only control file metadata version this package reads or writes.
const ControlVersion uint32 = 1

// CacheLineLength is the alignment unit of every section in a control file.
const CacheLineLength = 64

// Byte offsets of the metadata fields from the start of the control file.
const (
	VersionOffset                   = 0
	CommandBufferLengthOffset       = 4
	ResponseBufferLengthOffset      = 8
	CounterLabelsBufferLengthOffset = 12
	CounterValuesBufferLengthOffset = 16

	// MetadataLength is the number of meaningful metadata bytes.
	MetadataLength = 20
	// EndOfMetadataOffset is where the command region starts.
	EndOfMetadataOffset = (MetadataLength + CacheLineLength - 1) &^ (CacheLineLength - 1)
)

// Align rounds value up to a multiple of alignment, which must be a power of two.
func Align(value, alignment int) int {
	return (value + alignment - 1) &^ (alignment - 1)
}
