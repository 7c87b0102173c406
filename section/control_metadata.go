package section

import (
	"fmt"

	"github.com/arloliu/nuklei/endian"
	"github.com/arloliu/nuklei/errs"
)

// ControlMetadata is the header at the start of a control file.
type ControlMetadata struct {
	// Version is the layout version, always ControlVersion for valid files.
	Version uint32 // byte offset 0-3
	// CommandBufferLength is the payload capacity of the command ring.
	CommandBufferLength uint32 // byte offset 4-7
	// ResponseBufferLength is the payload capacity of the response broadcast buffer.
	ResponseBufferLength uint32 // byte offset 8-11
	// CounterLabelsBufferLength is reserved for a counters section and written as zero.
	CounterLabelsBufferLength uint32 // byte offset 12-15
	// CounterValuesBufferLength is reserved for a counters section and written as zero.
	CounterValuesBufferLength uint32 // byte offset 16-19
}

// NewControlMetadata creates metadata for a freshly created control file.
func NewControlMetadata(commandBufferLength, responseBufferLength uint32) ControlMetadata {
	return ControlMetadata{
		Version:              ControlVersion,
		CommandBufferLength:  commandBufferLength,
		ResponseBufferLength: responseBufferLength,
	}
}

// Parse decodes the metadata from the start of data and validates its version.
//
// Parameters:
//   - data: Byte slice starting at file offset 0 (at least MetadataLength bytes)
//
// Returns:
//   - error: ErrBufferTooShort if data is too small, ErrCorruptMetadata on a version mismatch
func (m *ControlMetadata) Parse(data []byte) error {
	if len(data) < MetadataLength {
		return fmt.Errorf("%w: metadata needs %d bytes, have %d", errs.ErrBufferTooShort, MetadataLength, len(data))
	}

	engine := endian.GetNativeEngine()
	m.Version = engine.Uint32(data[VersionOffset:])
	m.CommandBufferLength = engine.Uint32(data[CommandBufferLengthOffset:])
	m.ResponseBufferLength = engine.Uint32(data[ResponseBufferLengthOffset:])
	m.CounterLabelsBufferLength = engine.Uint32(data[CounterLabelsBufferLengthOffset:])
	m.CounterValuesBufferLength = engine.Uint32(data[CounterValuesBufferLengthOffset:])

	return m.Validate()
}

// Validate checks that the metadata carries the supported version.
func (m *ControlMetadata) Validate() error {
	if m.Version != ControlVersion {
		return fmt.Errorf("%w: version %d, expected %d", errs.ErrCorruptMetadata, m.Version, ControlVersion)
	}

	return nil
}

// Put writes the metadata into the first MetadataLength bytes of dst.
// Padding bytes up to EndOfMetadataOffset are left untouched.
func (m *ControlMetadata) Put(dst []byte) {
	_ = dst[MetadataLength-1]

	engine := endian.GetNativeEngine()
	engine.PutUint32(dst[VersionOffset:], m.Version)
	engine.PutUint32(dst[CommandBufferLengthOffset:], m.CommandBufferLength)
	engine.PutUint32(dst[ResponseBufferLengthOffset:], m.ResponseBufferLength)
	engine.PutUint32(dst[CounterLabelsBufferLengthOffset:], m.CounterLabelsBufferLength)
	engine.PutUint32(dst[CounterValuesBufferLengthOffset:], m.CounterValuesBufferLength)
}

// Bytes serializes the metadata into a zero-padded EndOfMetadataOffset-byte slice.
func (m *ControlMetadata) Bytes() []byte {
	b := make([]byte, EndOfMetadataOffset)
	m.Put(b)

	return b
}

// ParseControlMetadata parses and validates ControlMetadata from data.
func ParseControlMetadata(data []byte) (ControlMetadata, error) {
	m := ControlMetadata{}
	if err := m.Parse(data); err != nil {
		return ControlMetadata{}, err
	}

	return m, nil
}
