// Package errs defines the sentinel errors returned by nuklei packages.
//
// Callers match them with errors.Is; packages wrap them with context using
// fmt.Errorf("...: %w", err). None of these conditions are transient, so no
// package retries on them.
package errs

import "errors"

// Layout errors.
var (
	// ErrCorruptMetadata is returned when an attached control file carries a
	// metadata version other than the supported one.
	ErrCorruptMetadata = errors.New("corrupt control file metadata")
	// ErrNotFound is returned when attaching to a file that does not exist or
	// is smaller than the layout it is expected to hold.
	ErrNotFound = errors.New("layout file not found")
	// ErrAlreadyExists is returned when creating a layout file over an existing path.
	ErrAlreadyExists = errors.New("layout file already exists")
	// ErrInvalidCapacity is returned for region capacities that are not positive powers of two.
	ErrInvalidCapacity = errors.New("invalid region capacity")
	// ErrLayoutClosed is returned when accessing a layout handle after Close.
	ErrLayoutClosed = errors.New("layout is closed")
	// ErrUnsupportedPlatform is returned where memory mapping is unavailable.
	ErrUnsupportedPlatform = errors.New("memory mapping is not supported on this platform")
	// ErrInvalidConfig is returned when a layout configuration fails validation.
	ErrInvalidConfig = errors.New("invalid layout configuration")
)

// Codec errors.
var (
	ErrTextTooLong      = errors.New("text exceeds maximum encodable length")
	ErrBufferTooShort   = errors.New("buffer too short")
	ErrVarintOverflow   = errors.New("varint overflows 64 bits")
	ErrInvalidHex       = errors.New("invalid hex literal")
	ErrInvalidPrefix    = errors.New("invalid length prefix width")
	ErrInvalidFrame     = errors.New("invalid frame")
	ErrChecksumMismatch = errors.New("frame checksum mismatch")
)

// Capability errors.
var (
	// ErrUnknownCapability is returned when a name is not in the declared capability set.
	ErrUnknownCapability = errors.New("unknown capability")
	// ErrUnsupportedCapabilityCount is returned when a single-byte mask is asked
	// to carry more than 8 capabilities.
	ErrUnsupportedCapabilityCount = errors.New("unsupported capability count")
	// ErrDuplicateCapability is returned when a capability set declares a name twice.
	ErrDuplicateCapability = errors.New("duplicate capability")
)

// Ring and broadcast buffer errors.
var (
	ErrMessageTooLong       = errors.New("message exceeds maximum length")
	ErrInsufficientCapacity = errors.New("insufficient capacity")
	ErrLapped               = errors.New("broadcast receiver lapped by transmitter")
	ErrInvalidMessageType   = errors.New("invalid message type id")
)

// Function registry errors.
var (
	ErrUnknownFunction = errors.New("unknown function")
	ErrInvalidArgument = errors.New("invalid function argument")
)
