// Package nuklei provides the building blocks a test harness needs to talk to
// a nukleus: wire codecs for scripted messages, the shared-memory control and
// streams files, and random identifiers.
//
// # Core Features
//
//   - Length-prefixed strings with 8-bit, 16-bit and varint prefixes, each with a null marker
//   - Zigzag varints and hex literals
//   - Capability bitmasks over a declared capability set
//   - Memory-mapped control files (command ring + response broadcast) and streams files
//   - Reference, stream and correlation id generators with parity invariants
//   - A static function registry exposing all of the above by name
//
// # Basic Usage
//
// Encoding message fields:
//
//	name := "example"
//	field, _ := nuklei.String(&name)   // [0x07 'e' 'x' ...]
//	absent, _ := nuklei.String(nil)    // [0xFF]
//	window := nuklei.VInt(8192)
//
// Opening a channel:
//
//	dir, _ := nuklei.Directory("/tmp/nukleus")
//	ctl, _ := dir.ControlCapacity(1024, 1024).ControlNew("example")
//	defer ctl.Close()
//
//	correlationID, _ := ctl.NextCorrelationID()
//
// Calling by name:
//
//	out, err := nuklei.CoreLibrary().Call("capabilities", "CHALLENGE") // uint8(0x01)
//
// # Package Structure
//
// This package wraps the encoding, capability, ids and layout packages for the
// common cases. Use those packages directly for batch encoders, custom
// capability sets, deterministic id generators and handle options.
package nuklei

import (
	"math/rand/v2"

	"github.com/arloliu/nuklei/capability"
	"github.com/arloliu/nuklei/encoding"
	"github.com/arloliu/nuklei/endian"
	"github.com/arloliu/nuklei/ids"
	"github.com/arloliu/nuklei/layout"
)

var string16Engine = endian.GetLittleEndianEngine()

// String encodes text with an 8-bit length prefix. nil encodes the null marker 0xFF.
func String(text *string) ([]byte, error) {
	return encoding.EncodeString8(text)
}

// String16 encodes text with a little-endian 16-bit length prefix.
// nil encodes the null marker 0xFFFF.
func String16(text *string) ([]byte, error) {
	return encoding.EncodeString16(string16Engine, text)
}

// VString encodes text with a zigzag varint length prefix. nil encodes length -1.
func VString(text *string) ([]byte, error) {
	return encoding.EncodeVarString(text)
}

// VInt encodes v as a zigzag varint.
func VInt(v int64) []byte {
	return encoding.EncodeVarint(v)
}

// FromHex decodes a hexadecimal literal.
func FromHex(text string) ([]byte, error) {
	return encoding.DecodeHex(text)
}

// Capabilities encodes control-plane capability names into a bitmask.
func Capabilities(required string, optional ...string) (uint8, error) {
	return capability.Default.Encode(required, optional...)
}

// Random returns a new randomly seeded generator owned by the caller.
func Random() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewReferenceID returns a non-negative reference id.
func NewReferenceID() int64 {
	return ids.NewReferenceID()
}

// NewInitialStreamID returns an odd, non-negative stream id.
func NewInitialStreamID() int64 {
	return ids.NewInitialStreamID()
}

// NewReplyStreamID returns an even, positive stream id.
func NewReplyStreamID() int64 {
	return ids.NewReplyStreamID()
}

// NewCorrelationID returns an unconstrained correlation id.
func NewCorrelationID() int64 {
	return ids.NewCorrelationID()
}

// NewStreamID returns an unconstrained stream id, for scripts that do not
// care about stream direction.
func NewStreamID() int64 {
	return ids.NewCorrelationID()
}

// Directory returns a layout.Directory rooted at root.
func Directory(root string, opts ...layout.DirectoryOption) (*layout.Directory, error) {
	return layout.NewDirectory(root, opts...)
}
