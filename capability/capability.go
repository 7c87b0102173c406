// Package capability encodes named capability tokens into the single-byte
// bitmask carried by control-plane messages.
//
// Bit i of a mask corresponds to the i-th name of a declared Set. A Set holds
// at most MaxCapabilities names; a wider mask format is not defined.
//
//	mask, err := capability.Default.Encode("CHALLENGE") // 0x01
package capability

import (
	"fmt"
	"strings"

	"github.com/arloliu/nuklei/errs"
)

// MaxCapabilities is the number of bits in a single-byte capability mask.
const MaxCapabilities = 8

// Challenge is the control-plane capability allowing a route to be challenged
// for authorization.
const Challenge = "CHALLENGE"

// Default is the capability set declared by the control protocol.
var Default = MustNewSet(Challenge)

// Set is an ordered, immutable declaration of capability names.
type Set struct {
	names    []string
	ordinals map[string]uint8
}

// NewSet declares the capability names in ordinal order.
//
// Returns:
//   - *Set: The declared set
//   - error: ErrUnsupportedCapabilityCount for more than MaxCapabilities names,
//     ErrDuplicateCapability for repeated names, ErrUnknownCapability for empty names
func NewSet(names ...string) (*Set, error) {
	if len(names) > MaxCapabilities {
		return nil, fmt.Errorf("%w: %d names declared, a single-byte mask holds %d",
			errs.ErrUnsupportedCapabilityCount, len(names), MaxCapabilities)
	}

	s := &Set{
		names:    make([]string, 0, len(names)),
		ordinals: make(map[string]uint8, len(names)),
	}
	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("%w: empty name at ordinal %d", errs.ErrUnknownCapability, i)
		}
		if _, ok := s.ordinals[name]; ok {
			return nil, fmt.Errorf("%w: %q", errs.ErrDuplicateCapability, name)
		}
		s.ordinals[name] = uint8(i) //nolint:gosec
		s.names = append(s.names, name)
	}

	return s, nil
}

// MustNewSet is like NewSet but panics on error. It is meant for package-level
// declarations.
func MustNewSet(names ...string) *Set {
	s, err := NewSet(names...)
	if err != nil {
		panic(err)
	}

	return s
}

// Encode builds the mask for one required capability plus optional ones.
// Repeated names are idempotent.
//
// Returns:
//   - uint8: Mask with bit ordinal(name) set for every name
//   - error: ErrUnknownCapability naming the first undeclared name
func (s *Set) Encode(required string, optional ...string) (uint8, error) {
	mask, err := s.bit(required)
	if err != nil {
		return 0, err
	}

	for _, name := range optional {
		bit, err := s.bit(name)
		if err != nil {
			return 0, err
		}
		mask |= bit
	}

	return mask, nil
}

// Decode returns the declared names whose bits are set in mask, in ordinal order.
//
// Returns:
//   - []string: Names present in the mask
//   - error: ErrUnknownCapability if mask has bits beyond the declared set
func (s *Set) Decode(mask uint8) ([]string, error) {
	if extra := mask &^ s.fullMask(); extra != 0 {
		return nil, fmt.Errorf("%w: undeclared bits 0x%02x", errs.ErrUnknownCapability, extra)
	}

	var names []string
	for i, name := range s.names {
		if mask&(1<<i) != 0 {
			names = append(names, name)
		}
	}

	return names, nil
}

// Ordinal returns the bit position of name.
func (s *Set) Ordinal(name string) (int, bool) {
	ord, ok := s.ordinals[name]
	return int(ord), ok
}

// Names returns a copy of the declared names in ordinal order.
func (s *Set) Names() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of declared names.
func (s *Set) Len() int {
	return len(s.names)
}

func (s *Set) String() string {
	return "capabilities(" + strings.Join(s.names, ", ") + ")"
}

func (s *Set) bit(name string) (uint8, error) {
	ord, ok := s.ordinals[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", errs.ErrUnknownCapability, name)
	}

	return 1 << ord, nil
}

func (s *Set) fullMask() uint8 {
	return uint8((1 << len(s.names)) - 1) //nolint:gosec
}
