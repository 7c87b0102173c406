// Package endian provides byte order engines for the nuklei wire formats.
//
// Wire payloads built for scripts (string16 prefixes, frame fields) use an
// explicit engine, little-endian unless configured otherwise. Structures that
// live in shared memory (the control file metadata header and the ring/broadcast
// trailers) are read and written by every process on the same host, so they use
// the host-native engine returned by GetNativeEngine.
//
// # Basic Usage
//
//	engine := endian.GetNativeEngine()
//	engine.PutUint32(header[0:4], section.ControlVersion)
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use. The returned
// EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary so a
// single value can both put into fixed offsets and append to growing buffers.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

var nativeEngine = detectNativeEngine()

func detectNativeEngine() EndianEngine {
	// 0x0100 stores 0x00 first on little-endian hosts.
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// CheckEndianness returns the host byte order.
func CheckEndianness() binary.ByteOrder {
	return nativeEngine
}

func IsNativeLittleEndian() bool {
	return nativeEngine == binary.LittleEndian
}

func IsNativeBigEndian() bool {
	return nativeEngine == binary.BigEndian
}

// CompareNativeEndian reports whether engine matches the host byte order.
func CompareNativeEndian(engine EndianEngine) bool {
	return engine == nativeEngine
}

// GetNativeEngine returns the host-native engine used for shared-memory structures.
func GetNativeEngine() EndianEngine {
	return nativeEngine
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
