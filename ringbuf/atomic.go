package ringbuf

import (
	"sync/atomic"
	"unsafe"
)

// Trailer counters and record headers sit at 8-byte aligned offsets of a
// mapped region, which is itself page aligned.

func aligned(buf []byte) bool {
	return uintptr(unsafe.Pointer(unsafe.SliceData(buf)))%RecordAlignment == 0
}

func int64At(buf []byte, offset int) *int64 {
	return (*int64)(unsafe.Pointer(&buf[offset]))
}

func int32At(buf []byte, offset int) *int32 {
	return (*int32)(unsafe.Pointer(&buf[offset]))
}

func loadInt64(buf []byte, offset int) int64 {
	return atomic.LoadInt64(int64At(buf, offset))
}

func storeInt64(buf []byte, offset int, v int64) {
	atomic.StoreInt64(int64At(buf, offset), v)
}

func casInt64(buf []byte, offset int, old, v int64) bool {
	return atomic.CompareAndSwapInt64(int64At(buf, offset), old, v)
}

func addInt64(buf []byte, offset int, delta int64) int64 {
	return atomic.AddInt64(int64At(buf, offset), delta)
}

func loadInt32(buf []byte, offset int) int32 {
	return atomic.LoadInt32(int32At(buf, offset))
}

func storeInt32(buf []byte, offset int, v int32) {
	atomic.StoreInt32(int32At(buf, offset), v)
}
