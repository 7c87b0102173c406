package ringbuf

import (
	"fmt"

	"github.com/arloliu/nuklei/errs"
)

const cacheLineLength = 64

// Ring buffer trailer layout.
const (
	TailPositionOffset       = cacheLineLength * 2
	HeadCachePositionOffset  = cacheLineLength * 4
	HeadPositionOffset       = cacheLineLength * 6
	CorrelationCounterOffset = cacheLineLength * 8
	ConsumerHeartbeatOffset  = cacheLineLength * 10
	TrailerLength            = cacheLineLength * 12
)

// Broadcast buffer trailer layout.
const (
	TailIntentCounterOffset = 0
	TailCounterOffset       = 8
	LatestCounterOffset     = 16
	BroadcastTrailerLength  = cacheLineLength * 2
)

// Record layout shared by both buffers.
const (
	HeaderLength     = 8
	RecordAlignment  = 8
	lengthFieldShift = 0
	typeFieldShift   = 4

	// PaddingMsgTypeID marks a record that only fills space before the wrap.
	PaddingMsgTypeID int32 = -1
)

// RingLength returns the bytes needed for a ring buffer of the given capacity.
func RingLength(capacity int) int {
	return capacity + TrailerLength
}

// BroadcastLength returns the bytes needed for a broadcast buffer of the given capacity.
func BroadcastLength(capacity int) int {
	return capacity + BroadcastTrailerLength
}

// MinCapacity is the smallest data area a ring or broadcast buffer accepts.
// Every larger power of two keeps trailers cache-line aligned.
const MinCapacity = cacheLineLength

// CheckCapacity verifies that capacity is a power of two of at least MinCapacity.
func CheckCapacity(capacity int) error {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return fmt.Errorf("%w: %d is not a positive power of two", errs.ErrInvalidCapacity, capacity)
	}
	if capacity < MinCapacity {
		return fmt.Errorf("%w: %d is below the minimum of %d", errs.ErrInvalidCapacity, capacity, MinCapacity)
	}

	return nil
}

// checkBuffer returns the data capacity of buf after checking its size and
// that its start is aligned for 64-bit atomics.
func checkBuffer(buf []byte, trailerLength int) (int, error) {
	capacity := len(buf) - trailerLength
	if err := CheckCapacity(capacity); err != nil {
		return 0, err
	}
	if !aligned(buf) {
		return 0, fmt.Errorf("%w: buffer is not %d-byte aligned", errs.ErrInvalidCapacity, RecordAlignment)
	}

	return capacity, nil
}

func align(value, alignment int) int {
	return (value + alignment - 1) &^ (alignment - 1)
}

func lengthOffset(recordOffset int) int {
	return recordOffset + lengthFieldShift
}

func typeOffset(recordOffset int) int {
	return recordOffset + typeFieldShift
}

func checkTypeID(msgTypeID int32) error {
	if msgTypeID < 1 {
		return fmt.Errorf("%w: %d", errs.ErrInvalidMessageType, msgTypeID)
	}

	return nil
}
