package ringbuf

import (
	"fmt"

	"github.com/arloliu/nuklei/errs"
)

// MessageHandler receives one message. msg aliases the buffer and is only
// valid until the handler returns.
type MessageHandler func(msgTypeID int32, msg []byte)

// ManyToOne is a ring buffer with many concurrent producers and one consumer.
type ManyToOne struct {
	buf                []byte
	capacity           int
	maxMsgLength       int
	tailPosition       int
	headCachePosition  int
	headPosition       int
	correlationCounter int
	consumerHeartbeat  int
}

// NewManyToOne wraps buf, whose length must be a power of two plus TrailerLength.
func NewManyToOne(buf []byte) (*ManyToOne, error) {
	capacity, err := checkBuffer(buf, TrailerLength)
	if err != nil {
		return nil, err
	}

	return &ManyToOne{
		buf:                buf,
		capacity:           capacity,
		maxMsgLength:       capacity / 8,
		tailPosition:       capacity + TailPositionOffset,
		headCachePosition:  capacity + HeadCachePositionOffset,
		headPosition:       capacity + HeadPositionOffset,
		correlationCounter: capacity + CorrelationCounterOffset,
		consumerHeartbeat:  capacity + ConsumerHeartbeatOffset,
	}, nil
}

// Capacity returns the size of the data area in bytes.
func (r *ManyToOne) Capacity() int {
	return r.capacity
}

// MaxMsgLength returns the largest payload Write accepts.
func (r *ManyToOne) MaxMsgLength() int {
	return r.maxMsgLength
}

// Write appends a message.
//
// Parameters:
//   - msgTypeID: Message type, must be positive
//   - msg: Payload, at most MaxMsgLength bytes
//
// Returns:
//   - error: ErrInsufficientCapacity when the consumer has not freed enough space,
//     ErrMessageTooLong or ErrInvalidMessageType for invalid input
func (r *ManyToOne) Write(msgTypeID int32, msg []byte) error {
	if err := checkTypeID(msgTypeID); err != nil {
		return err
	}
	if len(msg) > r.maxMsgLength {
		return fmt.Errorf("%w: %d > %d", errs.ErrMessageTooLong, len(msg), r.maxMsgLength)
	}

	recordLength := len(msg) + HeaderLength
	required := align(recordLength, RecordAlignment)

	recordOffset, ok := r.claimCapacity(required)
	if !ok {
		return errs.ErrInsufficientCapacity
	}

	storeInt32(r.buf, lengthOffset(recordOffset), int32(-recordLength))
	copy(r.buf[recordOffset+HeaderLength:], msg)
	storeInt32(r.buf, typeOffset(recordOffset), msgTypeID)
	storeInt32(r.buf, lengthOffset(recordOffset), int32(recordLength))

	return nil
}

func (r *ManyToOne) claimCapacity(required int) (int, bool) {
	mask := int64(r.capacity - 1)
	head := loadInt64(r.buf, r.headCachePosition)

	var (
		tail      int64
		tailIndex int
		padding   int
	)
	for {
		tail = loadInt64(r.buf, r.tailPosition)
		if required > r.capacity-int(tail-head) {
			head = loadInt64(r.buf, r.headPosition)
			if required > r.capacity-int(tail-head) {
				return 0, false
			}
			storeInt64(r.buf, r.headCachePosition, head)
		}

		padding = 0
		tailIndex = int(tail & mask)
		toBufferEnd := r.capacity - tailIndex
		if required > toBufferEnd {
			headIndex := int(head & mask)
			if required > headIndex {
				head = loadInt64(r.buf, r.headPosition)
				headIndex = int(head & mask)
				if required > headIndex {
					return 0, false
				}
				storeInt64(r.buf, r.headCachePosition, head)
			}
			padding = toBufferEnd
		}

		if casInt64(r.buf, r.tailPosition, tail, tail+int64(required+padding)) {
			break
		}
	}

	if padding != 0 {
		storeInt32(r.buf, typeOffset(tailIndex), PaddingMsgTypeID)
		storeInt32(r.buf, lengthOffset(tailIndex), int32(padding))
		tailIndex = 0
	}

	return tailIndex, true
}

// Read delivers up to limit messages to handler and returns how many were delivered.
// Only messages up to the end of the buffer are read in one call; a wrapped
// batch is picked up by the next call.
func (r *ManyToOne) Read(handler MessageHandler, limit int) int {
	head := loadInt64(r.buf, r.headPosition)
	headIndex := int(head & int64(r.capacity-1))
	maxBlockLength := r.capacity - headIndex

	read := 0
	bytesRead := 0
	defer func() {
		if bytesRead != 0 {
			clear(r.buf[headIndex : headIndex+bytesRead])
			storeInt64(r.buf, r.headPosition, head+int64(bytesRead))
		}
	}()

	for bytesRead < maxBlockLength && read < limit {
		recordOffset := headIndex + bytesRead
		recordLength := int(loadInt32(r.buf, lengthOffset(recordOffset)))
		if recordLength <= 0 {
			break
		}

		bytesRead += align(recordLength, RecordAlignment)

		msgTypeID := loadInt32(r.buf, typeOffset(recordOffset))
		if msgTypeID == PaddingMsgTypeID {
			continue
		}

		read++
		handler(msgTypeID, r.buf[recordOffset+HeaderLength:recordOffset+recordLength])
	}

	return read
}

// NextCorrelationID atomically increments the shared correlation counter and
// returns its previous value.
func (r *ManyToOne) NextCorrelationID() int64 {
	return addInt64(r.buf, r.correlationCounter, 1) - 1
}

// ConsumerHeartbeatTime returns the last heartbeat stored by the consumer.
func (r *ManyToOne) ConsumerHeartbeatTime() int64 {
	return loadInt64(r.buf, r.consumerHeartbeat)
}

// SetConsumerHeartbeatTime stores a consumer heartbeat, typically a Unix time in milliseconds.
func (r *ManyToOne) SetConsumerHeartbeatTime(t int64) {
	storeInt64(r.buf, r.consumerHeartbeat, t)
}

// ProducerPosition returns the total number of bytes claimed by producers.
func (r *ManyToOne) ProducerPosition() int64 {
	return loadInt64(r.buf, r.tailPosition)
}

// ConsumerPosition returns the total number of bytes released by the consumer.
func (r *ManyToOne) ConsumerPosition() int64 {
	return loadInt64(r.buf, r.headPosition)
}

// Size returns the number of bytes currently occupied by unread records.
func (r *ManyToOne) Size() int {
	for {
		before := loadInt64(r.buf, r.headPosition)
		tail := loadInt64(r.buf, r.tailPosition)
		after := loadInt64(r.buf, r.headPosition)
		if before == after {
			return int(tail - after)
		}
	}
}
