package ringbuf

import (
	"fmt"
	"sync/atomic"

	"github.com/arloliu/nuklei/errs"
)

// Transmitter writes messages into a broadcast buffer. Receivers that fall a
// full buffer behind lose messages rather than blocking the transmitter.
type Transmitter struct {
	buf               []byte
	capacity          int
	maxMsgLength      int
	tailIntentCounter int
	tailCounter       int
	latestCounter     int
}

// NewTransmitter wraps buf, whose length must be a power of two plus BroadcastTrailerLength.
func NewTransmitter(buf []byte) (*Transmitter, error) {
	capacity, err := checkBuffer(buf, BroadcastTrailerLength)
	if err != nil {
		return nil, err
	}

	return &Transmitter{
		buf:               buf,
		capacity:          capacity,
		maxMsgLength:      capacity / 8,
		tailIntentCounter: capacity + TailIntentCounterOffset,
		tailCounter:       capacity + TailCounterOffset,
		latestCounter:     capacity + LatestCounterOffset,
	}, nil
}

func (t *Transmitter) Capacity() int {
	return t.capacity
}

func (t *Transmitter) MaxMsgLength() int {
	return t.maxMsgLength
}

// Transmit broadcasts a message to all receivers.
func (t *Transmitter) Transmit(msgTypeID int32, msg []byte) error {
	if err := checkTypeID(msgTypeID); err != nil {
		return err
	}
	if len(msg) > t.maxMsgLength {
		return fmt.Errorf("%w: %d > %d", errs.ErrMessageTooLong, len(msg), t.maxMsgLength)
	}

	currentTail := loadInt64(t.buf, t.tailCounter)
	recordOffset := int(currentTail & int64(t.capacity-1))
	recordLength := HeaderLength + len(msg)
	alignedLength := align(recordLength, RecordAlignment)
	newTail := currentTail + int64(alignedLength)

	toEnd := t.capacity - recordOffset
	if toEnd < alignedLength {
		storeInt64(t.buf, t.tailIntentCounter, newTail+int64(toEnd))

		storeInt32(t.buf, lengthOffset(recordOffset), int32(toEnd))
		storeInt32(t.buf, typeOffset(recordOffset), PaddingMsgTypeID)

		currentTail += int64(toEnd)
		recordOffset = 0
	} else {
		storeInt64(t.buf, t.tailIntentCounter, newTail)
	}

	storeInt32(t.buf, lengthOffset(recordOffset), int32(recordLength))
	storeInt32(t.buf, typeOffset(recordOffset), msgTypeID)
	copy(t.buf[recordOffset+HeaderLength:], msg)

	storeInt64(t.buf, t.latestCounter, currentTail)
	storeInt64(t.buf, t.tailCounter, currentTail+int64(alignedLength))

	return nil
}

// Receiver reads messages from a broadcast buffer. A new receiver starts at
// the latest transmitted message.
type Receiver struct {
	buf               []byte
	capacity          int
	tailIntentCounter int
	tailCounter       int
	latestCounter     int

	cursor       int64
	nextRecord   int64
	recordOffset int
	lappedCount  atomic.Int64
	scratch      []byte
}

// NewReceiver wraps buf, whose length must be a power of two plus BroadcastTrailerLength.
func NewReceiver(buf []byte) (*Receiver, error) {
	capacity, err := checkBuffer(buf, BroadcastTrailerLength)
	if err != nil {
		return nil, err
	}

	r := &Receiver{
		buf:               buf,
		capacity:          capacity,
		tailIntentCounter: capacity + TailIntentCounterOffset,
		tailCounter:       capacity + TailCounterOffset,
		latestCounter:     capacity + LatestCounterOffset,
		scratch:           make([]byte, capacity/8),
	}
	r.cursor = loadInt64(buf, r.latestCounter)
	r.nextRecord = r.cursor
	r.recordOffset = int(r.cursor & int64(capacity-1))

	return r, nil
}

func (r *Receiver) Capacity() int {
	return r.capacity
}

// LappedCount returns how many times the transmitter overtook this receiver.
func (r *Receiver) LappedCount() int64 {
	return r.lappedCount.Load()
}

// ReceiveNext advances to the next available message and reports whether one exists.
// When the receiver has been lapped it skips to the latest message and
// increments LappedCount.
func (r *Receiver) ReceiveNext() bool {
	tail := loadInt64(r.buf, r.tailCounter)
	cursor := r.nextRecord
	if tail <= cursor {
		return false
	}

	mask := int64(r.capacity - 1)
	recordOffset := int(cursor & mask)
	if !r.validateCursor(cursor) {
		r.lappedCount.Add(1)
		cursor = loadInt64(r.buf, r.latestCounter)
		recordOffset = int(cursor & mask)
	}

	r.cursor = cursor
	r.nextRecord = cursor + int64(align(int(loadInt32(r.buf, lengthOffset(recordOffset))), RecordAlignment))

	if loadInt32(r.buf, typeOffset(recordOffset)) == PaddingMsgTypeID {
		recordOffset = 0
		r.cursor = r.nextRecord
		r.nextRecord += int64(align(int(loadInt32(r.buf, lengthOffset(recordOffset))), RecordAlignment))
	}
	r.recordOffset = recordOffset

	return true
}

// TypeID returns the message type of the current message.
func (r *Receiver) TypeID() int32 {
	return loadInt32(r.buf, typeOffset(r.recordOffset))
}

// Message returns the payload of the current message. It aliases the buffer
// and must be checked with Validate after use.
func (r *Receiver) Message() []byte {
	length := int(loadInt32(r.buf, lengthOffset(r.recordOffset))) - HeaderLength
	start := r.recordOffset + HeaderLength

	return r.buf[start : start+length]
}

// Validate reports whether the current message is still intact, that is the
// transmitter has not started overwriting it.
func (r *Receiver) Validate() bool {
	return r.validateCursor(r.cursor)
}

func (r *Receiver) validateCursor(cursor int64) bool {
	return cursor+int64(r.capacity) > loadInt64(r.buf, r.tailIntentCounter)
}

// Receive copies the next message out of the buffer and hands it to handler.
// It returns the number of messages delivered (0 or 1), or ErrLapped when the
// transmitter overwrote unread or in-flight data.
func (r *Receiver) Receive(handler MessageHandler) (int, error) {
	lapped := r.LappedCount()
	if !r.ReceiveNext() {
		return 0, nil
	}
	if lapped != r.LappedCount() {
		return 0, fmt.Errorf("%w: lapped %d times", errs.ErrLapped, r.LappedCount())
	}

	msg := r.Message()
	if len(msg) > len(r.scratch) {
		return 0, fmt.Errorf("%w: %d > %d", errs.ErrMessageTooLong, len(msg), len(r.scratch))
	}

	msgTypeID := r.TypeID()
	n := copy(r.scratch, msg)
	if !r.Validate() {
		return 0, fmt.Errorf("%w: message overwritten while copying", errs.ErrLapped)
	}

	handler(msgTypeID, r.scratch[:n])

	return 1, nil
}
