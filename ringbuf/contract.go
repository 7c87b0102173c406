package ringbuf

// Ring is the contract layouts rely on for a command or stream region:
// enqueue, dequeue and the shared correlation counter.
type Ring interface {
	Capacity() int
	Write(msgTypeID int32, msg []byte) error
	Read(handler MessageHandler, limit int) int
	NextCorrelationID() int64
}

// Broadcaster is the producer side of a response region.
type Broadcaster interface {
	Capacity() int
	Transmit(msgTypeID int32, msg []byte) error
}

// Subscriber is the consumer side of a response region.
type Subscriber interface {
	Capacity() int
	Receive(handler MessageHandler) (int, error)
}

var (
	_ Ring        = (*ManyToOne)(nil)
	_ Broadcaster = (*Transmitter)(nil)
	_ Subscriber  = (*Receiver)(nil)
)
