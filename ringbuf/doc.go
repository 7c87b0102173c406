// Package ringbuf implements the shared-memory message buffers placed inside
// control and streams files: a many-to-one ring buffer for commands and
// stream frames, and a one-to-many broadcast buffer for responses.
//
// Both buffers operate on a caller-supplied byte slice, normally a region of a
// memory-mapped file, laid out as a power-of-two data area followed by a
// trailer of position counters:
//
//	Ring buffer trailer (TrailerLength = 768)
//	  +128  tail position
//	  +256  head cache position
//	  +384  head position
//	  +512  correlation id counter
//	  +640  consumer heartbeat
//
//	Broadcast trailer (BroadcastTrailerLength = 128)
//	  +0    tail intent counter
//	  +8    tail counter
//	  +16   latest counter
//
// Records start on 8-byte boundaries with an 8-byte header: an int32 length
// covering header plus payload, followed by an int32 message type. A record
// whose type is PaddingMsgTypeID fills the space up to the end of the buffer
// when a message does not fit before the wrap.
//
// Counters are accessed with sync/atomic in host byte order, so every process
// attached to a file must run on the same host.
//
// # Thread Safety
//
// ManyToOne.Write may be called concurrently from any number of goroutines or
// processes. ManyToOne.Read, Transmitter and Receiver each require a single
// caller at a time.
package ringbuf
