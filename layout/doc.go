// Package layout creates, attaches to and releases the memory-mapped files
// shared between a nukleus and its test harness.
//
// A control file holds a versioned metadata header followed by a command ring
// region and a response broadcast region:
//
//	offset 0                   metadata (section.ControlMetadata)
//	offset 64                  command ring     (commandCapacity + ringbuf.TrailerLength)
//	offset 64+command region   response buffer  (responseCapacity + ringbuf.BroadcastTrailerLength)
//
// A streams file has no header. It holds a stream ring at offset 0 and,
// when a throttle capacity is configured, a throttle ring right after it.
//
// # Handles
//
// Control and Streams handles own their mapping until Close. Handles built by
// the deferred constructors map nothing until the first region access, which
// then creates or attaches according to the handle's Mode. A handle moves
// through three states:
//
//	Unmapped --first access--> Mapped --Close--> Closed
//	Unmapped --Close---------> Closed
//
// Closing twice is a no-op; any access after Close fails with errs.ErrLayoutClosed.
// Handles are not safe for concurrent use, including the first access of a
// deferred handle.
//
// # Directory
//
// Directory resolves channel names against a root directory using the
// conventional paths <root>/<channel>/control and <root>/<channel>/streams/<source>:
//
//	dir, _ := layout.NewDirectory("/tmp/nukleus")
//	ctl, _ := dir.ControlCapacity(1024, 1024).ControlNew("example")
//	defer ctl.Close()
//
//	ring, _ := ctl.CommandRing()
//	_ = ring.Write(1, payload)
package layout
