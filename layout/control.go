package layout

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/arloliu/nuklei/errs"
	"github.com/arloliu/nuklei/internal/mmap"
	"github.com/arloliu/nuklei/ringbuf"
	"github.com/arloliu/nuklei/section"
)

// Control is a handle on a control file.
type Control struct {
	handle

	commandCapacity  int
	responseCapacity int

	metadata      section.ControlMetadata
	command       Region
	response      Region
	ring          *ringbuf.ManyToOne
	correlationID int64
}

// CreateControl creates a control file at path and maps it.
//
// Parameters:
//   - path: File to create; missing parent directories are created
//   - commandCapacity: Command ring capacity, a positive power of two
//   - responseCapacity: Response broadcast capacity, a positive power of two
//   - opts: Handle options
//
// Returns:
//   - *Control: Mapped handle, to be released with Close
//   - error: errs.ErrAlreadyExists if path exists and WithOverwrite was not given,
//     errs.ErrInvalidCapacity for an invalid capacity
func CreateControl(path string, commandCapacity, responseCapacity int, opts ...Option) (*Control, error) {
	c, err := NewDeferredControl(path, ModeCreate, commandCapacity, responseCapacity, opts...)
	if err != nil {
		return nil, err
	}

	if err := c.ensureMapped(); err != nil {
		return nil, err
	}

	return c, nil
}

// AttachControl maps an existing control file, taking the capacities from its metadata.
//
// Returns errs.ErrNotFound if the file is missing or shorter than its metadata
// implies, errs.ErrCorruptMetadata if the version is not section.ControlVersion.
func AttachControl(path string, opts ...Option) (*Control, error) {
	c, err := NewDeferredControl(path, ModeAttach, 0, 0, opts...)
	if err != nil {
		return nil, err
	}

	if err := c.ensureMapped(); err != nil {
		return nil, err
	}

	return c, nil
}

// NewDeferredControl returns an unmapped handle. The file is created or
// attached according to mode on the first call to Metadata, CommandRegion,
// ResponseRegion, NextCorrelationID or one of the ring accessors.
// In ModeAttach the capacities only serve String until the metadata is read.
func NewDeferredControl(path string, mode Mode, commandCapacity, responseCapacity int, opts ...Option) (*Control, error) {
	cfg, err := newHandleConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &Control{
		handle:           handle{path: path, mode: mode, cfg: cfg},
		commandCapacity:  commandCapacity,
		responseCapacity: responseCapacity,
	}, nil
}

func (c *Control) ensureMapped() error {
	return c.acquire(func() ([]byte, error) {
		if c.mode == ModeCreate {
			return c.create()
		}

		return c.attach()
	})
}

func (c *Control) create() ([]byte, error) {
	if err := validateCapacity(c.commandCapacity); err != nil {
		return nil, fmt.Errorf("command capacity: %w", err)
	}
	if err := validateCapacity(c.responseCapacity); err != nil {
		return nil, fmt.Errorf("response capacity: %w", err)
	}

	metadata := section.NewControlMetadata(uint32(c.commandCapacity), uint32(c.responseCapacity))
	command, response := controlRegions(metadata)

	data, err := createMapped(c.path, response.End(), c.cfg)
	if err != nil {
		return nil, err
	}
	metadata.Put(data)

	c.setLayout(metadata, command, response)

	return data, nil
}

func (c *Control) attach() ([]byte, error) {
	var (
		metadata section.ControlMetadata
		command  Region
		response Region
	)

	data, err := attachMapped(c.path, c.cfg, func(f *os.File, fileSize int64) (int, error) {
		if fileSize < section.EndOfMetadataOffset {
			return 0, undersized(c.path, fileSize, section.EndOfMetadataOffset)
		}

		header, err := mmap.Map(f, section.EndOfMetadataOffset)
		if err != nil {
			return 0, err
		}
		metadata, err = section.ParseControlMetadata(header)
		if unmapErr := mmap.Unmap(header); err == nil {
			err = unmapErr
		}
		if err != nil {
			return 0, fmt.Errorf("%s: %w", c.path, err)
		}

		if err := validateRecovered(metadata); err != nil {
			return 0, fmt.Errorf("%s: %w", c.path, err)
		}

		command, response = controlRegions(metadata)
		if fileSize < int64(response.End()) {
			return 0, undersized(c.path, fileSize, response.End())
		}

		return response.End(), nil
	})
	if err != nil {
		return nil, err
	}

	c.setLayout(metadata, command, response)

	return data, nil
}

func (c *Control) setLayout(metadata section.ControlMetadata, command, response Region) {
	c.metadata = metadata
	c.command = command
	c.response = response
	c.commandCapacity = command.Capacity
	c.responseCapacity = response.Capacity

	c.logger().Debug("mapped control file",
		slog.String("path", c.path),
		slog.String("mode", c.mode.String()),
		slog.Int("commandCapacity", command.Capacity),
		slog.Int("responseCapacity", response.Capacity),
	)
}

func controlRegions(metadata section.ControlMetadata) (Region, Region) {
	command := Region{
		Offset:        section.EndOfMetadataOffset,
		Capacity:      int(metadata.CommandBufferLength),
		TrailerLength: ringbuf.TrailerLength,
	}
	response := Region{
		Offset:        command.End(),
		Capacity:      int(metadata.ResponseBufferLength),
		TrailerLength: ringbuf.BroadcastTrailerLength,
	}

	return command, response
}

func validateRecovered(metadata section.ControlMetadata) error {
	if err := ringbuf.CheckCapacity(int(metadata.CommandBufferLength)); err != nil {
		return fmt.Errorf("%w: command capacity: %w", errs.ErrCorruptMetadata, err)
	}
	if err := ringbuf.CheckCapacity(int(metadata.ResponseBufferLength)); err != nil {
		return fmt.Errorf("%w: response capacity: %w", errs.ErrCorruptMetadata, err)
	}

	return nil
}

// Path returns the control file path.
func (c *Control) Path() string {
	return c.path
}

// Metadata returns the header of the mapped file.
func (c *Control) Metadata() (section.ControlMetadata, error) {
	if err := c.ensureMapped(); err != nil {
		return section.ControlMetadata{}, err
	}

	return c.metadata, nil
}

// CommandLayout returns where the command region sits in the file.
func (c *Control) CommandLayout() (Region, error) {
	if err := c.ensureMapped(); err != nil {
		return Region{}, err
	}

	return c.command, nil
}

// ResponseLayout returns where the response region sits in the file.
func (c *Control) ResponseLayout() (Region, error) {
	if err := c.ensureMapped(); err != nil {
		return Region{}, err
	}

	return c.response, nil
}

// CommandRegion returns the mapped bytes of the command ring, trailer included.
// The slice is only valid until Close.
func (c *Control) CommandRegion() ([]byte, error) {
	if err := c.ensureMapped(); err != nil {
		return nil, err
	}

	return c.command.slice(c.data), nil
}

// ResponseRegion returns the mapped bytes of the response broadcast buffer, trailer included.
// The slice is only valid until Close.
func (c *Control) ResponseRegion() ([]byte, error) {
	if err := c.ensureMapped(); err != nil {
		return nil, err
	}

	return c.response.slice(c.data), nil
}

// CommandRing returns the ring buffer over the command region.
func (c *Control) CommandRing() (*ringbuf.ManyToOne, error) {
	if c.ring != nil && c.state == stateMapped {
		return c.ring, nil
	}

	region, err := c.CommandRegion()
	if err != nil {
		return nil, err
	}

	ring, err := ringbuf.NewManyToOne(region)
	if err != nil {
		return nil, err
	}
	c.ring = ring

	return ring, nil
}

// ResponseTransmitter returns a broadcast transmitter over the response region.
func (c *Control) ResponseTransmitter() (*ringbuf.Transmitter, error) {
	region, err := c.ResponseRegion()
	if err != nil {
		return nil, err
	}

	return ringbuf.NewTransmitter(region)
}

// ResponseReceiver returns a broadcast receiver over the response region,
// positioned at the latest response.
func (c *Control) ResponseReceiver() (*ringbuf.Receiver, error) {
	region, err := c.ResponseRegion()
	if err != nil {
		return nil, err
	}

	return ringbuf.NewReceiver(region)
}

// NextCorrelationID takes the next value of the command ring's shared
// correlation counter and remembers it for CorrelationID.
func (c *Control) NextCorrelationID() (int64, error) {
	ring, err := c.CommandRing()
	if err != nil {
		return 0, err
	}

	c.correlationID = ring.NextCorrelationID()

	return c.correlationID, nil
}

// CorrelationID returns the id last taken by NextCorrelationID, or zero.
func (c *Control) CorrelationID() int64 {
	return c.correlationID
}

// Flush synchronously writes the mapped control file back to disk.
// Readers in other processes see writes without it; Flush only matters for
// persistence across a crash or reboot.
func (c *Control) Flush() error {
	return c.flush()
}

// Close unmaps the file. Closing an unmapped or closed handle does nothing.
func (c *Control) Close() error {
	c.ring = nil

	return c.release()
}

func (c *Control) String() string {
	return fmt.Sprintf("controlCapacity(%d, %d)", c.commandCapacity, c.responseCapacity)
}
