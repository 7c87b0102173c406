package layout

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/arloliu/nuklei/errs"
	"github.com/arloliu/nuklei/ringbuf"
)

// Streams is a handle on a streams file: a stream ring optionally followed
// by a throttle ring.
type Streams struct {
	handle

	stream   Region
	throttle Region
}

// CreateStreams creates a streams file at path and maps it. A zero
// throttleCapacity creates a file holding only the stream ring.
func CreateStreams(path string, streamCapacity, throttleCapacity int, opts ...Option) (*Streams, error) {
	s, err := NewDeferredStreams(path, ModeCreate, streamCapacity, throttleCapacity, opts...)
	if err != nil {
		return nil, err
	}

	if err := s.ensureMapped(); err != nil {
		return nil, err
	}

	return s, nil
}

// AttachStreams maps an existing streams file. Streams files carry no header,
// so the capacities must match the ones used at creation.
// Returns errs.ErrNotFound if the file is missing or too small.
func AttachStreams(path string, streamCapacity, throttleCapacity int, opts ...Option) (*Streams, error) {
	s, err := NewDeferredStreams(path, ModeAttach, streamCapacity, throttleCapacity, opts...)
	if err != nil {
		return nil, err
	}

	if err := s.ensureMapped(); err != nil {
		return nil, err
	}

	return s, nil
}

// NewDeferredStreams returns an unmapped handle that creates or attaches on
// first region access.
func NewDeferredStreams(path string, mode Mode, streamCapacity, throttleCapacity int, opts ...Option) (*Streams, error) {
	cfg, err := newHandleConfig(opts...)
	if err != nil {
		return nil, err
	}

	stream := Region{Offset: 0, Capacity: streamCapacity, TrailerLength: ringbuf.TrailerLength}
	throttle := Region{Offset: stream.End(), Capacity: throttleCapacity}
	if throttleCapacity > 0 {
		throttle.TrailerLength = ringbuf.TrailerLength
	}

	return &Streams{
		handle:   handle{path: path, mode: mode, cfg: cfg},
		stream:   stream,
		throttle: throttle,
	}, nil
}

func (s *Streams) size() int {
	return s.throttle.End()
}

func (s *Streams) ensureMapped() error {
	return s.acquire(func() ([]byte, error) {
		if err := validateCapacity(s.stream.Capacity); err != nil {
			return nil, fmt.Errorf("stream capacity: %w", err)
		}
		if s.throttle.Capacity != 0 {
			if err := validateCapacity(s.throttle.Capacity); err != nil {
				return nil, fmt.Errorf("throttle capacity: %w", err)
			}
		}

		var (
			data []byte
			err  error
		)
		if s.mode == ModeCreate {
			data, err = createMapped(s.path, s.size(), s.cfg)
		} else {
			data, err = attachMapped(s.path, s.cfg, func(_ *os.File, fileSize int64) (int, error) {
				if fileSize < int64(s.size()) {
					return 0, undersized(s.path, fileSize, s.size())
				}

				return s.size(), nil
			})
		}
		if err != nil {
			return nil, err
		}

		s.logger().Debug("mapped streams file",
			slog.String("path", s.path),
			slog.String("mode", s.mode.String()),
			slog.Int("streamCapacity", s.stream.Capacity),
			slog.Int("throttleCapacity", s.throttle.Capacity),
		)

		return data, nil
	})
}

// Path returns the streams file path.
func (s *Streams) Path() string {
	return s.path
}

// HasThrottle reports whether the file carries a throttle ring.
func (s *Streams) HasThrottle() bool {
	return s.throttle.Capacity > 0
}

// StreamRegion returns the mapped bytes of the stream ring, trailer included.
func (s *Streams) StreamRegion() ([]byte, error) {
	if err := s.ensureMapped(); err != nil {
		return nil, err
	}

	return s.stream.slice(s.data), nil
}

// ThrottleRegion returns the mapped bytes of the throttle ring, or nil when
// the file has none.
func (s *Streams) ThrottleRegion() ([]byte, error) {
	if err := s.ensureMapped(); err != nil {
		return nil, err
	}
	if !s.HasThrottle() {
		return nil, nil
	}

	return s.throttle.slice(s.data), nil
}

// StreamRing returns a ring buffer over the stream region.
func (s *Streams) StreamRing() (*ringbuf.ManyToOne, error) {
	region, err := s.StreamRegion()
	if err != nil {
		return nil, err
	}

	return ringbuf.NewManyToOne(region)
}

// ThrottleRing returns a ring buffer over the throttle region.
// It returns errs.ErrInvalidCapacity when the file has no throttle ring.
func (s *Streams) ThrottleRing() (*ringbuf.ManyToOne, error) {
	region, err := s.ThrottleRegion()
	if err != nil {
		return nil, err
	}
	if region == nil {
		return nil, fmt.Errorf("%w: %s has no throttle ring", errs.ErrInvalidCapacity, s.path)
	}

	return ringbuf.NewManyToOne(region)
}

// Flush synchronously writes the mapped streams file back to disk.
func (s *Streams) Flush() error {
	return s.flush()
}

// Close unmaps the file. Closing an unmapped or closed handle does nothing.
func (s *Streams) Close() error {
	return s.release()
}

func (s *Streams) String() string {
	return fmt.Sprintf("streamsCapacity(%d, %d)", s.stream.Capacity, s.throttle.Capacity)
}
