package layout

import (
	"fmt"
	"path/filepath"

	"github.com/arloliu/nuklei/internal/options"
)

// Directory resolves control and streams files of named channels below a root.
type Directory struct {
	root       string
	config     Config
	handleOpts []Option
}

// DirectoryOption configures a Directory.
type DirectoryOption = options.Option[*Directory]

// WithConfig replaces all capacities. The config is validated.
func WithConfig(cfg Config) DirectoryOption {
	return options.New(func(d *Directory) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		d.config = cfg

		return nil
	})
}

// WithControlCapacity sets the command and response capacities of control files.
func WithControlCapacity(commandCapacity, responseCapacity int) DirectoryOption {
	return options.NoError(func(d *Directory) {
		d.ControlCapacity(commandCapacity, responseCapacity)
	})
}

// WithStreamsCapacity sets the stream and throttle capacities of streams files.
func WithStreamsCapacity(streamCapacity, throttleCapacity int) DirectoryOption {
	return options.NoError(func(d *Directory) {
		d.StreamsCapacity(streamCapacity, throttleCapacity)
	})
}

// WithHandleOptions passes opts to every handle the directory opens.
func WithHandleOptions(opts ...Option) DirectoryOption {
	return options.NoError(func(d *Directory) {
		d.handleOpts = append(d.handleOpts, options.Combine(opts...))
	})
}

// NewDirectory returns a Directory rooted at root using DefaultConfig capacities.
func NewDirectory(root string, opts ...DirectoryOption) (*Directory, error) {
	d := &Directory{
		root:   root,
		config: DefaultConfig(),
	}
	if err := options.Apply(d, opts...); err != nil {
		return nil, fmt.Errorf("directory %s: %w", root, err)
	}

	return d, nil
}

// Root returns the root directory.
func (d *Directory) Root() string {
	return d.root
}

// Config returns the capacities in use.
func (d *Directory) Config() Config {
	return d.config
}

// ControlCapacity sets the control file capacities and returns d for chaining.
// Capacities are checked when a file is created.
func (d *Directory) ControlCapacity(commandCapacity, responseCapacity int) *Directory {
	d.config.CommandCapacity = commandCapacity
	d.config.ResponseCapacity = responseCapacity

	return d
}

// StreamsCapacity sets the streams file capacities and returns d for chaining.
func (d *Directory) StreamsCapacity(streamCapacity, throttleCapacity int) *Directory {
	d.config.StreamCapacity = streamCapacity
	d.config.ThrottleCapacity = throttleCapacity

	return d
}

// ControlPath returns <root>/<channel>/control.
func (d *Directory) ControlPath(channel string) string {
	return filepath.Join(d.root, channel, "control")
}

// StreamsPath returns <root>/<channel>/streams/<source>.
func (d *Directory) StreamsPath(channel, source string) string {
	return filepath.Join(d.root, channel, "streams", source)
}

// ControlNew creates the channel's control file right away, replacing any
// existing one.
func (d *Directory) ControlNew(channel string) (*Control, error) {
	return CreateControl(d.ControlPath(channel), d.config.CommandCapacity, d.config.ResponseCapacity,
		d.withHandleOpts(WithOverwrite())...)
}

// Control returns a deferred handle that attaches to the channel's control
// file on first access.
func (d *Directory) Control(channel string) (*Control, error) {
	return NewDeferredControl(d.ControlPath(channel), ModeAttach, d.config.CommandCapacity, d.config.ResponseCapacity,
		d.withHandleOpts()...)
}

// Streams returns a deferred handle that attaches to the streams file written
// by source on the channel.
func (d *Directory) Streams(channel, source string) (*Streams, error) {
	return NewDeferredStreams(d.StreamsPath(channel, source), ModeAttach, d.config.StreamCapacity, d.config.ThrottleCapacity,
		d.withHandleOpts()...)
}

// CreateStreams creates the streams file for source on the channel, replacing
// any existing one. This is the producer side of Streams.
func (d *Directory) CreateStreams(channel, source string) (*Streams, error) {
	return CreateStreams(d.StreamsPath(channel, source), d.config.StreamCapacity, d.config.ThrottleCapacity,
		d.withHandleOpts(WithOverwrite())...)
}

func (d *Directory) withHandleOpts(extra ...Option) []Option {
	opts := make([]Option, 0, len(d.handleOpts)+len(extra))
	opts = append(opts, d.handleOpts...)

	return append(opts, extra...)
}
