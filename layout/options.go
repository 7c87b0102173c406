package layout

import (
	"log/slog"
	"os"

	"github.com/arloliu/nuklei/internal/options"
)

const defaultFileMode os.FileMode = 0o644

// HandleConfig holds the settings shared by Control and Streams handles.
type HandleConfig struct {
	logger    *slog.Logger
	overwrite bool
	fileMode  os.FileMode
}

func newHandleConfig(opts ...Option) (*HandleConfig, error) {
	cfg := &HandleConfig{
		logger:   slog.New(slog.DiscardHandler),
		fileMode: defaultFileMode,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Option configures a Control or Streams handle.
type Option = options.Option[*HandleConfig]

// WithLogger sets the logger for lifecycle events. Handles log at debug level
// only and never on ring operations. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(c *HandleConfig) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithOverwrite lets create replace an existing file instead of failing
// with errs.ErrAlreadyExists.
func WithOverwrite() Option {
	return options.NoError(func(c *HandleConfig) {
		c.overwrite = true
	})
}

// WithFileMode sets the permission bits of newly created files. Default is 0644.
func WithFileMode(mode os.FileMode) Option {
	return options.NoError(func(c *HandleConfig) {
		c.fileMode = mode.Perm()
	})
}
