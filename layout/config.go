package layout

import (
	"errors"
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/nuklei/errs"
	"github.com/arloliu/nuklei/ringbuf"
)

// Config holds the buffer capacities a Directory uses for new handles.
type Config struct {
	CommandCapacity  int `yaml:"command_capacity"`
	ResponseCapacity int `yaml:"response_capacity"`
	StreamCapacity   int `yaml:"stream_capacity"`
	ThrottleCapacity int `yaml:"throttle_capacity"`
}

// DefaultConfig returns the capacities used when nothing else is configured.
func DefaultConfig() Config {
	return Config{
		CommandCapacity:  64 * 1024,
		ResponseCapacity: 64 * 1024,
		StreamCapacity:   1024 * 1024,
		ThrottleCapacity: 64 * 1024,
	}
}

// LoadConfig reads a YAML document from r. Keys missing from the document
// keep their DefaultConfig values.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", errs.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks every capacity. The throttle capacity may be zero, which
// selects a streams file without a throttle ring.
func (c Config) Validate() error {
	checks := []struct {
		name     string
		value    int
		optional bool
	}{
		{"command_capacity", c.CommandCapacity, false},
		{"response_capacity", c.ResponseCapacity, false},
		{"stream_capacity", c.StreamCapacity, false},
		{"throttle_capacity", c.ThrottleCapacity, true},
	}

	for _, check := range checks {
		if check.optional && check.value == 0 {
			continue
		}
		if err := validateCapacity(check.value); err != nil {
			return fmt.Errorf("%w: %s: %w", errs.ErrInvalidConfig, check.name, err)
		}
	}

	return nil
}

func validateCapacity(capacity int) error {
	if int64(capacity) > math.MaxUint32 {
		return fmt.Errorf("%w: %d exceeds 32 bits", errs.ErrInvalidCapacity, capacity)
	}

	return ringbuf.CheckCapacity(capacity)
}
