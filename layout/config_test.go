package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/nuklei/errs"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	require.Equal(t, 1024*1024, cfg.StreamCapacity)
	require.Equal(t, 64*1024, cfg.ThrottleCapacity)
}

func TestLoadConfig(t *testing.T) {
	t.Run("Partial document keeps defaults", func(t *testing.T) {
		cfg, err := LoadConfig(strings.NewReader("command_capacity: 4096\nthrottle_capacity: 0\n"))
		require.NoError(t, err)

		want := DefaultConfig()
		want.CommandCapacity = 4096
		want.ThrottleCapacity = 0
		require.Equal(t, want, cfg)
	})

	t.Run("Empty document", func(t *testing.T) {
		cfg, err := LoadConfig(strings.NewReader(""))
		require.NoError(t, err)
		require.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("Unknown key", func(t *testing.T) {
		_, err := LoadConfig(strings.NewReader("ring_capacity: 1024\n"))
		require.ErrorIs(t, err, errs.ErrInvalidConfig)
	})

	t.Run("Malformed document", func(t *testing.T) {
		_, err := LoadConfig(strings.NewReader("command_capacity: [1, 2\n"))
		require.ErrorIs(t, err, errs.ErrInvalidConfig)
	})

	t.Run("Invalid capacity", func(t *testing.T) {
		_, err := LoadConfig(strings.NewReader("response_capacity: 1000\n"))
		require.ErrorIs(t, err, errs.ErrInvalidConfig)
		require.ErrorIs(t, err, errs.ErrInvalidCapacity)
		require.Contains(t, err.Error(), "response_capacity")
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "Defaults", mutate: func(*Config) {}},
		{name: "No throttle", mutate: func(c *Config) { c.ThrottleCapacity = 0 }},
		{name: "Zero command", mutate: func(c *Config) { c.CommandCapacity = 0 }, wantErr: true},
		{name: "Negative stream", mutate: func(c *Config) { c.StreamCapacity = -1024 }, wantErr: true},
		{name: "Odd throttle", mutate: func(c *Config) { c.ThrottleCapacity = 3 }, wantErr: true},
		{name: "Tiny response", mutate: func(c *Config) { c.ResponseCapacity = 4 }, wantErr: true},
		{name: "Tiny stream", mutate: func(c *Config) { c.StreamCapacity = 8 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrInvalidCapacity)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestRegion(t *testing.T) {
	r := Region{Offset: 64, Capacity: 1024, TrailerLength: 768}

	require.Equal(t, 1792, r.Length())
	require.Equal(t, 1856, r.End())

	data := make([]byte, 2048)
	s := r.slice(data)
	require.Len(t, s, 1792)
	require.Equal(t, 1792, cap(s))
}

func TestMode_String(t *testing.T) {
	require.Equal(t, "attach", ModeAttach.String())
	require.Equal(t, "create", ModeCreate.String())
	require.Equal(t, "Mode(7)", Mode(7).String())
}
