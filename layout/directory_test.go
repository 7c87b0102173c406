//go:build unix

package layout

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/nuklei/errs"
)

func TestNewDirectory(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		d, err := NewDirectory("/var/run/nukleus")
		require.NoError(t, err)

		require.Equal(t, "/var/run/nukleus", d.Root())
		require.Equal(t, DefaultConfig(), d.Config())
		require.Equal(t, "/var/run/nukleus/example/control", d.ControlPath("example"))
		require.Equal(t, "/var/run/nukleus/example/streams/source", d.StreamsPath("example", "source"))
	})

	t.Run("Options", func(t *testing.T) {
		d, err := NewDirectory(t.TempDir(),
			WithControlCapacity(1024, 2048),
			WithStreamsCapacity(4096, 0),
		)
		require.NoError(t, err)

		cfg := d.Config()
		require.Equal(t, 1024, cfg.CommandCapacity)
		require.Equal(t, 2048, cfg.ResponseCapacity)
		require.Equal(t, 4096, cfg.StreamCapacity)
		require.Zero(t, cfg.ThrottleCapacity)
	})

	t.Run("Invalid config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.StreamCapacity = 3

		_, err := NewDirectory(t.TempDir(), WithConfig(cfg))
		require.ErrorIs(t, err, errs.ErrInvalidConfig)
	})
}

func TestDirectory_Control(t *testing.T) {
	d, err := NewDirectory(t.TempDir())
	require.NoError(t, err)
	d.ControlCapacity(1024, 1024)

	created, err := d.ControlNew("example")
	require.NoError(t, err)
	defer created.Close()
	require.Equal(t, filepath.Join(d.Root(), "example", "control"), created.Path())

	attached, err := d.ControlCapacity(64, 64).Control("example")
	require.NoError(t, err)
	defer attached.Close()
	require.Equal(t, "controlCapacity(64, 64)", attached.String())

	_, err = attached.NextCorrelationID()
	require.NoError(t, err)
	require.Equal(t, "controlCapacity(1024, 1024)", attached.String(), "capacities come from the file")

	recreated, err := d.ControlCapacity(2048, 2048).ControlNew("example")
	require.NoError(t, err, "ControlNew replaces an existing file")
	require.NoError(t, recreated.Close())
}

func TestDirectory_Streams(t *testing.T) {
	d, err := NewDirectory(t.TempDir(), WithStreamsCapacity(4096, 1024))
	require.NoError(t, err)

	consumer, err := d.Streams("example", "source")
	require.NoError(t, err)
	defer consumer.Close()

	_, err = consumer.StreamRing()
	require.ErrorIs(t, err, errs.ErrNotFound)

	producer, err := d.CreateStreams("example", "source")
	require.NoError(t, err)
	defer producer.Close()

	out, err := producer.StreamRing()
	require.NoError(t, err)
	require.NoError(t, out.Write(1, []byte("begin")))

	in, err := consumer.StreamRing()
	require.NoError(t, err)
	require.Equal(t, 1, in.Read(func(int32, []byte) {}, 1))
}

func TestDirectory_HandleOptions(t *testing.T) {
	d, err := NewDirectory(t.TempDir(),
		WithControlCapacity(1024, 1024),
		WithHandleOptions(WithFileMode(0o600)),
	)
	require.NoError(t, err)

	c, err := d.ControlNew("example")
	require.NoError(t, err)
	require.NoError(t, c.Close())

	c, err = d.ControlNew("example")
	require.NoError(t, err)
	require.NoError(t, c.Close())
}
