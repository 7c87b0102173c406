package frame

import (
	"github.com/arloliu/nuklei/compress"
	"github.com/arloliu/nuklei/format"
	"github.com/arloliu/nuklei/internal/options"
)

// Option configures an Encoder.
type Option = options.Option[*Encoder]

// WithCompression selects the payload codec. Default is format.CompressionNone.
func WithCompression(compression format.CompressionType) Option {
	return options.New(func(e *Encoder) error {
		codec, err := compress.GetCodec(compression)
		if err != nil {
			return err
		}
		e.codec = codec

		return nil
	})
}

// WithChecksum appends an xxHash64 checksum to every frame when enabled.
func WithChecksum(enabled bool) Option {
	return options.NoError(func(e *Encoder) {
		e.checksum = enabled
	})
}
