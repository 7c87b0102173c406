package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrefixWidth_String(t *testing.T) {
	require.Equal(t, "String8", Prefix8.String())
	require.Equal(t, "String16", Prefix16.String())
	require.Equal(t, "VarString", PrefixVarint.String())
	require.Equal(t, "Unknown", PrefixWidth(0).String())
}

func TestCompressionType_String(t *testing.T) {
	tests := []struct {
		ct   CompressionType
		want string
	}{
		{CompressionNone, "None"},
		{CompressionZstd, "Zstd"},
		{CompressionS2, "S2"},
		{CompressionLZ4, "LZ4"},
		{CompressionType(0), "Unknown"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.ct.String())
	}
}
