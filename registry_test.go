package nuklei

import (
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/nuklei/endian"
	"github.com/arloliu/nuklei/errs"
	"github.com/arloliu/nuklei/layout"
)

func TestLibrary_Names(t *testing.T) {
	require.Equal(t, "core", CoreLibrary().Prefix())
	require.Equal(t, []string{"capabilities", "fromHex", "random", "string", "string16", "vint", "vstring"},
		CoreLibrary().Names())

	require.Equal(t, "nuklei", NukleiLibrary().Prefix())
	require.Equal(t, []string{
		"directory", "newCorrelationId", "newInitialStreamId",
		"newReferenceId", "newReplyStreamId", "newStreamId",
	}, NukleiLibrary().Names())

	require.Len(t, Libraries(), 4)
}

func TestCoreLibrary_Call(t *testing.T) {
	lib := CoreLibrary()

	tests := []struct {
		name string
		args []any
		want any
	}{
		{name: "string", args: []any{"abc"}, want: []byte{0x03, 'a', 'b', 'c'}},
		{name: "string", args: []any{nil}, want: []byte{0xFF}},
		{name: "string", args: []any{(*string)(nil)}, want: []byte{0xFF}},
		{name: "string16", args: []any{"a"}, want: []byte{0x01, 0x00, 'a'}},
		{name: "string16", args: []any{nil}, want: []byte{0xFF, 0xFF}},
		{name: "vstring", args: []any{""}, want: []byte{0x00}},
		{name: "vstring", args: []any{nil}, want: []byte{0x01}},
		{name: "vint", args: []any{64}, want: []byte{0x80, 0x01}},
		{name: "vint", args: []any{int64(-1)}, want: []byte{0x01}},
		{name: "vint", args: []any{int32(1)}, want: []byte{0x02}},
		{name: "fromHex", args: []any{"ff00"}, want: []byte{0xFF, 0x00}},
		{name: "capabilities", args: []any{"CHALLENGE"}, want: uint8(0x01)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lib.Call(tt.name, tt.args...)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	t.Run("random", func(t *testing.T) {
		got, err := lib.Call("random")
		require.NoError(t, err)
		require.IsType(t, &rand.Rand{}, got)
	})
}

func TestLibrary_CallErrors(t *testing.T) {
	lib := CoreLibrary()

	_, err := lib.Call("missing")
	require.ErrorIs(t, err, errs.ErrUnknownFunction)

	_, err = lib.Call("string")
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = lib.Call("string", 42)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = lib.Call("vint", "1")
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = lib.Call("random", 1)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = lib.Call("capabilities")
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = lib.Call("capabilities", "CHALLENGE", 7)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = lib.Call("capabilities", "READ")
	require.ErrorIs(t, err, errs.ErrUnknownCapability)
	require.Contains(t, err.Error(), "core:capabilities")

	_, err = lib.Call("fromHex", "abc")
	require.ErrorIs(t, err, errs.ErrInvalidHex)
}

func TestNukleiLibrary_Call(t *testing.T) {
	lib := NukleiLibrary()

	id, err := lib.Call("newInitialStreamId")
	require.NoError(t, err)
	require.Equal(t, int64(1), id.(int64)&1)

	id, err = lib.Call("newReplyStreamId")
	require.NoError(t, err)
	require.Zero(t, id.(int64)&1)

	for _, name := range []string{"newReferenceId", "newCorrelationId", "newStreamId"} {
		id, err = lib.Call(name)
		require.NoError(t, err)
		require.IsType(t, int64(0), id)
	}

	root := t.TempDir()
	dir, err := lib.Call("directory", root)
	require.NoError(t, err)
	require.Equal(t, root, dir.(*layout.Directory).Root())
}

func TestStreamsLibrary_Call(t *testing.T) {
	lib := StreamsLibrary()

	out, err := lib.Call("newInitialStreamId")
	require.NoError(t, err)
	b := out.([]byte)
	require.Len(t, b, 8)
	require.Equal(t, uint64(1), endian.GetNativeEngine().Uint64(b)&1)

	out, err = lib.Call("map", filepath.Join(t.TempDir(), "streams"), 1024)
	require.NoError(t, err)
	s := out.(*layout.Streams)
	require.Equal(t, "streamsCapacity(1024, 0)", s.String())
	require.NoError(t, s.Close())
}

func TestResolve(t *testing.T) {
	out, err := Resolve("core:vint", 0)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00}, out)

	_, err = Resolve("vint", 0)
	require.ErrorIs(t, err, errs.ErrUnknownFunction)

	_, err = Resolve("missing:vint", 0)
	require.ErrorIs(t, err, errs.ErrUnknownFunction)

	lib, ok := LookupLibrary("control")
	require.True(t, ok)
	require.Equal(t, []string{"map", "mapNew"}, lib.Names())
}
