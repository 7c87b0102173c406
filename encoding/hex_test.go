package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/nuklei/errs"
)

func TestDecodeHex(t *testing.T) {
	b, err := DecodeHex("00017fFF")
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x01, 0x7f, 0xff}, b)

	b, err = DecodeHex("")
	require.NoError(t, err)
	require.Empty(t, b)

	_, err = DecodeHex("abc")
	require.ErrorIs(t, err, errs.ErrInvalidHex)

	_, err = DecodeHex("zz")
	require.ErrorIs(t, err, errs.ErrInvalidHex)
}
