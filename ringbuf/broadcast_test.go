package ringbuf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/nuklei/errs"
)

func newBroadcast(t *testing.T, capacity int) (*Transmitter, []byte) {
	t.Helper()

	buf := make([]byte, BroadcastLength(capacity))
	tx, err := NewTransmitter(buf)
	require.NoError(t, err)

	return tx, buf
}

func newReceiver(t *testing.T, buf []byte) *Receiver {
	t.Helper()

	rx, err := NewReceiver(buf)
	require.NoError(t, err)

	return rx
}

func TestNewTransmitter_InvalidCapacity(t *testing.T) {
	_, err := NewTransmitter(make([]byte, 100+BroadcastTrailerLength))
	require.ErrorIs(t, err, errs.ErrInvalidCapacity)

	_, err = NewReceiver(make([]byte, 100+BroadcastTrailerLength))
	require.ErrorIs(t, err, errs.ErrInvalidCapacity)

	for _, capacity := range []int{1, 2, 4, 8, 32} {
		_, err = NewTransmitter(make([]byte, capacity+BroadcastTrailerLength))
		require.ErrorIs(t, err, errs.ErrInvalidCapacity, "capacity %d", capacity)

		_, err = NewReceiver(make([]byte, capacity+BroadcastTrailerLength))
		require.ErrorIs(t, err, errs.ErrInvalidCapacity, "capacity %d", capacity)
	}

	buf := make([]byte, 1024+BroadcastTrailerLength+2)
	_, err = NewTransmitter(buf[2:])
	require.ErrorIs(t, err, errs.ErrInvalidCapacity)
}

func TestTransmitter_Transmit(t *testing.T) {
	tx, buf := newBroadcast(t, 1024)
	rx := newReceiver(t, buf)

	require.Equal(t, 1024, tx.Capacity())
	require.Equal(t, 128, tx.MaxMsgLength())

	require.NoError(t, tx.Transmit(1, []byte("one")))
	require.NoError(t, tx.Transmit(2, []byte("two")))
	require.NoError(t, tx.Transmit(3, []byte("three")))

	var got []received
	for range 3 {
		n, err := rx.Receive(collect(&got))
		require.NoError(t, err)
		require.Equal(t, 1, n)
	}

	n, err := rx.Receive(collect(&got))
	require.NoError(t, err)
	require.Zero(t, n)

	require.Equal(t, []received{
		{typeID: 1, msg: []byte("one")},
		{typeID: 2, msg: []byte("two")},
		{typeID: 3, msg: []byte("three")},
	}, got)
}

func TestTransmitter_Errors(t *testing.T) {
	tx, _ := newBroadcast(t, 1024)

	require.ErrorIs(t, tx.Transmit(0, nil), errs.ErrInvalidMessageType)
	require.ErrorIs(t, tx.Transmit(1, make([]byte, 129)), errs.ErrMessageTooLong)
}

func TestReceiver_StartsAtLatest(t *testing.T) {
	tx, buf := newBroadcast(t, 1024)

	require.NoError(t, tx.Transmit(1, []byte("old")))
	require.NoError(t, tx.Transmit(2, []byte("latest")))

	rx := newReceiver(t, buf)
	require.True(t, rx.ReceiveNext())
	require.Equal(t, int32(2), rx.TypeID())
	require.Equal(t, []byte("latest"), rx.Message())
	require.True(t, rx.Validate())
	require.False(t, rx.ReceiveNext())
}

func TestReceiver_Lapped(t *testing.T) {
	tx, buf := newBroadcast(t, 1024)
	rx := newReceiver(t, buf)
	msg := make([]byte, 120)

	for range 20 {
		require.NoError(t, tx.Transmit(1, msg))
	}

	var got []received
	_, err := rx.Receive(collect(&got))
	require.ErrorIs(t, err, errs.ErrLapped)
	require.Equal(t, int64(1), rx.LappedCount())
	require.Empty(t, got)

	require.NoError(t, tx.Transmit(5, []byte("caught up")))
	n, err := rx.Receive(collect(&got))
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, []received{{typeID: 5, msg: []byte("caught up")}}, got)
}

func TestReceiver_Wrap(t *testing.T) {
	tx, buf := newBroadcast(t, 1024)
	rx := newReceiver(t, buf)
	filler := make([]byte, 120)

	var got []received
	for range 7 {
		require.NoError(t, tx.Transmit(1, filler))
		n, err := rx.Receive(collect(&got))
		require.NoError(t, err)
		require.Equal(t, 1, n)
	}

	msg := bytes.Repeat([]byte{0xCD}, 128)
	require.NoError(t, tx.Transmit(9, msg))

	got = nil
	n, err := rx.Receive(collect(&got))
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, []received{{typeID: 9, msg: msg}}, got)
	require.Zero(t, rx.LappedCount())
}
