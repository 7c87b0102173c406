package ringbuf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/nuklei/errs"
)

type received struct {
	typeID int32
	msg    []byte
}

func collect(out *[]received) MessageHandler {
	return func(msgTypeID int32, msg []byte) {
		*out = append(*out, received{typeID: msgTypeID, msg: bytes.Clone(msg)})
	}
}

func newRing(t *testing.T, capacity int) *ManyToOne {
	t.Helper()

	r, err := NewManyToOne(make([]byte, RingLength(capacity)))
	require.NoError(t, err)

	return r
}

func TestNewManyToOne(t *testing.T) {
	t.Run("Power of two", func(t *testing.T) {
		r := newRing(t, 1024)
		require.Equal(t, 1024, r.Capacity())
		require.Equal(t, 128, r.MaxMsgLength())
	})

	t.Run("Not a power of two", func(t *testing.T) {
		_, err := NewManyToOne(make([]byte, 1000+TrailerLength))
		require.ErrorIs(t, err, errs.ErrInvalidCapacity)
	})

	t.Run("Smaller than trailer", func(t *testing.T) {
		_, err := NewManyToOne(make([]byte, TrailerLength))
		require.ErrorIs(t, err, errs.ErrInvalidCapacity)
	})

	t.Run("Below minimum", func(t *testing.T) {
		for _, capacity := range []int{1, 2, 4, 8, 32} {
			_, err := NewManyToOne(make([]byte, capacity+TrailerLength))
			require.ErrorIs(t, err, errs.ErrInvalidCapacity, "capacity %d", capacity)
		}
	})

	t.Run("Misaligned buffer", func(t *testing.T) {
		buf := make([]byte, 1024+TrailerLength+4)
		_, err := NewManyToOne(buf[4:])
		require.ErrorIs(t, err, errs.ErrInvalidCapacity)
	})
}

func TestCheckCapacity(t *testing.T) {
	tests := []struct {
		capacity int
		wantErr  bool
	}{
		{capacity: 0, wantErr: true},
		{capacity: 1, wantErr: true},
		{capacity: 2, wantErr: true},
		{capacity: 4, wantErr: true},
		{capacity: 32, wantErr: true},
		{capacity: 96, wantErr: true},
		{capacity: MinCapacity},
		{capacity: 1024},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.capacity), func(t *testing.T) {
			err := CheckCapacity(tt.capacity)
			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrInvalidCapacity)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestManyToOne_MinCapacity(t *testing.T) {
	r := newRing(t, MinCapacity)
	require.Equal(t, 8, r.MaxMsgLength())

	require.NoError(t, r.Write(1, []byte("12345678")))
	id := r.NextCorrelationID()
	require.Equal(t, id+1, r.NextCorrelationID())

	n := r.Read(func(msgTypeID int32, msg []byte) {
		require.Equal(t, int32(1), msgTypeID)
		require.Equal(t, []byte("12345678"), msg)
	}, 1)
	require.Equal(t, 1, n)
}

func TestManyToOne_WriteRead(t *testing.T) {
	r := newRing(t, 1024)

	require.NoError(t, r.Write(7, []byte("hello")))
	require.NoError(t, r.Write(8, []byte{}))
	require.Equal(t, int64(16+8), r.ProducerPosition())
	require.Equal(t, 24, r.Size())

	var got []received
	require.Equal(t, 2, r.Read(collect(&got), 10))
	require.Equal(t, []received{
		{typeID: 7, msg: []byte("hello")},
		{typeID: 8, msg: []byte{}},
	}, got)

	require.Equal(t, int64(24), r.ConsumerPosition())
	require.Zero(t, r.Size())
	require.Equal(t, make([]byte, 24), r.buf[:24], "consumed records are zeroed")
	require.Zero(t, r.Read(collect(&got), 10))
}

func TestManyToOne_WriteErrors(t *testing.T) {
	r := newRing(t, 1024)

	require.ErrorIs(t, r.Write(0, []byte("x")), errs.ErrInvalidMessageType)
	require.ErrorIs(t, r.Write(-1, []byte("x")), errs.ErrInvalidMessageType)
	require.ErrorIs(t, r.Write(1, make([]byte, 129)), errs.ErrMessageTooLong)
	require.NoError(t, r.Write(1, make([]byte, 128)))
}

func TestManyToOne_InsufficientCapacity(t *testing.T) {
	r := newRing(t, 1024)
	msg := make([]byte, 120)

	for i := range 8 {
		require.NoError(t, r.Write(1, msg), "write %d", i)
	}
	require.ErrorIs(t, r.Write(1, msg), errs.ErrInsufficientCapacity)

	var got []received
	require.Equal(t, 3, r.Read(collect(&got), 3))
	require.NoError(t, r.Write(1, msg))
}

func TestManyToOne_Wrap(t *testing.T) {
	r := newRing(t, 1024)
	filler := make([]byte, 120)

	for range 7 {
		require.NoError(t, r.Write(1, filler))
	}
	var got []received
	require.Equal(t, 7, r.Read(collect(&got), 10))

	msg := bytes.Repeat([]byte{0xAB}, 128)
	require.NoError(t, r.Write(9, msg))
	require.Equal(t, int64(896+128+136), r.ProducerPosition())

	got = nil
	require.Zero(t, r.Read(collect(&got), 10), "padding record is skipped")
	require.Equal(t, int64(1024), r.ConsumerPosition())

	require.Equal(t, 1, r.Read(collect(&got), 10))
	require.Equal(t, []received{{typeID: 9, msg: msg}}, got)
}

func TestManyToOne_NextCorrelationID(t *testing.T) {
	r := newRing(t, 1024)

	require.Equal(t, int64(0), r.NextCorrelationID())
	require.Equal(t, int64(1), r.NextCorrelationID())
	require.Equal(t, int64(2), r.NextCorrelationID())

	shared, err := NewManyToOne(r.buf)
	require.NoError(t, err)
	require.Equal(t, int64(3), shared.NextCorrelationID())
}

func TestManyToOne_ConsumerHeartbeat(t *testing.T) {
	r := newRing(t, 1024)

	require.Zero(t, r.ConsumerHeartbeatTime())
	r.SetConsumerHeartbeatTime(1_700_000_000_000)
	require.Equal(t, int64(1_700_000_000_000), r.ConsumerHeartbeatTime())
}

func TestManyToOne_ConcurrentWriters(t *testing.T) {
	const (
		producers = 4
		perWriter = 100
	)

	r := newRing(t, 64*1024)

	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			msg := make([]byte, 8)
			for seq := range perWriter {
				binary.LittleEndian.PutUint32(msg[0:], uint32(p))
				binary.LittleEndian.PutUint32(msg[4:], uint32(seq))
				if err := r.Write(int32(p+1), msg); err != nil {
					t.Errorf("producer %d write %d: %v", p, seq, err)
					return
				}
			}
		}()
	}
	wg.Wait()

	next := make([]uint32, producers)
	total := 0
	for total < producers*perWriter {
		n := r.Read(func(msgTypeID int32, msg []byte) {
			p := binary.LittleEndian.Uint32(msg[0:])
			seq := binary.LittleEndian.Uint32(msg[4:])
			require.Equal(t, int32(p+1), msgTypeID)
			require.Equal(t, next[p], seq, "per-producer order is preserved")
			next[p]++
		}, 50)
		require.Positive(t, n)
		total += n
	}

	for p := range producers {
		require.Equal(t, uint32(perWriter), next[p])
	}
}
