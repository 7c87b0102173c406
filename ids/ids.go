// Package ids generates the random identifiers used on nukleus channels.
//
// Every generated id keeps the two most significant bits clear, so it is
// non-negative. Stream ids encode their direction in the low bit: initial
// streams are odd, reply streams are even and never zero.
package ids

import (
	"math/rand/v2"
	"sync"

	"github.com/arloliu/nuklei/endian"
)

const (
	idMask            int64 = 0x3fff_ffff_ffff_ffff
	replyStreamIDMask int64 = 0x3fff_ffff_ffff_fffe
)

// Generator produces identifiers from a random source. It is safe for
// concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a generator over src. A nil src uses a randomly seeded PCG.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}

	return &Generator{rng: rand.New(src)}
}

func (g *Generator) next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	return int64(g.rng.Uint64())
}

// ReferenceID returns a non-negative id with the top two bits clear.
func (g *Generator) ReferenceID() int64 {
	return g.next() & idMask
}

// InitialStreamID returns an odd, non-negative stream id.
func (g *Generator) InitialStreamID() int64 {
	return g.next()&idMask | 1
}

// ReplyStreamID returns an even, positive stream id.
func (g *Generator) ReplyStreamID() int64 {
	for {
		if id := g.next() & replyStreamIDMask; id != 0 {
			return id
		}
	}
}

// CorrelationID returns an unconstrained 64-bit id.
func (g *Generator) CorrelationID() int64 {
	return g.next()
}

var defaultGenerator = NewGenerator(nil)

// NewReferenceID returns a reference id from the default generator.
func NewReferenceID() int64 {
	return defaultGenerator.ReferenceID()
}

// NewInitialStreamID returns an initial stream id from the default generator.
func NewInitialStreamID() int64 {
	return defaultGenerator.InitialStreamID()
}

// NewReplyStreamID returns a reply stream id from the default generator.
func NewReplyStreamID() int64 {
	return defaultGenerator.ReplyStreamID()
}

// NewCorrelationID returns a correlation id from the default generator.
func NewCorrelationID() int64 {
	return defaultGenerator.CorrelationID()
}

// Bytes renders id as 8 bytes in host-native byte order, the order in which
// ids appear inside ring buffer records.
func Bytes(id int64) []byte {
	return endian.GetNativeEngine().AppendUint64(make([]byte, 0, 8), uint64(id))
}
