package seededrand

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"time"
)

// entropy is the source of seeds for unseeded sources.
var entropy io.Reader = crand.Reader

// Source generates pseudo-random bytes.
// A Source must not be shared between requests.
type Source struct {
	r      *rand.Rand
	seeded bool
}

// New returns a reproducible source: equal seeds yield equal byte sequences.
func New(seed int64) *Source {
	return &Source{r: rand.New(rand.NewSource(seed)), seeded: true}
}

// NewUnseeded returns a source seeded from the system entropy pool,
// or from the clock if the pool cannot be read.
func NewUnseeded() *Source {
	return &Source{r: rand.New(rand.NewSource(entropySeed()))}
}

func entropySeed() int64 {
	var seed int64
	if err := binary.Read(entropy, binary.LittleEndian, &seed); err != nil {
		return time.Now().UnixNano()
	}
	return seed
}

// FromParam returns a seeded source for a non-empty seed parameter,
// or an unseeded one if the parameter is empty.
func FromParam(seed string) (*Source, error) {
	if seed == "" {
		return NewUnseeded(), nil
	}
	n, err := strconv.ParseInt(seed, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid seed %q", seed)
	}
	return New(n), nil
}

// Seeded reports whether the source reproduces its output.
func (s *Source) Seeded() bool {
	return s.seeded
}

// Fill fills p with the next len(p) bytes of the sequence.
// Every byte is drawn separately so the sequence does not depend on how it is chunked.
func (s *Source) Fill(p []byte) {
	for i := range p {
		p[i] = byte(s.r.Intn(256))
	}
}

// Bytes returns the next n bytes of the sequence.
func (s *Source) Bytes(n int) []byte {
	b := make([]byte, n)
	s.Fill(b)
	return b
}
