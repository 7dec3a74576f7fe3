package rng

import (
	"math/rand"
	"sync"
)

// Stream is a source of uniform random numbers in the open interval (0,1).
// A Stream is not safe for concurrent use unless documented otherwise.
type Stream interface {
	Generate() float64
}

// Producer hands out independent streams.
type Producer interface {
	Produce() Stream
}

type randStream struct {
	rng *rand.Rand
}

// NewStream returns a deterministic stream seeded with seed.
func NewStream(seed int64) Stream {
	return &randStream{rng: rand.New(rand.NewSource(seed))}
}

func (s *randStream) Generate() float64 {
	for {
		if v := s.rng.Float64(); v > 0 {
			return v
		}
	}
}

type seededProducer struct {
	mu   sync.Mutex
	seed int64
	next int64
}

// NewProducer returns a Producer whose k-th stream is seeded with seed+k.
func NewProducer(seed int64) Producer {
	return &seededProducer{seed: seed}
}

func (p *seededProducer) Produce() Stream {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := NewStream(p.seed + p.next)
	p.next++
	return s
}

type lockedStream struct {
	mu sync.Mutex
	s  Stream
}

// Locked serializes access to s so it may be shared between goroutines.
func Locked(s Stream) Stream {
	if _, ok := s.(*lockedStream); ok {
		return s
	}
	return &lockedStream{s: s}
}

func (l *lockedStream) Generate() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Generate()
}
