package generator

import (
	"math/rand"
	"sync"
	"time"
)

// Source is the randomness a Synthesizer draws from. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// LockedSource is a Source safe for concurrent use by many requests
type LockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewLockedSource seeds a shared source. A zero seed uses the current time.
func NewLockedSource(seed int64) *LockedSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &LockedSource{r: rand.New(rand.NewSource(seed))}
}

func (s *LockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(n)
}

func (s *LockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// sourceReader exposes a Source as an io.Reader so UUIDs follow the seed
type sourceReader struct {
	src Source
}

func (r sourceReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.src.Intn(256))
	}
	return len(p), nil
}
