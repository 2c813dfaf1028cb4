package reconcile

import (
	"math/rand"
	"sync"
	"time"
)

// Rand supplies the GDP-estimate multiplier. It is injected rather than
// read from a process-global generator so tests can substitute a
// deterministic source.
type Rand interface {
	// IntBetween returns a uniform integer in [min, max] inclusive.
	IntBetween(min, max int) int
}

// seededRand is shared between the scheduler goroutine and concurrent HTTP
// refreshes; *rand.Rand is not safe for concurrent use, so draws are
// serialized.
type seededRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand returns a time-seeded Rand safe for concurrent use.
func NewRand() Rand {
	return &seededRand{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *seededRand) IntBetween(min, max int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return min + s.r.Intn(max-min+1)
}
