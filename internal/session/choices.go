package session

import (
	"math/rand"
	"sync"

	"github.com/chadananda/flashcard/internal/domain"
)

// Choices draws n distinct distractors from pool, adds correct and shuffles
// the result. Fewer than n distractors are used when the pool is short.
func Choices(correct string, pool []string, n int, rng *rand.Rand) []string {
	distractors := domain.DistinctDistractors(correct, pool)
	rng.Shuffle(len(distractors), func(i, j int) {
		distractors[i], distractors[j] = distractors[j], distractors[i]
	})
	if n >= 0 && len(distractors) > n {
		distractors = distractors[:n]
	}

	out := append(distractors, correct)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// lockedSource makes a rand.Source safe for concurrent use.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}

// NewRand returns a *rand.Rand seeded with seed that is safe for concurrent use.
func NewRand(seed int64) *rand.Rand {
	return rand.New(&lockedSource{src: rand.NewSource(seed)})
}
