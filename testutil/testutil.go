package testutil

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Word returns a random lowercase word with length in [minLen, maxLen].
func (r *RNG) Word(minLen, maxLen int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.wordLocked(minLen, maxLen)
}

// wordLocked is the internal implementation (caller must hold lock).
func (r *RNG) wordLocked(minLen, maxLen int) string {
	n := minLen
	if maxLen > minLen {
		n += r.rand.Intn(maxLen - minLen + 1)
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('a' + r.rand.Intn(26))
	}
	return string(b)
}

// Vocabulary returns n distinct random words with lengths in
// [minLen, maxLen]. Short length ranges are handled by suffixing
// collisions, so the result always has exactly n entries.
func (r *RNG) Vocabulary(n, minLen, maxLen int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, n)
	words := make([]string, 0, n)
	for len(words) < n {
		w := r.wordLocked(minLen, maxLen)
		if _, dup := seen[w]; dup {
			w = fmt.Sprintf("%s%d", w, len(words))
			if _, dup := seen[w]; dup {
				continue
			}
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	return words
}

// Column returns a column of rows values drawn from vocab with a Zipfian
// distribution: a few heavy hitters dominate, like real categorical
// columns. s controls the skew (s=0 is uniform, s=1.5 is heavily skewed).
func (r *RNG) Column(rows int, vocab []string, s float64) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Precompute the cumulative distribution once; sampling is then a
	// binary search per row.
	cdf := make([]float64, len(vocab))
	var total float64
	for i := range vocab {
		total += 1.0 / math.Pow(float64(i+1), s)
		cdf[i] = total
	}

	col := make([]string, rows)
	for i := range col {
		u := r.rand.Float64() * total
		col[i] = vocab[sort.SearchFloat64s(cdf, u)]
	}
	return col
}

// Zipf returns a pseudo-random 0-indexed rank in [0, n) with Zipfian
// distribution of exponent s.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	// Compute normalization constant (harmonic number with exponent s)
	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	// Sample from uniform and use inverse transform
	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1 // 0-indexed
		}
	}

	return n - 1
}
