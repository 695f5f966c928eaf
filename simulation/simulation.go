// Package simulation provides probability-based stand-ins for the external
// systems the workflow talks to: the inventory store, the payment gateway,
// and the notification carrier. Each simulator implements the matching
// provider interface from the activities package; a real integration would
// implement the same interface.
//
// All randomness flows through an injected Rand and all time through an
// injected clock, so tests can force any path deterministically.
package simulation

import (
	"context"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"
)

// Rand is the subset of math/rand the simulators draw from.
// Implementations must be safe for the caller's concurrency needs;
// NewLockedRand returns one safe for concurrent activities.
type Rand interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
	// Intn returns a value in [0, n).
	Intn(n int) int
	// Int63n returns a value in [0, n).
	Int63n(n int64) int64
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewLockedRand returns a seeded Rand safe for concurrent use.
func NewLockedRand(seed int64) Rand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *lockedRand) Int63n(n int64) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Int63n(n)
}

// simulateLatency blocks for a random duration in [min, max], honoring
// context cancellation. A non-positive range is a no-op so tests can zero
// the delays out.
func simulateLatency(ctx context.Context, r Rand, min, max time.Duration) error {
	if max <= 0 {
		return nil
	}
	d := min
	if span := max - min; span > 0 {
		d += time.Duration(r.Int63n(int64(span) + 1))
	}
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// stockWindow is how long a product's simulated stock level stays stable
// before it refreshes.
const stockWindow = 5 * time.Minute

// StockLevelFunc derives the available stock for a product at a point in
// time. The default is DerivedStockLevel; tests pin it to a fixed value.
type StockLevelFunc func(productID string, now time.Time) int

// DerivedStockLevel computes a stock level seeded from the product ID and a
// 5-minute time bucket, so repeated lookups within the same window agree
// while stock refreshes across windows. Levels fall into three tiers:
// 10% low (0-5), 20% medium (6-20), 70% high (21-100).
func DerivedStockLevel(productID string, now time.Time) int {
	h := fnv.New64a()
	h.Write([]byte(productID))
	bucket := now.Unix() / int64(stockWindow/time.Second)

	r := rand.New(rand.NewSource(int64(h.Sum64()) + bucket))
	switch tier := r.Float64(); {
	case tier < 0.10:
		return r.Intn(6)
	case tier < 0.30:
		return 6 + r.Intn(15)
	default:
		return 21 + r.Intn(80)
	}
}
