// Package dedupe tracks build fingerprints already drawn within one
// generation run, so a bounded retry loop never emits the same candidate
// twice. Sources other than the generator do NOT dedupe against each
// other; cross-source duplicates are an intentional ranking signal.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Default tracker configuration constants.
const (
	defaultMaxSize = 10_000
)

// Tracker records seen build fingerprints.
type Tracker interface {
	// SeenAndRecord atomically checks if fingerprint was seen and records
	// it if not. Returns true if it was already seen.
	SeenAndRecord(ctx context.Context, fingerprint string) bool

	// Size returns the current number of recorded fingerprints.
	Size() int64
}

// inMemoryTracker implements Tracker with a map plus an insertion-order
// ring for FIFO eviction in bounded mode.
type inMemoryTracker struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string // insertion order, used only when bounded
	head    int      // next eviction position in order
	maxSize int
	size    atomic.Int64
}

// NewInMemoryTracker creates a new in-memory tracker.
func NewInMemoryTracker(opts ...Option) Tracker {
	t := &inMemoryTracker{
		maxSize: defaultMaxSize,
	}

	for _, opt := range opts {
		opt(t)
	}

	t.seen = make(map[string]struct{})
	return t
}

// SeenAndRecord atomically checks and records a fingerprint.
func (t *inMemoryTracker) SeenAndRecord(_ context.Context, fingerprint string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.seen[fingerprint]; exists {
		return true
	}

	if t.maxSize > 0 && len(t.seen) >= t.maxSize {
		t.evictOldest()
	}

	t.seen[fingerprint] = struct{}{}
	if t.maxSize > 0 {
		t.order = append(t.order, fingerprint)
	}
	t.size.Add(1)
	return false
}

// evictOldest removes the oldest recorded fingerprint. Caller holds mu.
func (t *inMemoryTracker) evictOldest() {
	for t.head < len(t.order) {
		fp := t.order[t.head]
		t.head++
		if _, ok := t.seen[fp]; ok {
			delete(t.seen, fp)
			t.size.Add(-1)
			return
		}
	}
	// Compact the ring once fully consumed.
	t.order = t.order[:0]
	t.head = 0
}

// Size returns the current number of recorded fingerprints.
func (t *inMemoryTracker) Size() int64 {
	return t.size.Load()
}
