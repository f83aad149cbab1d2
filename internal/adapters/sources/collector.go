package sources

import (
	"context"
	"sort"
	"sync"

	"github.com/okian/metaforge/internal/domain/model"
)

// seqCollector gathers accepted candidates from concurrent workers and
// restores generation order afterwards, so parallel completion order
// never leaks into the output.
type seqCollector struct {
	mu       sync.Mutex
	accepted []*model.Candidate
}

func newSeqCollector() *seqCollector {
	return &seqCollector{}
}

// Collect receives one accepted candidate. Safe for concurrent use.
func (sc *seqCollector) Collect(_ context.Context, c *model.Candidate) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.accepted = append(sc.accepted, c)
}

// sorted returns the collected candidates in generation-sequence order.
func (sc *seqCollector) sorted() []*model.Candidate {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	out := make([]*model.Candidate, len(sc.accepted))
	copy(out, sc.accepted)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Seq < out[j].Seq
	})
	return out
}
