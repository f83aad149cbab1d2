package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/okian/metaforge/internal/domain/catalog"
	"github.com/okian/metaforge/internal/domain/model"
	"github.com/okian/metaforge/pkg/metrics"
)

// InMemoryStore resolves curated entries against the catalog once and
// serves copies afterwards. Read-only after construction.
type InMemoryStore struct {
	builds []*model.Candidate // resolved templates, sorted by fingerprint
	limit  int
}

// NewInMemoryStore resolves entries into candidate templates. An entry
// referencing an unknown identifier fails construction; the curated
// database must agree with the catalog it ships with.
func NewInMemoryStore(cat *catalog.Catalog, entries []Entry, opts ...Option) (*InMemoryStore, error) {
	const op = "repository.new"

	s := &InMemoryStore{}
	for _, opt := range opts {
		opt(s)
	}

	for _, e := range entries {
		c, err := resolve(cat, e)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		s.builds = append(s.builds, c)
	}

	// Fingerprint order keeps All deterministic regardless of the
	// document's entry order.
	sort.Slice(s.builds, func(i, j int) bool {
		return s.builds[i].Fingerprint() < s.builds[j].Fingerprint()
	})

	metrics.UpdateCatalogEntries("curated_builds", len(s.builds))

	return s, nil
}

// resolve materializes one entry against the catalog.
func resolve(cat *catalog.Catalog, e Entry) (*model.Candidate, error) {
	skill, err := cat.Skill(e.Skill)
	if err != nil {
		return nil, err
	}
	asc, err := cat.Ascendancy(e.Ascendancy)
	if err != nil {
		return nil, err
	}

	if n := len(e.Supports); n < model.MinSupports || n > model.MaxSupports {
		return nil, fmt.Errorf("%w: build %s/%s has %d supports", ErrInvalidEntry, e.Skill, e.Ascendancy, n)
	}

	supports := make([]*model.SupportDefinition, len(e.Supports))
	for i, id := range e.Supports {
		sup, err := cat.Support(id)
		if err != nil {
			return nil, err
		}
		supports[i] = sup
	}

	return &model.Candidate{
		Skill:      skill,
		Ascendancy: asc,
		Supports:   supports,
		Name:       e.Name,
		State:      model.StateUnscored,
	}, nil
}

// All returns every curated build as a fresh unscored candidate.
func (s *InMemoryStore) All(_ context.Context) []*model.Candidate {
	return s.copyOut(s.builds)
}

// ByClass returns curated builds whose ascendancy belongs to class.
func (s *InMemoryStore) ByClass(_ context.Context, class string) []*model.Candidate {
	var matched []*model.Candidate
	for _, b := range s.builds {
		if b.Class() == class {
			matched = append(matched, b)
		}
	}
	return s.copyOut(matched)
}

// Count returns the number of curated builds.
func (s *InMemoryStore) Count(_ context.Context) int {
	return len(s.builds)
}

// copyOut clones templates so the pipeline can mutate them freely, and
// applies the serving limit.
func (s *InMemoryStore) copyOut(builds []*model.Candidate) []*model.Candidate {
	n := len(builds)
	if s.limit > 0 && n > s.limit {
		n = s.limit
	}

	out := make([]*model.Candidate, n)
	for i := 0; i < n; i++ {
		clone := *builds[i]
		clone.Supports = make([]*model.SupportDefinition, len(builds[i].Supports))
		copy(clone.Supports, builds[i].Supports)
		out[i] = &clone
	}
	return out
}
