// Package repository is the curated build store: the static database of
// hand-picked builds served as the third candidate source. Entries
// reference catalog identifiers and are resolved into candidates once at
// load time.
package repository

import (
	"context"

	"github.com/okian/metaforge/internal/domain/model"
)

// Entry is one curated build as stored: catalog identifiers plus an
// optional display name.
type Entry struct {
	Skill      string   `koanf:"skill"`
	Ascendancy string   `koanf:"ascendancy"`
	Supports   []string `koanf:"supports"`
	Name       string   `koanf:"name"`
}

// Store provides read access to the curated build database.
type Store interface {
	// All returns every curated build as a fresh unscored candidate.
	// Candidates are copies; callers own them.
	All(ctx context.Context) []*model.Candidate

	// ByClass returns curated builds whose ascendancy belongs to class.
	ByClass(ctx context.Context, class string) []*model.Candidate

	// Count returns the number of curated builds.
	Count(ctx context.Context) int
}
