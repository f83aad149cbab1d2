package generate

import "github.com/okian/metaforge/internal/domain/dedupe"

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithTracker sets the draw-fingerprint tracker shared across one
// generation run.
func WithTracker(t dedupe.Tracker) Option {
	return func(g *Generator) {
		g.tracker = t
	}
}

// WithUniformSelection switches support selection from the ranked
// "smart" variant to uniform random sampling.
func WithUniformSelection() Option {
	return func(g *Generator) {
		g.smart = false
	}
}
