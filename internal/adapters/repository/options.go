package repository

// Option applies a configuration option to the InMemoryStore.
type Option func(*InMemoryStore)

// WithServingLimit caps how many curated builds are served per query.
// Zero means unlimited.
func WithServingLimit(n int) Option {
	return func(s *InMemoryStore) {
		if n > 0 {
			s.limit = n
		}
	}
}
