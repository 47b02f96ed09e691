package repository

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithScanLimit caps the number of entities a single QueryPool call may
// return when the filter does not set its own limit.
func WithScanLimit(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.scanLimit = n
		}
	}
}
