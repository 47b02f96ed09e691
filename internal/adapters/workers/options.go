package workers

import "github.com/talentdb/matchd/pkg/logger"

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithWorkerCount sets the number of scoring goroutines.
func WithWorkerCount(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.count = n
		}
	}
}

// WithLogger sets the pool logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}
