package fetch

import (
	"github.com/okian/allplay/pkg/logger"
)

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithConcurrency caps the number of weeks fetched at once.
func WithConcurrency(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithName sets the pool name used in logs.
func WithName(name string) Option {
	return func(p *Pool) {
		if name != "" {
			p.name = name
		}
	}
}

// WithLogger sets a custom logger for the pool.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}
