package api

import "github.com/vrodas/ropero/internal/domain/compat"

// Default query bounds.
const (
	defaultMaxRankLimit = 100
)

type serverConfig struct {
	maxRankLimit  int
	highThreshold int
	topPairsLimit int
}

// Option applies a configuration option to the Server.
type Option func(*serverConfig)

func newServerConfig(opts ...Option) serverConfig {
	cfg := serverConfig{
		maxRankLimit:  defaultMaxRankLimit,
		highThreshold: compat.DefaultHighThreshold,
		topPairsLimit: compat.DefaultTopLimit,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithMaxRankLimit caps the limit accepted by GET /versatility.
func WithMaxRankLimit(limit int) Option {
	return func(c *serverConfig) {
		if limit > 0 {
			c.maxRankLimit = limit
		}
	}
}

// WithHighThreshold sets the default score bound for highly compatible
// pair counts and top-pair listings.
func WithHighThreshold(threshold int) Option {
	return func(c *serverConfig) {
		if threshold >= 0 && threshold <= 100 {
			c.highThreshold = threshold
		}
	}
}

// WithTopPairsLimit sets the default limit for top-pair listings.
func WithTopPairsLimit(limit int) Option {
	return func(c *serverConfig) {
		if limit > 0 {
			c.topPairsLimit = limit
		}
	}
}
