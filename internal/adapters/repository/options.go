// Package repository defines the closet store interface and errors.
package repository

// Default store configuration constants.
const (
	defaultCompactionSlack = 64
)

// Option applies a configuration option to the ClosetStore.
type Option func(*ClosetStore)

// WithCompactionSlack sets how many stale insertion-order slots may
// accumulate beyond twice the live closet size before removals trigger a
// compaction pass.
func WithCompactionSlack(slack int) Option {
	return func(s *ClosetStore) {
		if slack >= 0 {
			s.compactionSlack = slack
		}
	}
}
