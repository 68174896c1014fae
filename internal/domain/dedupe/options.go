// Package dedupe tracks record keys to detect duplicate countable entries.
package dedupe

// Option applies a configuration option to the Tracker.
type Option func(*Tracker)

// WithExpectedSize pre-sizes the key set.
func WithExpectedSize(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.expected = n
		}
	}
}
