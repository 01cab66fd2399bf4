package cache

import "time"

// DefaultExpiryWindow is the sliding expiration used when none is configured.
const DefaultExpiryWindow = 10 * time.Minute

type options struct {
	window   time.Duration
	clock    func() time.Time
	interval time.Duration
}

// Option configures a Cache.
type Option func(*options)

// WithExpiryWindow sets the sliding expiration window. Non-positive values
// keep the default.
func WithExpiryWindow(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.window = d
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithJanitorInterval starts a background goroutine that purges expired
// entries every d. Zero disables it and expiry is applied lazily.
func WithJanitorInterval(d time.Duration) Option {
	return func(o *options) {
		o.interval = d
	}
}
