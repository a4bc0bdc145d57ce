package store

import (
	"time"

	"github.com/rs/zerolog"
)

// Option customises a Store at construction time.
type Option func(*Store)

// WithIDGenerator replaces the unique-id source. The default generates
// random UUIDs.
func WithIDGenerator(generate func() string) Option {
	return func(s *Store) {
		if generate != nil {
			s.newID = generate
		}
	}
}

// WithClock replaces the wall-clock source used to stamp form timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger attaches a logger for operation diagnostics. The default
// discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}
