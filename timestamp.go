package teletype

import "time"

// Timestamp is a monotonic stamp applied to a line on every mutation.
// It is a thin wrapper over time.Time so hosts
// can compare "age" of scrollback content, e.g. to expire very old
// capture buffers; the core itself never interprets the value beyond
// storing and returning it.
type Timestamp struct {
	t time.Time
}

// Now returns the current Timestamp.
func Now() Timestamp { return Timestamp{t: time.Now()} }

// IsZero reports whether the timestamp was never set.
func (ts Timestamp) IsZero() bool { return ts.t.IsZero() }

// Before reports whether ts happened before other.
func (ts Timestamp) Before(other Timestamp) bool { return ts.t.Before(other.t) }

// Time returns the underlying time.Time.
func (ts Timestamp) Time() time.Time { return ts.t }
