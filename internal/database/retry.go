package database

import (
	"context"
	"errors"
	"strings"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// Default retry bounds.  Writers here are short transactions against one
// file, so a handful of fixed-delay attempts is enough; exponential backoff
// would only add latency.
const (
	DefaultBusyAttempts = 5
	DefaultBusyDelay    = 100 * time.Millisecond
)

// Retryer re-runs a statement that fails because the store is locked by a
// concurrent writer.  Every database write in a save batch goes through it,
// since statements from one batch race both each other and other requests
// for the same file.
type Retryer struct {
	Attempts int           // total attempts, including the first
	Delay    time.Duration // fixed wait between attempts
}

// NewRetryer builds a Retryer, substituting defaults for out-of-range values.
func NewRetryer(attempts int, delay time.Duration) *Retryer {
	if attempts < 1 {
		attempts = DefaultBusyAttempts
	}
	if delay <= 0 {
		delay = DefaultBusyDelay
	}
	return &Retryer{Attempts: attempts, Delay: delay}
}

// Do executes fn up to r.Attempts times.  Only lock contention is retried;
// any other error, constraint violations included, propagates immediately.
// Exhausting every attempt returns the last busy error, so the caller always
// observes either full success or a failure — never silent loss.
func (r *Retryer) Do(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; ; attempt++ {
		err = fn()
		if err == nil || !IsBusy(err) || attempt >= r.Attempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.Delay):
		}
	}
}

// IsBusy reports whether err is SQLite's transient lock-contention signal
// (SQLITE_BUSY or SQLITE_LOCKED).  The text fallback covers errors that
// reach us wrapped by layers that drop the driver type.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "database is locked") || strings.Contains(s, "table is locked")
}
