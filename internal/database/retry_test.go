package database

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
)

func busyErr() error {
	return sqlite3.Error{Code: sqlite3.ErrBusy}
}

func TestDoRetriesBusyThenSucceeds(t *testing.T) {
	r := NewRetryer(5, time.Millisecond)
	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return busyErr()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	r := NewRetryer(5, time.Millisecond)
	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		return busyErr()
	})
	if !IsBusy(err) {
		t.Fatalf("expected busy error after exhaustion, got %v", err)
	}
	if calls != 5 {
		t.Fatalf("expected exactly 5 attempts, got %d", calls)
	}
}

func TestDoDoesNotRetryOtherErrors(t *testing.T) {
	r := NewRetryer(5, time.Millisecond)
	boom := errors.New("constraint failed")
	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		return boom
	})
	if err != boom {
		t.Fatalf("expected original error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestDoStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRetryer(5, 50*time.Millisecond)
	calls := 0
	err := r.Do(ctx, func() error {
		calls++
		return busyErr()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one attempt before the canceled wait, got %d", calls)
	}
}

func TestNewRetryerDefaults(t *testing.T) {
	r := NewRetryer(0, 0)
	if r.Attempts != DefaultBusyAttempts {
		t.Fatalf("expected %d attempts, got %d", DefaultBusyAttempts, r.Attempts)
	}
	if r.Delay != DefaultBusyDelay {
		t.Fatalf("expected %s delay, got %s", DefaultBusyDelay, r.Delay)
	}
}

func TestIsBusy(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"busy code", sqlite3.Error{Code: sqlite3.ErrBusy}, true},
		{"locked code", sqlite3.Error{Code: sqlite3.ErrLocked}, true},
		{"constraint code", sqlite3.Error{Code: sqlite3.ErrConstraint}, false},
		{"locked text", errors.New("database is locked"), true},
		{"other", errors.New("no such table"), false},
	}
	for _, tc := range cases {
		if got := IsBusy(tc.err); got != tc.want {
			t.Errorf("%s: IsBusy = %v, want %v", tc.name, got, tc.want)
		}
	}
}
