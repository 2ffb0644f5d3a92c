// Package clock abstracts the wall-clock time source so HOS math can be
// tested against fixed and advancing times. Production code uses System;
// tests inject Fixed or Fake.
package clock

import (
	"sync"
	"time"

	"github.com/brdigitals4u/ttm-eld-backend/internal/domain"
)

// Clock supplies the current instant. Implementations that proxy an external
// time source (e.g. a telemetry-synced clock) may fail; callers must fail
// fast on error rather than substituting a stale or zero time.
type Clock interface {
	Now() (time.Time, error)
}

// System reads the operating system clock. It never fails.
type System struct{}

// Now returns the current UTC time.
func (System) Now() (time.Time, error) {
	return time.Now().UTC(), nil
}

// Fixed always returns the same instant. Zero value is unusable: a zero time
// is reported as unavailable, matching the fail-fast policy.
type Fixed struct {
	T time.Time
}

// Now returns the fixed instant, or domain.ErrClockUnavailable if unset.
func (f Fixed) Now() (time.Time, error) {
	if f.T.IsZero() {
		return time.Time{}, domain.ErrClockUnavailable
	}
	return f.T, nil
}

// Fake is a mutable test clock that can be advanced manually.
// Safe for concurrent use.
type Fake struct {
	mu sync.Mutex
	t  time.Time
}

// NewFake returns a Fake clock starting at t.
func NewFake(t time.Time) *Fake {
	return &Fake{t: t}
}

// Now returns the fake's current instant.
func (f *Fake) Now() (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.t.IsZero() {
		return time.Time{}, domain.ErrClockUnavailable
	}
	return f.t, nil
}

// Advance moves the fake clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

// Set moves the fake clock to t.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = t
}
