// Package service contains the business logic for the ELD backend: the duty
// status state machine, the certification workflow, and the HOS read model.
// Services validate inputs, enforce compliance rules, and orchestrate repo
// calls. No SQL lives here — services depend on repo interfaces, not
// implementations.
package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DriverLocks serializes mutating operations per driver. Each driver has
// exactly one writer (their own device), but status changes and certification
// may race within one process; a per-driver mutex keeps the no-overlap and
// atomic-certification invariants without any distributed locking.
//
// Share one DriverLocks instance between every service that mutates a
// driver's log.
type DriverLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewDriverLocks returns an empty lock registry.
func NewDriverLocks() *DriverLocks {
	return &DriverLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// Lock acquires the driver's mutex and returns the unlock function.
// Entries are never removed; the set of active drivers per process is small.
func (l *DriverLocks) Lock(driverID uuid.UUID) func() {
	l.mu.Lock()
	m, ok := l.locks[driverID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[driverID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// dayBounds returns the calendar day containing t in loc: midnight at the
// start of the day, and the [start, end) instants bounding it.
func dayBounds(t time.Time, loc *time.Location) (date, start, end time.Time) {
	lt := t.In(loc)
	date = time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
	return date, date, date.AddDate(0, 0, 1)
}
