package domain

import (
	"time"

	"github.com/google/uuid"
)

// Location is an optional position attached to a status change. Either the
// address or the coordinates may be absent, but a Location present on an
// event always carries at least one of them.
type Location struct {
	Address string   `json:"address,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

// StatusChangeEvent is one entry in a driver's append-only event log.
// Events for a driver are totally ordered by StartTime and never overlap:
// the EndTime of an event equals the StartTime of the next, and exactly one
// event per driver is open (EndTime == nil) at any time.
//
// Once Certified is true the event is immutable.
type StatusChangeEvent struct {
	ID        uuid.UUID  `json:"id"`
	DriverID  uuid.UUID  `json:"driver_id"`
	Status    DutyStatus `json:"status"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"` // nil while the event is the driver's current status
	Reason    string     `json:"reason,omitempty"`
	Location  *Location  `json:"location,omitempty"`
	Certified bool       `json:"certified"`
	CreatedAt time.Time  `json:"created_at"`
}

// DurationUntil returns the event's duration in whole minutes as of now,
// using the closed-open interval [StartTime, EndTime). An open event counts
// up to now. Returns 0 for events that start at or after now.
func (e StatusChangeEvent) DurationUntil(now time.Time) int {
	end := now
	if e.EndTime != nil && e.EndTime.Before(now) {
		end = *e.EndTime
	}
	if !e.StartTime.Before(end) {
		return 0
	}
	return int(end.Sub(e.StartTime) / time.Minute)
}
