package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExemptionFlag marks a Part 395 exemption granted to a driver (short-haul,
// adverse conditions, agricultural, ...). The calculator currently treats
// exemptions as opaque; they are carried so the identity provider's full
// answer is available to callers.
type ExemptionFlag string

// DriverSettings is the per-driver configuration the HOS calculator depends
// on: the cycle budget, the home-terminal time zone that pins calendar-day
// boundaries, and the split-sleeper toggle.
type DriverSettings struct {
	DriverID       uuid.UUID          `json:"driver_id"`
	CycleType      CycleType          `json:"cycle_type"`
	HomeTerminalTZ string             `json:"home_terminal_tz"`
	SplitSleeper   SplitSleeperConfig `json:"split_sleeper"`
	Exemptions     []ExemptionFlag    `json:"exemptions,omitempty"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// Location returns the settings' home-terminal *time.Location, falling back
// to UTC if the stored zone name does not resolve. Day boundaries must never
// be inferred from device locale, so the fallback is deliberate and loud in
// the zone name rather than silent local time.
func (s DriverSettings) Location() *time.Location {
	loc, err := time.LoadLocation(s.HomeTerminalTZ)
	if err != nil {
		return time.UTC
	}
	return loc
}
