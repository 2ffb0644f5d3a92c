// Package domain contains the core data types for the ELD backend.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (hos, repo, service, handler).
package domain

// DutyStatus is one of the six FMCSA duty statuses a driver can be in.
// Exactly one status is current per driver at any instant.
type DutyStatus string

const (
	StatusDriving            DutyStatus = "driving"
	StatusOnDuty             DutyStatus = "on_duty"
	StatusOffDuty            DutyStatus = "off_duty"
	StatusSleeperBerth       DutyStatus = "sleeper_berth"
	StatusPersonalConveyance DutyStatus = "personal_conveyance"
	StatusYardMoves          DutyStatus = "yard_moves"
)

// Valid reports whether s is one of the six known duty statuses.
func (s DutyStatus) Valid() bool {
	switch s {
	case StatusDriving, StatusOnDuty, StatusOffDuty,
		StatusSleeperBerth, StatusPersonalConveyance, StatusYardMoves:
		return true
	}
	return false
}

// IsDriving reports whether time in this status consumes the 11-hour drive
// clock. Personal conveyance and yard moves do not, even though the vehicle
// is in motion.
func (s DutyStatus) IsDriving() bool {
	return s == StatusDriving
}

// CountsAsOnDuty reports whether time in this status accumulates against the
// 60/70-hour cycle. Yard moves are recorded as on-duty-not-driving under
// Part 395, so they count here.
func (s DutyStatus) CountsAsOnDuty() bool {
	switch s {
	case StatusDriving, StatusOnDuty, StatusYardMoves:
		return true
	}
	return false
}

// IsRest reports whether time in this status can qualify toward the 10-hour
// reset, the 34-hour restart, and split-sleeper pairing.
func (s DutyStatus) IsRest() bool {
	switch s {
	case StatusOffDuty, StatusSleeperBerth, StatusPersonalConveyance:
		return true
	}
	return false
}
