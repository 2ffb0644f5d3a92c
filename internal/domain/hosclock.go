package domain

// CycleType selects which rolling on-duty budget applies to a driver:
// 60 hours over 7 days or 70 hours over 8 days.
type CycleType string

const (
	Cycle60Hour7Day CycleType = "60_7"
	Cycle70Hour8Day CycleType = "70_8"
)

// Valid reports whether c is a known cycle type.
func (c CycleType) Valid() bool {
	return c == Cycle60Hour7Day || c == Cycle70Hour8Day
}

// LimitMinutes returns the cycle's on-duty budget in minutes.
func (c CycleType) LimitMinutes() int {
	if c == Cycle60Hour7Day {
		return 60 * 60
	}
	return 70 * 60
}

// WindowDays returns the number of trailing calendar days the cycle spans.
func (c CycleType) WindowDays() int {
	if c == Cycle60Hour7Day {
		return 7
	}
	return 8
}

// SplitSleeperConfig is a per-driver toggle that changes how qualifying
// sleeper-berth/off-duty pairs fold into the 14-hour window and how much
// drive time the split credits back.
type SplitSleeperConfig struct {
	Enabled         bool `json:"enabled"`
	AdditionalHours int  `json:"additional_hours"`
}

// Names of the four HOS clocks, used in CannotDriveReasons and violations.
const (
	ClockDrive = "drive"
	ClockShift = "shift"
	ClockCycle = "cycle"
	ClockBreak = "break"
)

// HOSClockState is the derived read model for a driver's remaining hours.
// It is recomputed from the event log on every read and never persisted;
// the event log is the single source of truth.
type HOSClockState struct {
	DriveTimeRemainingMinutes int        `json:"drive_time_remaining_minutes"`
	ShiftTimeRemainingMinutes int        `json:"shift_time_remaining_minutes"`
	CycleTimeRemainingMinutes int        `json:"cycle_time_remaining_minutes"`
	BreakTimeRemainingMinutes int        `json:"break_time_remaining_minutes"`
	CycleType                 CycleType  `json:"cycle_type"`
	CurrentStatus             DutyStatus `json:"current_status"`
	CanDrive                  bool       `json:"can_drive"`
	CannotDriveReasons        []string   `json:"cannot_drive_reasons"`
}

// ViolationKind distinguishes an active breach from an approaching one.
type ViolationKind string

const (
	ViolationActive  ViolationKind = "violation"
	ViolationWarning ViolationKind = "warning"
)

// Violation is one active violation or imminent-violation warning derived
// from an HOSClockState. Violations are reported, never auto-resolved;
// resolution happens when a qualifying rest period brings the clock back
// above zero on recomputation.
type Violation struct {
	Clock            string        `json:"clock"`
	Kind             ViolationKind `json:"kind"`
	Message          string        `json:"message"`
	RemainingMinutes int           `json:"remaining_minutes"`
}
