package hos

import (
	"fmt"

	"github.com/brdigitals4u/ttm-eld-backend/internal/domain"
)

// Warning thresholds, in remaining minutes. A clock below its threshold but
// above zero produces a warning; at or below zero while the driver is still
// driving it is an active violation.
const (
	warnDriveMinutes = 60
	warnShiftMinutes = 60
	warnCycleMinutes = 60
	warnBreakMinutes = 30
)

// DetectViolations classifies a clock state into active violations and
// imminent-violation warnings. Output order is fixed: drive, shift, cycle,
// break. Violations are reported only — resolution requires a qualifying
// rest event that brings the clock back above zero on recomputation.
func DetectViolations(state domain.HOSClockState) []domain.Violation {
	checks := []struct {
		clock     string
		remaining int
		warnAt    int
		label     string
	}{
		{domain.ClockDrive, state.DriveTimeRemainingMinutes, warnDriveMinutes, "11-hour driving limit"},
		{domain.ClockShift, state.ShiftTimeRemainingMinutes, warnShiftMinutes, "14-hour on-duty window"},
		{domain.ClockCycle, state.CycleTimeRemainingMinutes, warnCycleMinutes, cycleLabel(state.CycleType)},
		{domain.ClockBreak, state.BreakTimeRemainingMinutes, warnBreakMinutes, "30-minute break rule"},
	}

	var out []domain.Violation
	for _, c := range checks {
		switch {
		case c.remaining <= 0 && state.CurrentStatus == domain.StatusDriving:
			out = append(out, domain.Violation{
				Clock:            c.clock,
				Kind:             domain.ViolationActive,
				Message:          fmt.Sprintf("%s exceeded while driving", c.label),
				RemainingMinutes: c.remaining,
			})
		case c.remaining <= 0:
			out = append(out, domain.Violation{
				Clock:            c.clock,
				Kind:             domain.ViolationWarning,
				Message:          fmt.Sprintf("%s reached", c.label),
				RemainingMinutes: c.remaining,
			})
		case c.remaining < c.warnAt:
			out = append(out, domain.Violation{
				Clock:            c.clock,
				Kind:             domain.ViolationWarning,
				Message:          fmt.Sprintf("%s: %d minutes remaining", c.label, c.remaining),
				RemainingMinutes: c.remaining,
			})
		}
	}
	return out
}

func cycleLabel(c domain.CycleType) string {
	if c == domain.Cycle60Hour7Day {
		return "60-hour cycle"
	}
	return "70-hour cycle"
}
