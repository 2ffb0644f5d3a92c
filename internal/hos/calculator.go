// Package hos implements the FMCSA Part 395 hours-of-service limit math for
// property-carrying drivers: the 11-hour driving limit, the 14-hour on-duty
// window, the 60/70-hour cycle, the 30-minute break rule, the 34-hour
// restart, and the split-sleeper-berth provision.
//
// Everything in this package is a pure function over an ordered event log and
// an explicit "now". There is no I/O, no clock, and no error path: the
// calculator is total over any well-formed log. Malformed logs (overlapping
// events) are prevented by construction in the repo layer, not handled here.
//
// All arithmetic is in whole minutes on closed-open intervals [start, end);
// an open event contributes duration up to now. An instant exactly at a limit
// boundary counts as the limit being reached (remaining 0, never negative).
package hos

import (
	"time"

	"github.com/brdigitals4u/ttm-eld-backend/internal/domain"
)

// Part 395 limits, in minutes.
const (
	driveLimitMinutes = 11 * 60 // §395.3(a)(3): max driving per shift
	shiftLimitMinutes = 14 * 60 // §395.3(a)(2): on-duty window after coming on duty
	breakDriveLimit   = 8 * 60  // §395.3(a)(3)(ii): max driving since last break
	breakMinimum      = 30      // minimum qualifying break
	restMinimum       = 10 * 60 // off-duty period that resets the shift window
	restartMinimum    = 34 * 60 // consecutive off-duty that zeroes the cycle
)

// Config carries the per-driver inputs that change how the calculator folds
// the event log into clock state.
type Config struct {
	CycleType    domain.CycleType
	SplitSleeper domain.SplitSleeperConfig

	// HomeTerminalTZ pins calendar-day boundaries for the cycle window.
	// Nil means UTC.
	HomeTerminalTZ *time.Location

	// CertifiedLockout is set by the caller when the driver's current open
	// day is certified, which blocks driving via new status changes.
	CertifiedLockout bool
}

// interval is one event clipped to [start, min(end, now)).
type interval struct {
	status domain.DutyStatus
	start  time.Time
	end    time.Time
}

func (iv interval) minutes() int {
	return int(iv.end.Sub(iv.start) / time.Minute)
}

// ComputeClockState replays events into the four remaining-time clocks as of
// now. Events must be the driver's log in StartTime order with no overlaps;
// at most one may be open (nil EndTime).
func ComputeClockState(events []domain.StatusChangeEvent, cfg Config, now time.Time) domain.HOSClockState {
	if !cfg.CycleType.Valid() {
		cfg.CycleType = domain.Cycle70Hour8Day
	}
	loc := cfg.HomeTerminalTZ
	if loc == nil {
		loc = time.UTC
	}

	ivs := clipToNow(events, now)
	rests := mergeRuns(ivs, domain.DutyStatus.IsRest)

	state := domain.HOSClockState{
		DriveTimeRemainingMinutes: driveLimitMinutes,
		ShiftTimeRemainingMinutes: shiftLimitMinutes,
		CycleTimeRemainingMinutes: cfg.CycleType.LimitMinutes(),
		BreakTimeRemainingMinutes: breakDriveLimit,
		CycleType:                 cfg.CycleType,
		CurrentStatus:             currentStatus(events),
	}

	// --- 14-hour shift window and 11-hour drive clock ---------------------
	if windowStart, ok := shiftWindowStart(ivs, rests); ok {
		pause, credit := splitAdjustment(rests, windowStart, cfg.SplitSleeper)

		elapsed := int(now.Sub(windowStart)/time.Minute) - pause
		state.ShiftTimeRemainingMinutes = clamp(shiftLimitMinutes - elapsed)

		driven := statusMinutes(ivs, domain.DutyStatus.IsDriving, windowStart)
		state.DriveTimeRemainingMinutes = clamp(driveLimitMinutes + credit - driven)
	}

	// --- 60/70-hour cycle --------------------------------------------------
	cycleFrom := midnight(now, loc).AddDate(0, 0, -(cfg.CycleType.WindowDays() - 1))
	for _, r := range rests {
		// A 34-hour restart zeroes accumulated cycle usage.
		if r.minutes() >= restartMinimum && r.end.After(cycleFrom) {
			cycleFrom = r.end
		}
	}
	onDuty := statusMinutes(ivs, domain.DutyStatus.CountsAsOnDuty, cycleFrom)
	state.CycleTimeRemainingMinutes = clamp(cfg.CycleType.LimitMinutes() - onDuty)

	// --- 30-minute break rule ----------------------------------------------
	breakFrom := time.Time{}
	nonDriving := mergeRuns(ivs, func(s domain.DutyStatus) bool { return !s.IsDriving() })
	for _, b := range nonDriving {
		if b.minutes() >= breakMinimum {
			breakFrom = b.end
		}
	}
	drivenSinceBreak := statusMinutes(ivs, domain.DutyStatus.IsDriving, breakFrom)
	state.BreakTimeRemainingMinutes = clamp(breakDriveLimit - drivenSinceBreak)

	// --- Verdict ------------------------------------------------------------
	if state.DriveTimeRemainingMinutes <= 0 {
		state.CannotDriveReasons = append(state.CannotDriveReasons, "11-hour driving limit reached")
	}
	if state.ShiftTimeRemainingMinutes <= 0 {
		state.CannotDriveReasons = append(state.CannotDriveReasons, "14-hour on-duty window elapsed")
	}
	if state.CycleTimeRemainingMinutes <= 0 {
		state.CannotDriveReasons = append(state.CannotDriveReasons, cycleReason(cfg.CycleType))
	}
	if state.BreakTimeRemainingMinutes <= 0 {
		state.CannotDriveReasons = append(state.CannotDriveReasons, "30-minute break required")
	}
	if cfg.CertifiedLockout {
		state.CannotDriveReasons = append(state.CannotDriveReasons, "logs are certified; uncertify to make changes")
	}
	state.CanDrive = len(state.CannotDriveReasons) == 0

	return state
}

func cycleReason(c domain.CycleType) string {
	if c == domain.Cycle60Hour7Day {
		return "60-hour/7-day cycle limit reached"
	}
	return "70-hour/8-day cycle limit reached"
}

// currentStatus returns the status of the driver's open event, falling back
// to the most recent event, or OffDuty for an empty log (onboarding default).
func currentStatus(events []domain.StatusChangeEvent) domain.DutyStatus {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].EndTime == nil {
			return events[i].Status
		}
	}
	if len(events) > 0 {
		return events[len(events)-1].Status
	}
	return domain.StatusOffDuty
}

// clipToNow converts events into intervals ending no later than now,
// dropping anything that starts at or after now.
func clipToNow(events []domain.StatusChangeEvent, now time.Time) []interval {
	ivs := make([]interval, 0, len(events))
	for _, e := range events {
		if !e.StartTime.Before(now) {
			continue
		}
		end := now
		if e.EndTime != nil && e.EndTime.Before(now) {
			end = *e.EndTime
		}
		if e.StartTime.Before(end) {
			ivs = append(ivs, interval{status: e.Status, start: e.StartTime, end: end})
		}
	}
	return ivs
}

// mergeRuns collapses maximal runs of time-contiguous intervals whose status
// satisfies pred. Because events never overlap and each event's end equals
// the next event's start, contiguity is exact time equality.
func mergeRuns(ivs []interval, pred func(domain.DutyStatus) bool) []interval {
	var runs []interval
	open := false
	for _, iv := range ivs {
		if !pred(iv.status) {
			open = false
			continue
		}
		if open && runs[len(runs)-1].end.Equal(iv.start) {
			runs[len(runs)-1].end = iv.end
			continue
		}
		runs = append(runs, iv)
		open = true
	}
	return runs
}

// shiftWindowStart locates the start of the current 14-hour window: the first
// on-duty interval following the most recent qualifying (>=10h consecutive)
// rest period. Returns false when no window has started, i.e. the driver has
// not come on duty since their last qualifying rest (or ever).
func shiftWindowStart(ivs, rests []interval) (time.Time, bool) {
	var anchor time.Time
	for _, r := range rests {
		if r.minutes() >= restMinimum {
			anchor = r.end
		}
	}
	for _, iv := range ivs {
		if iv.status.CountsAsOnDuty() && !iv.start.Before(anchor) {
			return iv.start, true
		}
	}
	return time.Time{}, false
}

// statusMinutes sums whole minutes of intervals matching pred, clipped to
// start no earlier than from.
func statusMinutes(ivs []interval, pred func(domain.DutyStatus) bool, from time.Time) int {
	total := 0
	for _, iv := range ivs {
		if !pred(iv.status) {
			continue
		}
		s := iv.start
		if s.Before(from) {
			s = from
		}
		if s.Before(iv.end) {
			total += int(iv.end.Sub(s) / time.Minute)
		}
	}
	return total
}

// midnight returns the start of t's calendar day in loc.
func midnight(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

func clamp(minutes int) int {
	if minutes < 0 {
		return 0
	}
	return minutes
}
