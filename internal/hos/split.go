package hos

import (
	"time"

	"github.com/brdigitals4u/ttm-eld-backend/internal/domain"
)

// Split-sleeper qualifying thresholds, in minutes. A pair is one rest period
// of at least 7 hours and one of at least 2 hours, together at least 10
// hours, both taken inside the current 14-hour window.
const (
	splitLongMinimum  = 7 * 60
	splitShortMinimum = 2 * 60
	splitPairMinimum  = 10 * 60
)

// splitAdjustment finds the first qualifying split-sleeper pair among the
// rest periods at or after windowStart and returns:
//
//   - pause: minutes the 14-hour window stops consuming (the shorter period
//     of the pair pauses the window rather than counting against it)
//   - credit: minutes added back to the drive clock (the driver's configured
//     additional hours)
//
// Only one pair may be active per window; later rest periods never stack, so
// the scan stops at the first qualifying pair in chronological order.
// Returns zeros when the split provision is disabled or no pair qualifies.
func splitAdjustment(rests []interval, windowStart time.Time, cfg domain.SplitSleeperConfig) (pause, credit int) {
	if !cfg.Enabled {
		return 0, 0
	}

	var candidates []interval
	for _, r := range rests {
		if !r.start.Before(windowStart) && r.minutes() >= splitShortMinimum {
			candidates = append(candidates, r)
		}
	}

	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			a, b := candidates[i].minutes(), candidates[j].minutes()
			long, short := a, b
			if short > long {
				long, short = short, long
			}
			if long >= splitLongMinimum && a+b >= splitPairMinimum {
				return short, cfg.AdditionalHours * 60
			}
		}
	}
	return 0, 0
}
