package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brdigitals4u/ttm-eld-backend/internal/clock"
	"github.com/brdigitals4u/ttm-eld-backend/internal/domain"
	"github.com/brdigitals4u/ttm-eld-backend/internal/hos"
	"github.com/brdigitals4u/ttm-eld-backend/internal/repo"
)

// ClockService is the HOS read model: it replays the event log through the
// pure calculator on every query. Nothing here mutates state, so it needs no
// per-driver lock and may be called concurrently with status changes —
// callers always see a consistent snapshot of the latest appended events.
type ClockService struct {
	events   repo.EventRepo
	logs     repo.DailyLogRepo
	settings *SettingsService
	clk      clock.Clock
}

// NewClockService constructs a ClockService.
func NewClockService(events repo.EventRepo, logs repo.DailyLogRepo, settings *SettingsService, clk clock.Clock) *ClockService {
	return &ClockService{events: events, logs: logs, settings: settings, clk: clk}
}

// GetClockState computes the driver's four remaining-time clocks as of the
// clock source's current instant.
func (s *ClockService) GetClockState(ctx context.Context, driverID uuid.UUID) (domain.HOSClockState, error) {
	now, err := s.clk.Now()
	if err != nil {
		return domain.HOSClockState{}, fmt.Errorf("service.ClockService.GetClockState: %w", err)
	}

	settings, err := s.settings.Get(ctx, driverID)
	if err != nil {
		return domain.HOSClockState{}, fmt.Errorf("service.ClockService.GetClockState: %w", err)
	}
	loc := settings.Location()

	// Fetch everything the cycle window can reach, plus margin so the
	// qualifying-rest scan that anchors the 14-hour window sees the rest
	// period even when it straddles the window edge.
	date, _, _ := dayBounds(now, loc)
	from := date.AddDate(0, 0, -(settings.CycleType.WindowDays() - 1)).Add(-48 * time.Hour)
	events, err := s.events.QueryRange(ctx, driverID, from, now.Add(time.Minute))
	if err != nil {
		return domain.HOSClockState{}, fmt.Errorf("service.ClockService.GetClockState: %w", err)
	}

	lockout, err := openDayCertified(ctx, s.events, s.logs, s.settings, driverID)
	if err != nil {
		return domain.HOSClockState{}, fmt.Errorf("service.ClockService.GetClockState: %w", err)
	}

	cfg := hos.Config{
		CycleType:        settings.CycleType,
		SplitSleeper:     settings.SplitSleeper,
		HomeTerminalTZ:   loc,
		CertifiedLockout: lockout,
	}
	return hos.ComputeClockState(events, cfg, now), nil
}

// GetViolations classifies the driver's current clock state into active
// violations and warnings.
func (s *ClockService) GetViolations(ctx context.Context, driverID uuid.UUID) ([]domain.Violation, error) {
	state, err := s.GetClockState(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("service.ClockService.GetViolations: %w", err)
	}
	violations := hos.DetectViolations(state)
	if violations == nil {
		violations = []domain.Violation{}
	}
	return violations, nil
}
