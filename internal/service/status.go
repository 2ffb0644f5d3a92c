package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/brdigitals4u/ttm-eld-backend/internal/clock"
	"github.com/brdigitals4u/ttm-eld-backend/internal/domain"
	"github.com/brdigitals4u/ttm-eld-backend/internal/repo"
)

// LocationProvider supplies a driver's last known position from an external
// telemetry feed. Implementations return false when no sufficiently fresh fix
// exists; the status change is then recorded without a location.
type LocationProvider interface {
	LastKnown(driverID uuid.UUID) (domain.Location, bool)
}

// StatusService is the duty status state machine. It owns the only mutation
// path into the event log for live data: every accepted status change closes
// the driver's open event and appends a new open one.
//
// The machine has no terminal state and no restricted transitions beyond the
// certified-log lock; re-affirming the current status records a fresh event
// boundary, matching the device behavior of logging every status press.
type StatusService struct {
	events    repo.EventRepo
	logs      repo.DailyLogRepo
	settings  *SettingsService
	clk       clock.Clock
	locks     *DriverLocks
	locations LocationProvider // may be nil when no telemetry feed is configured
}

// NewStatusService constructs a StatusService. locations may be nil.
func NewStatusService(events repo.EventRepo, logs repo.DailyLogRepo, settings *SettingsService,
	clk clock.Clock, locks *DriverLocks, locations LocationProvider,
) *StatusService {
	return &StatusService{
		events:    events,
		logs:      logs,
		settings:  settings,
		clk:       clk,
		locks:     locks,
		locations: locations,
	}
}

// RequestStatusChange validates and records a duty status change effective at
// the clock source's current instant.
//
// Returns domain.ErrValidation for an unknown status,
// domain.ErrCertifiedLogLock when the driver's current open day is certified,
// and domain.ErrClockUnavailable when no trustworthy "now" exists.
func (s *StatusService) RequestStatusChange(ctx context.Context, driverID uuid.UUID,
	status domain.DutyStatus, reason string, location *domain.Location,
) (domain.StatusChangeEvent, error) {
	if !status.Valid() {
		return domain.StatusChangeEvent{}, fmt.Errorf("%w: unknown duty status %q", domain.ErrValidation, status)
	}

	now, err := s.clk.Now()
	if err != nil {
		return domain.StatusChangeEvent{}, fmt.Errorf("service.StatusService.RequestStatusChange: %w", err)
	}

	unlock := s.locks.Lock(driverID)
	defer unlock()

	locked, err := openDayCertified(ctx, s.events, s.logs, s.settings, driverID)
	if err != nil {
		return domain.StatusChangeEvent{}, fmt.Errorf("service.StatusService.RequestStatusChange: %w", err)
	}
	if locked {
		return domain.StatusChangeEvent{}, fmt.Errorf("service.StatusService.RequestStatusChange: %w", domain.ErrCertifiedLogLock)
	}

	if location == nil && s.locations != nil {
		if fix, ok := s.locations.LastKnown(driverID); ok {
			location = &fix
		}
	}

	event := domain.StatusChangeEvent{
		DriverID:  driverID,
		Status:    status,
		StartTime: now,
		Reason:    strings.TrimSpace(reason),
		Location:  location,
	}

	created, err := s.events.Append(ctx, event)
	if err != nil {
		return domain.StatusChangeEvent{}, fmt.Errorf("service.StatusService.RequestStatusChange: %w", err)
	}
	return created, nil
}

// GetCurrentStatus returns the driver's current duty status. Drivers with no
// events yet are off duty (the onboarding default).
func (s *StatusService) GetCurrentStatus(ctx context.Context, driverID uuid.UUID) (domain.DutyStatus, error) {
	open, err := s.events.Open(ctx, driverID)
	if err != nil {
		if isNotFound(err) {
			return domain.StatusOffDuty, nil
		}
		return "", fmt.Errorf("service.StatusService.GetCurrentStatus: %w", err)
	}
	return open.Status, nil
}

// openDayCertified reports whether the calendar day of the driver's open
// event is certified, which locks the log against new status changes until
// the day is uncertified. Shared by the state machine (to reject changes)
// and the clock read model (to surface the lockout reason).
func openDayCertified(ctx context.Context, events repo.EventRepo, logs repo.DailyLogRepo,
	settings *SettingsService, driverID uuid.UUID,
) (bool, error) {
	open, err := events.Open(ctx, driverID)
	if err != nil {
		if isNotFound(err) {
			return false, nil // no events yet: nothing can be locked
		}
		return false, err
	}

	cfg, err := settings.Get(ctx, driverID)
	if err != nil {
		return false, err
	}

	date, _, _ := dayBounds(open.StartTime, cfg.Location())
	return logs.IsCertified(ctx, driverID, date)
}
