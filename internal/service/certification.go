package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/brdigitals4u/ttm-eld-backend/internal/clock"
	"github.com/brdigitals4u/ttm-eld-backend/internal/domain"
	"github.com/brdigitals4u/ttm-eld-backend/internal/repo"
)

// CertificationService implements the daily-log certification workflow:
// sealing a day's slice of the event log behind a driver signature, bulk
// certification of outstanding days, and the audited uncertify escape hatch.
type CertificationService struct {
	events   repo.EventRepo
	logs     repo.DailyLogRepo
	audit    repo.AuditRepo
	settings *SettingsService
	clk      clock.Clock
	locks    *DriverLocks
}

// NewCertificationService constructs a CertificationService.
func NewCertificationService(events repo.EventRepo, logs repo.DailyLogRepo, audit repo.AuditRepo,
	settings *SettingsService, clk clock.Clock, locks *DriverLocks,
) *CertificationService {
	return &CertificationService{
		events:   events,
		logs:     logs,
		audit:    audit,
		settings: settings,
		clk:      clk,
		locks:    locks,
	}
}

// CertifyDay seals one calendar day of the driver's log. Calling it for the
// current, still-open day is an explicit early-certification request and is
// allowed; future days are not.
//
// Returns domain.ErrEmptySignature for a blank signature,
// domain.ErrAlreadyCertified when the day is already sealed, and
// domain.ErrValidation for a future date or a day with no events.
func (s *CertificationService) CertifyDay(ctx context.Context, driverID uuid.UUID,
	year int, month time.Month, dayOfMonth int, signature string,
) (domain.DailyLog, error) {
	if strings.TrimSpace(signature) == "" {
		return domain.DailyLog{}, fmt.Errorf("service.CertificationService.CertifyDay: %w", domain.ErrEmptySignature)
	}

	now, err := s.clk.Now()
	if err != nil {
		return domain.DailyLog{}, fmt.Errorf("service.CertificationService.CertifyDay: %w", err)
	}

	unlock := s.locks.Lock(driverID)
	defer unlock()

	settings, err := s.settings.Get(ctx, driverID)
	if err != nil {
		return domain.DailyLog{}, fmt.Errorf("service.CertificationService.CertifyDay: %w", err)
	}
	loc := settings.Location()

	day := window(year, month, dayOfMonth, loc)
	today, _, _ := dayBounds(now, loc)
	if day.Date.After(today) {
		return domain.DailyLog{}, fmt.Errorf("%w: cannot certify a future day", domain.ErrValidation)
	}

	events, err := s.events.ListForDay(ctx, driverID, day.Start, day.End)
	if err != nil {
		return domain.DailyLog{}, fmt.Errorf("service.CertificationService.CertifyDay: %w", err)
	}
	if len(events) == 0 {
		return domain.DailyLog{}, fmt.Errorf("%w: no events recorded on %s",
			domain.ErrValidation, day.Date.Format("2006-01-02"))
	}

	log, err := s.logs.Certify(ctx, driverID, day, driverID.String(), signature, now)
	if err != nil {
		return domain.DailyLog{}, fmt.Errorf("service.CertificationService.CertifyDay: %w", err)
	}

	return s.withEvents(ctx, log, driverID, day)
}

// CertifyAllUncertified seals every outstanding day strictly before the
// current day (home-terminal time zone) in a single transaction and returns
// how many days were certified. Zero outstanding days is a no-op success.
func (s *CertificationService) CertifyAllUncertified(ctx context.Context, driverID uuid.UUID, signature string) (int, error) {
	if strings.TrimSpace(signature) == "" {
		return 0, fmt.Errorf("service.CertificationService.CertifyAllUncertified: %w", domain.ErrEmptySignature)
	}

	now, err := s.clk.Now()
	if err != nil {
		return 0, fmt.Errorf("service.CertificationService.CertifyAllUncertified: %w", err)
	}

	unlock := s.locks.Lock(driverID)
	defer unlock()

	settings, err := s.settings.Get(ctx, driverID)
	if err != nil {
		return 0, fmt.Errorf("service.CertificationService.CertifyAllUncertified: %w", err)
	}
	loc := settings.Location()

	outstanding, err := s.logs.OutstandingDays(ctx, driverID, settings.HomeTerminalTZ, now)
	if err != nil {
		return 0, fmt.Errorf("service.CertificationService.CertifyAllUncertified: %w", err)
	}
	if len(outstanding) == 0 {
		return 0, nil
	}

	days := make([]repo.DayWindow, len(outstanding))
	for i, d := range outstanding {
		days[i] = window(d.Year(), d.Month(), d.Day(), loc)
	}

	if err := s.logs.CertifyMany(ctx, driverID, days, driverID.String(), signature, now); err != nil {
		return 0, fmt.Errorf("service.CertificationService.CertifyAllUncertified: %w", err)
	}
	return len(days), nil
}

// UncertifyDay reverses a day's certification, re-enabling edits. This
// weakens the tamper-evidence guarantee, so the reversal is always recorded
// as an audit event.
func (s *CertificationService) UncertifyDay(ctx context.Context, driverID uuid.UUID,
	year int, month time.Month, dayOfMonth int,
) (domain.DailyLog, error) {
	now, err := s.clk.Now()
	if err != nil {
		return domain.DailyLog{}, fmt.Errorf("service.CertificationService.UncertifyDay: %w", err)
	}

	unlock := s.locks.Lock(driverID)
	defer unlock()

	settings, err := s.settings.Get(ctx, driverID)
	if err != nil {
		return domain.DailyLog{}, fmt.Errorf("service.CertificationService.UncertifyDay: %w", err)
	}
	day := window(year, month, dayOfMonth, settings.Location())

	log, err := s.logs.Uncertify(ctx, driverID, day)
	if err != nil {
		return domain.DailyLog{}, fmt.Errorf("service.CertificationService.UncertifyDay: %w", err)
	}

	if _, err := s.audit.Record(ctx, domain.AuditEvent{
		DriverID:   driverID,
		Action:     domain.AuditActionUncertify,
		Detail:     day.Date.Format("2006-01-02"),
		OccurredAt: now,
	}); err != nil {
		return domain.DailyLog{}, fmt.Errorf("service.CertificationService.UncertifyDay: audit: %w", err)
	}

	return s.withEvents(ctx, log, driverID, day)
}

// GetDailyLog returns the driver's daily log for one calendar day. While the
// day is uncertified the log is computed on demand from the event log; once
// certified the persisted record is returned with its events attached.
// Returns domain.ErrNotFound for a day with no events and no certification
// history.
func (s *CertificationService) GetDailyLog(ctx context.Context, driverID uuid.UUID,
	year int, month time.Month, dayOfMonth int,
) (domain.DailyLog, error) {
	settings, err := s.settings.Get(ctx, driverID)
	if err != nil {
		return domain.DailyLog{}, fmt.Errorf("service.CertificationService.GetDailyLog: %w", err)
	}
	day := window(year, month, dayOfMonth, settings.Location())

	log, err := s.logs.Get(ctx, driverID, day.Date)
	if err != nil && !isNotFound(err) {
		return domain.DailyLog{}, fmt.Errorf("service.CertificationService.GetDailyLog: %w", err)
	}
	if isNotFound(err) {
		// Lazily computed: no persisted record until first certification.
		log = domain.DailyLog{DriverID: driverID, Date: day.Date}
	}

	filled, err := s.withEvents(ctx, log, driverID, day)
	if err != nil {
		return domain.DailyLog{}, err
	}
	if len(filled.Events) == 0 && filled.ID == uuid.Nil {
		return domain.DailyLog{}, fmt.Errorf("service.CertificationService.GetDailyLog: %w", domain.ErrNotFound)
	}
	return filled, nil
}

// GetEventsForDate returns the driver's events for one calendar day,
// read-only. Always returns a non-nil slice so callers can safely range.
func (s *CertificationService) GetEventsForDate(ctx context.Context, driverID uuid.UUID,
	year int, month time.Month, dayOfMonth int,
) ([]domain.StatusChangeEvent, error) {
	settings, err := s.settings.Get(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("service.CertificationService.GetEventsForDate: %w", err)
	}
	day := window(year, month, dayOfMonth, settings.Location())

	events, err := s.events.ListForDay(ctx, driverID, day.Start, day.End)
	if err != nil {
		return nil, fmt.Errorf("service.CertificationService.GetEventsForDate: %w", err)
	}
	if events == nil {
		events = []domain.StatusChangeEvent{}
	}
	return events, nil
}

// AuditTrail returns the driver's most recent audit events, newest first.
// limit values outside [1, 200] fall back to 50.
func (s *CertificationService) AuditTrail(ctx context.Context, driverID uuid.UUID, limit int) ([]domain.AuditEvent, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	events, err := s.audit.ListByDriver(ctx, driverID, limit)
	if err != nil {
		return nil, fmt.Errorf("service.CertificationService.AuditTrail: %w", err)
	}
	if events == nil {
		events = []domain.AuditEvent{}
	}
	return events, nil
}

// withEvents attaches the day's events to a daily log record.
func (s *CertificationService) withEvents(ctx context.Context, log domain.DailyLog,
	driverID uuid.UUID, day repo.DayWindow,
) (domain.DailyLog, error) {
	events, err := s.events.ListForDay(ctx, driverID, day.Start, day.End)
	if err != nil {
		return domain.DailyLog{}, fmt.Errorf("service.CertificationService: attach events: %w", err)
	}
	log.Events = events
	return log, nil
}

// window builds the DayWindow for a calendar date in loc.
func window(year int, month time.Month, day int, loc *time.Location) repo.DayWindow {
	date := time.Date(year, month, day, 0, 0, 0, 0, loc)
	return repo.DayWindow{Date: date, Start: date, End: date.AddDate(0, 0, 1)}
}
