package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/brdigitals4u/ttm-eld-backend/internal/domain"
	"github.com/brdigitals4u/ttm-eld-backend/internal/repo"
)

// Hand-written test doubles for the repo interfaces. Each method is a
// function field — set only the ones your test needs. Unset methods return
// zero values so tests don't have to wire behavior they never exercise.

type mockEventRepo struct {
	append     func(ctx context.Context, event domain.StatusChangeEvent) (domain.StatusChangeEvent, error)
	open       func(ctx context.Context, driverID uuid.UUID) (domain.StatusChangeEvent, error)
	queryRange func(ctx context.Context, driverID uuid.UUID, from, to time.Time) ([]domain.StatusChangeEvent, error)
	listForDay func(ctx context.Context, driverID uuid.UUID, dayStart, dayEnd time.Time) ([]domain.StatusChangeEvent, error)
}

func (m *mockEventRepo) Append(ctx context.Context, e domain.StatusChangeEvent) (domain.StatusChangeEvent, error) {
	if m.append == nil {
		return e, nil
	}
	return m.append(ctx, e)
}

func (m *mockEventRepo) Open(ctx context.Context, driverID uuid.UUID) (domain.StatusChangeEvent, error) {
	if m.open == nil {
		return domain.StatusChangeEvent{}, domain.ErrNotFound
	}
	return m.open(ctx, driverID)
}

func (m *mockEventRepo) QueryRange(ctx context.Context, driverID uuid.UUID, from, to time.Time) ([]domain.StatusChangeEvent, error) {
	if m.queryRange == nil {
		return nil, nil
	}
	return m.queryRange(ctx, driverID, from, to)
}

func (m *mockEventRepo) ListForDay(ctx context.Context, driverID uuid.UUID, dayStart, dayEnd time.Time) ([]domain.StatusChangeEvent, error) {
	if m.listForDay == nil {
		return nil, nil
	}
	return m.listForDay(ctx, driverID, dayStart, dayEnd)
}

var _ repo.EventRepo = (*mockEventRepo)(nil)

type mockDailyLogRepo struct {
	get             func(ctx context.Context, driverID uuid.UUID, date time.Time) (domain.DailyLog, error)
	isCertified     func(ctx context.Context, driverID uuid.UUID, date time.Time) (bool, error)
	certify         func(ctx context.Context, driverID uuid.UUID, day repo.DayWindow, certifiedBy, signature string, now time.Time) (domain.DailyLog, error)
	certifyMany     func(ctx context.Context, driverID uuid.UUID, days []repo.DayWindow, certifiedBy, signature string, now time.Time) error
	uncertify       func(ctx context.Context, driverID uuid.UUID, day repo.DayWindow) (domain.DailyLog, error)
	outstandingDays func(ctx context.Context, driverID uuid.UUID, tz string, today time.Time) ([]time.Time, error)
}

func (m *mockDailyLogRepo) Get(ctx context.Context, driverID uuid.UUID, date time.Time) (domain.DailyLog, error) {
	if m.get == nil {
		return domain.DailyLog{}, domain.ErrNotFound
	}
	return m.get(ctx, driverID, date)
}

func (m *mockDailyLogRepo) IsCertified(ctx context.Context, driverID uuid.UUID, date time.Time) (bool, error) {
	if m.isCertified == nil {
		return false, nil
	}
	return m.isCertified(ctx, driverID, date)
}

func (m *mockDailyLogRepo) Certify(ctx context.Context, driverID uuid.UUID, day repo.DayWindow, certifiedBy, signature string, now time.Time) (domain.DailyLog, error) {
	if m.certify == nil {
		return domain.DailyLog{}, nil
	}
	return m.certify(ctx, driverID, day, certifiedBy, signature, now)
}

func (m *mockDailyLogRepo) CertifyMany(ctx context.Context, driverID uuid.UUID, days []repo.DayWindow, certifiedBy, signature string, now time.Time) error {
	if m.certifyMany == nil {
		return nil
	}
	return m.certifyMany(ctx, driverID, days, certifiedBy, signature, now)
}

func (m *mockDailyLogRepo) Uncertify(ctx context.Context, driverID uuid.UUID, day repo.DayWindow) (domain.DailyLog, error) {
	if m.uncertify == nil {
		return domain.DailyLog{}, domain.ErrNotFound
	}
	return m.uncertify(ctx, driverID, day)
}

func (m *mockDailyLogRepo) OutstandingDays(ctx context.Context, driverID uuid.UUID, tz string, today time.Time) ([]time.Time, error) {
	if m.outstandingDays == nil {
		return nil, nil
	}
	return m.outstandingDays(ctx, driverID, tz, today)
}

var _ repo.DailyLogRepo = (*mockDailyLogRepo)(nil)

type mockSettingsRepo struct {
	get    func(ctx context.Context, driverID uuid.UUID) (domain.DriverSettings, error)
	upsert func(ctx context.Context, settings domain.DriverSettings) (domain.DriverSettings, error)
}

func (m *mockSettingsRepo) Get(ctx context.Context, driverID uuid.UUID) (domain.DriverSettings, error) {
	if m.get == nil {
		return domain.DriverSettings{}, domain.ErrNotFound
	}
	return m.get(ctx, driverID)
}

func (m *mockSettingsRepo) Upsert(ctx context.Context, settings domain.DriverSettings) (domain.DriverSettings, error) {
	if m.upsert == nil {
		return settings, nil
	}
	return m.upsert(ctx, settings)
}

var _ repo.SettingsRepo = (*mockSettingsRepo)(nil)

type mockAuditRepo struct {
	record       func(ctx context.Context, event domain.AuditEvent) (domain.AuditEvent, error)
	listByDriver func(ctx context.Context, driverID uuid.UUID, limit int) ([]domain.AuditEvent, error)
}

func (m *mockAuditRepo) Record(ctx context.Context, e domain.AuditEvent) (domain.AuditEvent, error) {
	if m.record == nil {
		return e, nil
	}
	return m.record(ctx, e)
}

func (m *mockAuditRepo) ListByDriver(ctx context.Context, driverID uuid.UUID, limit int) ([]domain.AuditEvent, error) {
	if m.listByDriver == nil {
		return nil, nil
	}
	return m.listByDriver(ctx, driverID, limit)
}

var _ repo.AuditRepo = (*mockAuditRepo)(nil)

// staticLocations is a LocationProvider returning a fixed fix for any driver.
type staticLocations struct {
	fix domain.Location
	ok  bool
}

func (s staticLocations) LastKnown(uuid.UUID) (domain.Location, bool) {
	return s.fix, s.ok
}
