package handler_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/brdigitals4u/ttm-eld-backend/internal/domain"
	"github.com/brdigitals4u/ttm-eld-backend/internal/handler"
)

// Function-field mocks for the servicer interfaces. Set only the methods your
// test needs; unset methods return zero values.

type mockStatusServicer struct {
	requestStatusChange func(ctx context.Context, driverID uuid.UUID, status domain.DutyStatus,
		reason string, location *domain.Location) (domain.StatusChangeEvent, error)
	getCurrentStatus func(ctx context.Context, driverID uuid.UUID) (domain.DutyStatus, error)
}

func (m *mockStatusServicer) RequestStatusChange(ctx context.Context, driverID uuid.UUID,
	status domain.DutyStatus, reason string, location *domain.Location,
) (domain.StatusChangeEvent, error) {
	if m.requestStatusChange == nil {
		return domain.StatusChangeEvent{DriverID: driverID, Status: status}, nil
	}
	return m.requestStatusChange(ctx, driverID, status, reason, location)
}

func (m *mockStatusServicer) GetCurrentStatus(ctx context.Context, driverID uuid.UUID) (domain.DutyStatus, error) {
	if m.getCurrentStatus == nil {
		return domain.StatusOffDuty, nil
	}
	return m.getCurrentStatus(ctx, driverID)
}

var _ handler.StatusServicer = (*mockStatusServicer)(nil)

type mockClockServicer struct {
	getClockState func(ctx context.Context, driverID uuid.UUID) (domain.HOSClockState, error)
	getViolations func(ctx context.Context, driverID uuid.UUID) ([]domain.Violation, error)
}

func (m *mockClockServicer) GetClockState(ctx context.Context, driverID uuid.UUID) (domain.HOSClockState, error) {
	if m.getClockState == nil {
		return domain.HOSClockState{}, nil
	}
	return m.getClockState(ctx, driverID)
}

func (m *mockClockServicer) GetViolations(ctx context.Context, driverID uuid.UUID) ([]domain.Violation, error) {
	if m.getViolations == nil {
		return []domain.Violation{}, nil
	}
	return m.getViolations(ctx, driverID)
}

var _ handler.ClockServicer = (*mockClockServicer)(nil)

type mockCertificationServicer struct {
	certifyDay func(ctx context.Context, driverID uuid.UUID, year int, month time.Month,
		dayOfMonth int, signature string) (domain.DailyLog, error)
	certifyAllUncertified func(ctx context.Context, driverID uuid.UUID, signature string) (int, error)
	uncertifyDay          func(ctx context.Context, driverID uuid.UUID, year int, month time.Month,
		dayOfMonth int) (domain.DailyLog, error)
	getDailyLog func(ctx context.Context, driverID uuid.UUID, year int, month time.Month,
		dayOfMonth int) (domain.DailyLog, error)
	getEventsForDate func(ctx context.Context, driverID uuid.UUID, year int, month time.Month,
		dayOfMonth int) ([]domain.StatusChangeEvent, error)
	auditTrail func(ctx context.Context, driverID uuid.UUID, limit int) ([]domain.AuditEvent, error)
}

func (m *mockCertificationServicer) CertifyDay(ctx context.Context, driverID uuid.UUID,
	year int, month time.Month, dayOfMonth int, signature string,
) (domain.DailyLog, error) {
	if m.certifyDay == nil {
		return domain.DailyLog{}, nil
	}
	return m.certifyDay(ctx, driverID, year, month, dayOfMonth, signature)
}

func (m *mockCertificationServicer) CertifyAllUncertified(ctx context.Context, driverID uuid.UUID, signature string) (int, error) {
	if m.certifyAllUncertified == nil {
		return 0, nil
	}
	return m.certifyAllUncertified(ctx, driverID, signature)
}

func (m *mockCertificationServicer) UncertifyDay(ctx context.Context, driverID uuid.UUID,
	year int, month time.Month, dayOfMonth int,
) (domain.DailyLog, error) {
	if m.uncertifyDay == nil {
		return domain.DailyLog{}, nil
	}
	return m.uncertifyDay(ctx, driverID, year, month, dayOfMonth)
}

func (m *mockCertificationServicer) GetDailyLog(ctx context.Context, driverID uuid.UUID,
	year int, month time.Month, dayOfMonth int,
) (domain.DailyLog, error) {
	if m.getDailyLog == nil {
		return domain.DailyLog{}, nil
	}
	return m.getDailyLog(ctx, driverID, year, month, dayOfMonth)
}

func (m *mockCertificationServicer) GetEventsForDate(ctx context.Context, driverID uuid.UUID,
	year int, month time.Month, dayOfMonth int,
) ([]domain.StatusChangeEvent, error) {
	if m.getEventsForDate == nil {
		return []domain.StatusChangeEvent{}, nil
	}
	return m.getEventsForDate(ctx, driverID, year, month, dayOfMonth)
}

func (m *mockCertificationServicer) AuditTrail(ctx context.Context, driverID uuid.UUID, limit int) ([]domain.AuditEvent, error) {
	if m.auditTrail == nil {
		return []domain.AuditEvent{}, nil
	}
	return m.auditTrail(ctx, driverID, limit)
}

var _ handler.CertificationServicer = (*mockCertificationServicer)(nil)

type mockSettingsServicer struct {
	get func(ctx context.Context, driverID uuid.UUID) (domain.DriverSettings, error)
	setSplitSleeper func(ctx context.Context, driverID uuid.UUID, enabled bool,
		additionalHours int) (domain.DriverSettings, error)
}

func (m *mockSettingsServicer) Get(ctx context.Context, driverID uuid.UUID) (domain.DriverSettings, error) {
	if m.get == nil {
		return domain.DriverSettings{DriverID: driverID}, nil
	}
	return m.get(ctx, driverID)
}

func (m *mockSettingsServicer) SetSplitSleeper(ctx context.Context, driverID uuid.UUID,
	enabled bool, additionalHours int,
) (domain.DriverSettings, error) {
	if m.setSplitSleeper == nil {
		return domain.DriverSettings{DriverID: driverID}, nil
	}
	return m.setSplitSleeper(ctx, driverID, enabled, additionalHours)
}

var _ handler.SettingsServicer = (*mockSettingsServicer)(nil)
