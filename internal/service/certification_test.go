package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brdigitals4u/ttm-eld-backend/internal/clock"
	"github.com/brdigitals4u/ttm-eld-backend/internal/domain"
	"github.com/brdigitals4u/ttm-eld-backend/internal/repo"
	"github.com/brdigitals4u/ttm-eld-backend/internal/service"
)

func newCertService(events *mockEventRepo, logs *mockDailyLogRepo, audit *mockAuditRepo) *service.CertificationService {
	settings := service.NewSettingsService(&mockSettingsRepo{}, "UTC")
	return service.NewCertificationService(events, logs, audit, settings,
		clock.Fixed{T: testNow}, service.NewDriverLocks())
}

func dayEvents(date time.Time) []domain.StatusChangeEvent {
	end := date.Add(9 * time.Hour)
	return []domain.StatusChangeEvent{{
		ID:        uuid.New(),
		DriverID:  driverID,
		Status:    domain.StatusDriving,
		StartTime: date.Add(8 * time.Hour),
		EndTime:   &end,
	}}
}

// ---- CertifyDay -------------------------------------------------------------

func TestCertifyDay_EmptySignature(t *testing.T) {
	svc := newCertService(&mockEventRepo{}, &mockDailyLogRepo{}, &mockAuditRepo{})

	_, err := svc.CertifyDay(context.Background(), driverID, 2025, time.March, 9, "   ")

	assert.ErrorIs(t, err, domain.ErrEmptySignature)
}

func TestCertifyDay_FutureDate(t *testing.T) {
	svc := newCertService(&mockEventRepo{}, &mockDailyLogRepo{}, &mockAuditRepo{})

	_, err := svc.CertifyDay(context.Background(), driverID, 2025, time.March, 11, "J. Driver")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCertifyDay_NoEvents(t *testing.T) {
	svc := newCertService(&mockEventRepo{}, &mockDailyLogRepo{}, &mockAuditRepo{})

	_, err := svc.CertifyDay(context.Background(), driverID, 2025, time.March, 9, "J. Driver")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCertifyDay_SealsDayAndAttachesEvents(t *testing.T) {
	date := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	events := &mockEventRepo{
		listForDay: func(_ context.Context, _ uuid.UUID, dayStart, _ time.Time) ([]domain.StatusChangeEvent, error) {
			return dayEvents(dayStart), nil
		},
	}
	var gotWindow repo.DayWindow
	logs := &mockDailyLogRepo{
		certify: func(_ context.Context, _ uuid.UUID, day repo.DayWindow, certifiedBy, signature string, now time.Time) (domain.DailyLog, error) {
			gotWindow = day
			return domain.DailyLog{
				ID:                     uuid.New(),
				DriverID:               driverID,
				Date:                   day.Date,
				IsCertified:            true,
				CertifiedBy:            certifiedBy,
				CertifiedAt:            &now,
				CertificationSignature: signature,
			}, nil
		},
	}
	svc := newCertService(events, logs, &mockAuditRepo{})

	log, err := svc.CertifyDay(context.Background(), driverID, 2025, time.March, 9, "J. Driver")

	require.NoError(t, err)
	assert.True(t, log.IsCertified)
	assert.Equal(t, "J. Driver", log.CertificationSignature)
	assert.Len(t, log.Events, 1)
	assert.True(t, gotWindow.Date.Equal(date), "window pinned to the requested calendar day")
	assert.True(t, gotWindow.End.Equal(date.AddDate(0, 0, 1)))
}

func TestCertifyDay_CurrentDayIsExplicitEarlyCertification(t *testing.T) {
	// testNow is March 10: certifying March 10 directly is allowed even
	// though the day has not elapsed.
	events := &mockEventRepo{
		listForDay: func(_ context.Context, _ uuid.UUID, dayStart, _ time.Time) ([]domain.StatusChangeEvent, error) {
			return dayEvents(dayStart), nil
		},
	}
	svc := newCertService(events, &mockDailyLogRepo{}, &mockAuditRepo{})

	_, err := svc.CertifyDay(context.Background(), driverID, 2025, time.March, 10, "J. Driver")

	assert.NoError(t, err)
}

// Scenario: a second CertifyDay on the same date surfaces AlreadyCertified
// and leaves the stored log untouched.
func TestCertifyDay_SecondCallAlreadyCertified(t *testing.T) {
	events := &mockEventRepo{
		listForDay: func(_ context.Context, _ uuid.UUID, dayStart, _ time.Time) ([]domain.StatusChangeEvent, error) {
			return dayEvents(dayStart), nil
		},
	}
	certified := false
	logs := &mockDailyLogRepo{
		certify: func(_ context.Context, _ uuid.UUID, day repo.DayWindow, _, sig string, now time.Time) (domain.DailyLog, error) {
			if certified {
				return domain.DailyLog{}, domain.ErrAlreadyCertified
			}
			certified = true
			return domain.DailyLog{DriverID: driverID, Date: day.Date, IsCertified: true, CertificationSignature: sig, CertifiedAt: &now}, nil
		},
	}
	svc := newCertService(events, logs, &mockAuditRepo{})

	_, err := svc.CertifyDay(context.Background(), driverID, 2025, time.March, 9, "J. Driver")
	require.NoError(t, err)

	_, err = svc.CertifyDay(context.Background(), driverID, 2025, time.March, 9, "J. Driver")
	assert.ErrorIs(t, err, domain.ErrAlreadyCertified)
}

// ---- CertifyAllUncertified -----------------------------------------------------

// Scenario: three outstanding days certify in one call; a second call finds
// nothing outstanding and reports zero without error.
func TestCertifyAllUncertified_CertifiesOutstandingThenNothing(t *testing.T) {
	outstanding := []time.Time{
		time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
	}
	var batch []repo.DayWindow
	logs := &mockDailyLogRepo{
		outstandingDays: func(context.Context, uuid.UUID, string, time.Time) ([]time.Time, error) {
			return outstanding, nil
		},
		certifyMany: func(_ context.Context, _ uuid.UUID, days []repo.DayWindow, _, _ string, _ time.Time) error {
			batch = days
			outstanding = nil // the repo view after commit
			return nil
		},
	}
	svc := newCertService(&mockEventRepo{}, logs, &mockAuditRepo{})

	count, err := svc.CertifyAllUncertified(context.Background(), driverID, "J. Driver")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.Len(t, batch, 3)
	assert.True(t, batch[0].Date.Equal(time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)))

	count, err = svc.CertifyAllUncertified(context.Background(), driverID, "J. Driver")
	require.NoError(t, err)
	assert.Equal(t, 0, count, "no outstanding days is a no-op success")
}

func TestCertifyAllUncertified_EmptySignature(t *testing.T) {
	svc := newCertService(&mockEventRepo{}, &mockDailyLogRepo{}, &mockAuditRepo{})

	_, err := svc.CertifyAllUncertified(context.Background(), driverID, "")

	assert.ErrorIs(t, err, domain.ErrEmptySignature)
}

// ---- UncertifyDay -----------------------------------------------------------------

func TestUncertifyDay_ClearsCertificationAndWritesAudit(t *testing.T) {
	logs := &mockDailyLogRepo{
		uncertify: func(_ context.Context, _ uuid.UUID, day repo.DayWindow) (domain.DailyLog, error) {
			return domain.DailyLog{DriverID: driverID, Date: day.Date, IsCertified: false}, nil
		},
	}
	var audited domain.AuditEvent
	audit := &mockAuditRepo{
		record: func(_ context.Context, e domain.AuditEvent) (domain.AuditEvent, error) {
			audited = e
			return e, nil
		},
	}
	svc := newCertService(&mockEventRepo{}, logs, audit)

	log, err := svc.UncertifyDay(context.Background(), driverID, 2025, time.March, 9)

	require.NoError(t, err)
	assert.False(t, log.IsCertified)
	assert.Equal(t, domain.AuditActionUncertify, audited.Action)
	assert.Equal(t, "2025-03-09", audited.Detail)
	assert.True(t, audited.OccurredAt.Equal(testNow))
}

func TestUncertifyDay_NotCertified(t *testing.T) {
	svc := newCertService(&mockEventRepo{}, &mockDailyLogRepo{}, &mockAuditRepo{})

	_, err := svc.UncertifyDay(context.Background(), driverID, 2025, time.March, 9)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- reads -----------------------------------------------------------------------

func TestGetDailyLog_UncertifiedDayIsComputedOnDemand(t *testing.T) {
	events := &mockEventRepo{
		listForDay: func(_ context.Context, _ uuid.UUID, dayStart, _ time.Time) ([]domain.StatusChangeEvent, error) {
			return dayEvents(dayStart), nil
		},
	}
	svc := newCertService(events, &mockDailyLogRepo{}, &mockAuditRepo{})

	log, err := svc.GetDailyLog(context.Background(), driverID, 2025, time.March, 9)

	require.NoError(t, err)
	assert.False(t, log.IsCertified)
	assert.Equal(t, uuid.Nil, log.ID, "no persisted record until certification")
	assert.Len(t, log.Events, 1)
}

func TestGetDailyLog_NoEventsNoRecord(t *testing.T) {
	svc := newCertService(&mockEventRepo{}, &mockDailyLogRepo{}, &mockAuditRepo{})

	_, err := svc.GetDailyLog(context.Background(), driverID, 2025, time.March, 9)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetEventsForDate_AlwaysNonNil(t *testing.T) {
	svc := newCertService(&mockEventRepo{}, &mockDailyLogRepo{}, &mockAuditRepo{})

	events, err := svc.GetEventsForDate(context.Background(), driverID, 2025, time.March, 9)

	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}
