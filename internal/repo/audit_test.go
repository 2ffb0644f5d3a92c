package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brdigitals4u/ttm-eld-backend/internal/domain"
	"github.com/brdigitals4u/ttm-eld-backend/internal/repo"
)

func newTestAuditRepo(t *testing.T) repo.AuditRepo {
	t.Helper()
	return repo.NewAuditRepo(newTestTx(t))
}

func TestAuditRepo_Record(t *testing.T) {
	r := newTestAuditRepo(t)
	ctx := context.Background()
	driver := uuid.New()
	at := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	got, err := r.Record(ctx, domain.AuditEvent{
		DriverID:   driver,
		Action:     domain.AuditActionUncertify,
		Detail:     "2025-03-09",
		OccurredAt: at,
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID, "ID should be DB-generated")
	assert.Equal(t, driver, got.DriverID)
	assert.Equal(t, domain.AuditActionUncertify, got.Action)
	assert.Equal(t, "2025-03-09", got.Detail)
	assert.True(t, got.OccurredAt.Equal(at))
}

func TestAuditRepo_ListByDriver_NewestFirstAndLimited(t *testing.T) {
	r := newTestAuditRepo(t)
	ctx := context.Background()
	driver := uuid.New()
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := r.Record(ctx, domain.AuditEvent{
			DriverID:   driver,
			Action:     domain.AuditActionUncertify,
			Detail:     base.AddDate(0, 0, -i).Format("2006-01-02"),
			OccurredAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	events, err := r.ListByDriver(ctx, driver, 2)

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.True(t, events[0].OccurredAt.After(events[1].OccurredAt), "newest first")
}

func TestAuditRepo_ListByDriver_Empty(t *testing.T) {
	r := newTestAuditRepo(t)

	events, err := r.ListByDriver(context.Background(), uuid.New(), 10)

	require.NoError(t, err)
	assert.Empty(t, events)
}
