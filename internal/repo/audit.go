package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/brdigitals4u/ttm-eld-backend/internal/domain"
)

// AuditRepo defines persistence for the append-only audit trail. Uncertifying
// a day weakens the tamper-evidence guarantee, so every such action is
// recorded here.
type AuditRepo interface {
	// Record appends one audit event and returns the persisted record.
	Record(ctx context.Context, event domain.AuditEvent) (domain.AuditEvent, error)

	// ListByDriver returns the driver's most recent audit events, newest
	// first, up to limit.
	ListByDriver(ctx context.Context, driverID uuid.UUID, limit int) ([]domain.AuditEvent, error)
}

// pgAuditRepo is the Postgres implementation of AuditRepo.
type pgAuditRepo struct {
	db db
}

// NewAuditRepo constructs an AuditRepo backed by the provided db connection.
func NewAuditRepo(db db) AuditRepo {
	return &pgAuditRepo{db: db}
}

// Record inserts one audit event.
func (r *pgAuditRepo) Record(ctx context.Context, event domain.AuditEvent) (domain.AuditEvent, error) {
	const q = `
		INSERT INTO audit_events (driver_id, action, detail, occurred_at)
		VALUES (@driver_id, @action, @detail, @occurred_at)
		RETURNING id, driver_id, action, detail, occurred_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"driver_id":   event.DriverID,
		"action":      event.Action,
		"detail":      event.Detail,
		"occurred_at": event.OccurredAt,
	})
	result, err := scanAudit(row)
	if err != nil {
		return domain.AuditEvent{}, fmt.Errorf("repo.AuditRepo.Record: %w", err)
	}
	return result, nil
}

// ListByDriver returns recent audit events for a driver.
func (r *pgAuditRepo) ListByDriver(ctx context.Context, driverID uuid.UUID, limit int) ([]domain.AuditEvent, error) {
	const q = `
		SELECT id, driver_id, action, detail, occurred_at
		FROM audit_events
		WHERE driver_id = @driver_id
		ORDER BY occurred_at DESC
		LIMIT @limit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"driver_id": driverID, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.AuditRepo.ListByDriver: %w", err)
	}
	defer rows.Close()

	var events []domain.AuditEvent
	for rows.Next() {
		e, err := scanAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.AuditRepo.ListByDriver: scan: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.AuditRepo.ListByDriver: rows: %w", err)
	}
	return events, nil
}

// scanAudit maps an audit_events row into a domain.AuditEvent.
func scanAudit(s scanner) (domain.AuditEvent, error) {
	var (
		e   domain.AuditEvent
		id  pgtype.UUID
		drv pgtype.UUID
	)

	err := s.Scan(&id, &drv, &e.Action, &e.Detail, &e.OccurredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AuditEvent{}, domain.ErrNotFound
		}
		return domain.AuditEvent{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	e.DriverID = uuid.UUID(drv.Bytes)
	return e, nil
}
