// Package repo contains all database access logic for the ELD backend.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/brdigitals4u/ttm-eld-backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows
// integration tests to pass a transaction that is rolled back after each
// test, giving free per-test isolation. Begin on a pgx.Tx opens a savepoint,
// so the transactional repo methods keep working under test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

const eventColumns = `id, driver_id, status, start_time, end_time, reason,
	location_address, location_lat, location_lon, certified, created_at`

// EventRepo defines persistence for the append-only status-change event log.
// The log is the single source of truth for all HOS math: rows are appended
// or flagged certified, never rewritten.
type EventRepo interface {
	// Append closes the driver's open event at event.StartTime and inserts
	// event as the new open one, in a single transaction. Returns the
	// persisted event with DB-generated id and created_at.
	Append(ctx context.Context, event domain.StatusChangeEvent) (domain.StatusChangeEvent, error)

	// Open returns the driver's currently open event (end_time IS NULL).
	// Returns domain.ErrNotFound when the driver has no events yet.
	Open(ctx context.Context, driverID uuid.UUID) (domain.StatusChangeEvent, error)

	// QueryRange returns the driver's events overlapping [from, to),
	// including a still-open event, ordered by start_time ascending.
	QueryRange(ctx context.Context, driverID uuid.UUID, from, to time.Time) ([]domain.StatusChangeEvent, error)

	// ListForDay returns events whose start_time falls in [dayStart, dayEnd),
	// ordered by start_time ascending. An event belongs to the calendar day
	// it starts on.
	ListForDay(ctx context.Context, driverID uuid.UUID, dayStart, dayEnd time.Time) ([]domain.StatusChangeEvent, error)
}

// pgEventRepo is the Postgres implementation of EventRepo.
type pgEventRepo struct {
	db db
}

// NewEventRepo constructs an EventRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewEventRepo(db db) EventRepo {
	return &pgEventRepo{db: db}
}

// Append closes the open event and inserts the new one atomically, so no
// observer ever sees two open events or a gap between them.
func (r *pgEventRepo) Append(ctx context.Context, event domain.StatusChangeEvent) (domain.StatusChangeEvent, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.StatusChangeEvent{}, fmt.Errorf("repo.EventRepo.Append: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	const closeQ = `
		UPDATE status_events
		SET end_time = @start_time
		WHERE driver_id = @driver_id AND end_time IS NULL`

	if _, err := tx.Exec(ctx, closeQ, pgx.NamedArgs{
		"driver_id":  event.DriverID,
		"start_time": event.StartTime,
	}); err != nil {
		return domain.StatusChangeEvent{}, fmt.Errorf("repo.EventRepo.Append: close open event: %w", err)
	}

	const insertQ = `
		INSERT INTO status_events
			(driver_id, status, start_time, reason, location_address, location_lat, location_lon)
		VALUES
			(@driver_id, @status, @start_time, @reason, @location_address, @location_lat, @location_lon)
		RETURNING ` + eventColumns

	args := pgx.NamedArgs{
		"driver_id":        event.DriverID,
		"status":           string(event.Status),
		"start_time":       event.StartTime,
		"reason":           event.Reason,
		"location_address": nil,
		"location_lat":     nil,
		"location_lon":     nil,
	}
	if event.Location != nil {
		if event.Location.Address != "" {
			args["location_address"] = event.Location.Address
		}
		args["location_lat"] = event.Location.Lat
		args["location_lon"] = event.Location.Lon
	}

	row := tx.QueryRow(ctx, insertQ, args)
	result, err := scanEvent(row)
	if err != nil {
		return domain.StatusChangeEvent{}, fmt.Errorf("repo.EventRepo.Append: insert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.StatusChangeEvent{}, fmt.Errorf("repo.EventRepo.Append: commit: %w", err)
	}
	return result, nil
}

// Open returns the driver's currently open event.
func (r *pgEventRepo) Open(ctx context.Context, driverID uuid.UUID) (domain.StatusChangeEvent, error) {
	const q = `
		SELECT ` + eventColumns + `
		FROM status_events
		WHERE driver_id = @driver_id AND end_time IS NULL`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"driver_id": driverID})
	result, err := scanEvent(row)
	if err != nil {
		return domain.StatusChangeEvent{}, fmt.Errorf("repo.EventRepo.Open: %w", err)
	}
	return result, nil
}

// QueryRange returns events overlapping the closed-open range [from, to).
func (r *pgEventRepo) QueryRange(ctx context.Context, driverID uuid.UUID, from, to time.Time) ([]domain.StatusChangeEvent, error) {
	const q = `
		SELECT ` + eventColumns + `
		FROM status_events
		WHERE driver_id = @driver_id
		  AND start_time < @to
		  AND (end_time IS NULL OR end_time > @from)
		ORDER BY start_time`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"driver_id": driverID, "from": from, "to": to})
	if err != nil {
		return nil, fmt.Errorf("repo.EventRepo.QueryRange: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows, "repo.EventRepo.QueryRange")
}

// ListForDay returns events starting within [dayStart, dayEnd).
func (r *pgEventRepo) ListForDay(ctx context.Context, driverID uuid.UUID, dayStart, dayEnd time.Time) ([]domain.StatusChangeEvent, error) {
	const q = `
		SELECT ` + eventColumns + `
		FROM status_events
		WHERE driver_id = @driver_id
		  AND start_time >= @day_start
		  AND start_time < @day_end
		ORDER BY start_time`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"driver_id": driverID,
		"day_start": dayStart,
		"day_end":   dayEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("repo.EventRepo.ListForDay: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows, "repo.EventRepo.ListForDay")
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanEvent to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

func collectEvents(rows pgx.Rows, op string) ([]domain.StatusChangeEvent, error) {
	var events []domain.StatusChangeEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return events, nil
}

// scanEvent maps a single database row into a domain.StatusChangeEvent,
// handling the UUID, nullable end_time, and nullable location columns.
func scanEvent(s scanner) (domain.StatusChangeEvent, error) {
	var (
		e       domain.StatusChangeEvent
		id      pgtype.UUID
		drv     pgtype.UUID
		status  string
		endTime pgtype.Timestamptz
		addr    pgtype.Text
		lat     pgtype.Float8
		lon     pgtype.Float8
	)

	err := s.Scan(&id, &drv, &status, &e.StartTime, &endTime, &e.Reason,
		&addr, &lat, &lon, &e.Certified, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.StatusChangeEvent{}, domain.ErrNotFound
		}
		return domain.StatusChangeEvent{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	e.DriverID = uuid.UUID(drv.Bytes)
	e.Status = domain.DutyStatus(status)
	if endTime.Valid {
		et := endTime.Time
		e.EndTime = &et
	}
	if addr.Valid || lat.Valid || lon.Valid {
		loc := &domain.Location{Address: addr.String}
		if lat.Valid {
			v := lat.Float64
			loc.Lat = &v
		}
		if lon.Valid {
			v := lon.Float64
			loc.Lon = &v
		}
		e.Location = loc
	}
	return e, nil
}
