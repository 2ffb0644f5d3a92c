package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/brdigitals4u/ttm-eld-backend/internal/domain"
)

const dailyLogColumns = `id, driver_id, log_date, is_certified, certified_by,
	certified_at, certification_signature`

// DailyLogRepo defines persistence for daily-log certification records.
// A row exists only once a day has been certified at least once; uncertifying
// keeps the row (with is_certified=false) as part of the tamper-evidence
// trail. Day boundaries are the caller's concern: date is midnight of the
// calendar day in the driver's home-terminal time zone, and [dayStart,
// dayEnd) are the matching UTC instants for the events table.
type DailyLogRepo interface {
	// Get returns the certification record for one calendar day.
	// Returns domain.ErrNotFound when the day has never been certified.
	Get(ctx context.Context, driverID uuid.UUID, date time.Time) (domain.DailyLog, error)

	// IsCertified reports whether the given day is currently certified.
	// A missing row means false, never an error.
	IsCertified(ctx context.Context, driverID uuid.UUID, date time.Time) (bool, error)

	// Certify marks the daily log and every event starting inside
	// [dayStart, dayEnd) certified, atomically. Returns
	// domain.ErrAlreadyCertified (leaving the existing record untouched)
	// if the day is already certified.
	Certify(ctx context.Context, driverID uuid.UUID, day DayWindow,
		certifiedBy, signature string, now time.Time) (domain.DailyLog, error)

	// CertifyMany certifies every given day in one transaction: either all
	// days end up certified or none do. Days already certified cause
	// domain.ErrAlreadyCertified and roll the whole batch back.
	CertifyMany(ctx context.Context, driverID uuid.UUID, days []DayWindow,
		certifiedBy, signature string, now time.Time) error

	// Uncertify clears the certified flags on the daily log and its events,
	// atomically. Returns domain.ErrNotFound if the day is not certified.
	Uncertify(ctx context.Context, driverID uuid.UUID, day DayWindow) (domain.DailyLog, error)

	// OutstandingDays returns every calendar day (in tz) strictly before
	// today that has events but no current certification, ordered ascending.
	// Days are returned as midnight UTC of the calendar date.
	OutstandingDays(ctx context.Context, driverID uuid.UUID, tz string, today time.Time) ([]time.Time, error)
}

// DayWindow identifies one calendar day for certification: Date is midnight
// in the driver's home-terminal time zone, and [Start, End) are the matching
// instants bounding the day's events.
type DayWindow struct {
	Date  time.Time
	Start time.Time
	End   time.Time
}

// pgDailyLogRepo is the Postgres implementation of DailyLogRepo.
type pgDailyLogRepo struct {
	db db
}

// NewDailyLogRepo constructs a DailyLogRepo backed by the provided db connection.
func NewDailyLogRepo(db db) DailyLogRepo {
	return &pgDailyLogRepo{db: db}
}

func dateArg(date time.Time) pgtype.Date {
	return pgtype.Date{Time: date, Valid: true}
}

// Get returns the certification record for one day.
func (r *pgDailyLogRepo) Get(ctx context.Context, driverID uuid.UUID, date time.Time) (domain.DailyLog, error) {
	const q = `
		SELECT ` + dailyLogColumns + `
		FROM daily_logs
		WHERE driver_id = @driver_id AND log_date = @log_date`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"driver_id": driverID, "log_date": dateArg(date)})
	result, err := scanDailyLog(row)
	if err != nil {
		return domain.DailyLog{}, fmt.Errorf("repo.DailyLogRepo.Get: %w", err)
	}
	return result, nil
}

// IsCertified reports whether a certified record exists for the day.
func (r *pgDailyLogRepo) IsCertified(ctx context.Context, driverID uuid.UUID, date time.Time) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM daily_logs
			WHERE driver_id = @driver_id AND log_date = @log_date AND is_certified
		)`

	var certified bool
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"driver_id": driverID, "log_date": dateArg(date)}).Scan(&certified)
	if err != nil {
		return false, fmt.Errorf("repo.DailyLogRepo.IsCertified: %w", err)
	}
	return certified, nil
}

// Certify flips the day's events and upserts the daily-log row in one
// transaction so no observer ever sees a partially certified day.
func (r *pgDailyLogRepo) Certify(ctx context.Context, driverID uuid.UUID, day DayWindow,
	certifiedBy, signature string, now time.Time,
) (domain.DailyLog, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.DailyLog{}, fmt.Errorf("repo.DailyLogRepo.Certify: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	result, err := certifyInTx(ctx, tx, driverID, day, certifiedBy, signature, now)
	if err != nil {
		return domain.DailyLog{}, fmt.Errorf("repo.DailyLogRepo.Certify: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.DailyLog{}, fmt.Errorf("repo.DailyLogRepo.Certify: commit: %w", err)
	}
	return result, nil
}

// CertifyMany certifies a batch of days inside a single transaction.
func (r *pgDailyLogRepo) CertifyMany(ctx context.Context, driverID uuid.UUID, days []DayWindow,
	certifiedBy, signature string, now time.Time,
) error {
	if len(days) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.DailyLogRepo.CertifyMany: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	for _, day := range days {
		if _, err := certifyInTx(ctx, tx, driverID, day, certifiedBy, signature, now); err != nil {
			return fmt.Errorf("repo.DailyLogRepo.CertifyMany: day %s: %w", day.Date.Format("2006-01-02"), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.DailyLogRepo.CertifyMany: commit: %w", err)
	}
	return nil
}

// certifyInTx performs the certification writes for one day on the given
// transaction: reject if already certified, flag the day's events, upsert the
// daily-log row.
func certifyInTx(ctx context.Context, tx pgx.Tx, driverID uuid.UUID, day DayWindow,
	certifiedBy, signature string, now time.Time,
) (domain.DailyLog, error) {
	const checkQ = `
		SELECT is_certified FROM daily_logs
		WHERE driver_id = @driver_id AND log_date = @log_date
		FOR UPDATE`

	var already bool
	err := tx.QueryRow(ctx, checkQ, pgx.NamedArgs{"driver_id": driverID, "log_date": dateArg(day.Date)}).Scan(&already)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return domain.DailyLog{}, fmt.Errorf("check: %w", err)
	}
	if already {
		return domain.DailyLog{}, domain.ErrAlreadyCertified
	}

	const eventsQ = `
		UPDATE status_events
		SET certified = true
		WHERE driver_id = @driver_id
		  AND start_time >= @day_start
		  AND start_time < @day_end`

	if _, err := tx.Exec(ctx, eventsQ, pgx.NamedArgs{
		"driver_id": driverID,
		"day_start": day.Start,
		"day_end":   day.End,
	}); err != nil {
		return domain.DailyLog{}, fmt.Errorf("events: %w", err)
	}

	const upsertQ = `
		INSERT INTO daily_logs
			(driver_id, log_date, is_certified, certified_by, certified_at, certification_signature)
		VALUES
			(@driver_id, @log_date, true, @certified_by, @certified_at, @signature)
		ON CONFLICT (driver_id, log_date) DO UPDATE
		SET is_certified            = true,
		    certified_by            = EXCLUDED.certified_by,
		    certified_at            = EXCLUDED.certified_at,
		    certification_signature = EXCLUDED.certification_signature,
		    updated_at              = now()
		RETURNING ` + dailyLogColumns

	row := tx.QueryRow(ctx, upsertQ, pgx.NamedArgs{
		"driver_id":    driverID,
		"log_date":     dateArg(day.Date),
		"certified_by": certifiedBy,
		"certified_at": now,
		"signature":    signature,
	})
	result, err := scanDailyLog(row)
	if err != nil {
		return domain.DailyLog{}, fmt.Errorf("upsert: %w", err)
	}
	return result, nil
}

// Uncertify clears the day's certification and event flags atomically.
func (r *pgDailyLogRepo) Uncertify(ctx context.Context, driverID uuid.UUID, day DayWindow) (domain.DailyLog, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.DailyLog{}, fmt.Errorf("repo.DailyLogRepo.Uncertify: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	const logQ = `
		UPDATE daily_logs
		SET is_certified            = false,
		    certified_by            = '',
		    certified_at            = NULL,
		    certification_signature = '',
		    updated_at              = now()
		WHERE driver_id = @driver_id AND log_date = @log_date AND is_certified
		RETURNING ` + dailyLogColumns

	row := tx.QueryRow(ctx, logQ, pgx.NamedArgs{"driver_id": driverID, "log_date": dateArg(day.Date)})
	result, err := scanDailyLog(row)
	if err != nil {
		return domain.DailyLog{}, fmt.Errorf("repo.DailyLogRepo.Uncertify: %w", err)
	}

	const eventsQ = `
		UPDATE status_events
		SET certified = false
		WHERE driver_id = @driver_id
		  AND start_time >= @day_start
		  AND start_time < @day_end`

	if _, err := tx.Exec(ctx, eventsQ, pgx.NamedArgs{
		"driver_id": driverID,
		"day_start": day.Start,
		"day_end":   day.End,
	}); err != nil {
		return domain.DailyLog{}, fmt.Errorf("repo.DailyLogRepo.Uncertify: events: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.DailyLog{}, fmt.Errorf("repo.DailyLogRepo.Uncertify: commit: %w", err)
	}
	return result, nil
}

// OutstandingDays finds uncertified days with events, strictly before today.
// The day of each event is derived in SQL from the home-terminal time zone so
// the grouping matches what certification will later freeze.
func (r *pgDailyLogRepo) OutstandingDays(ctx context.Context, driverID uuid.UUID, tz string, today time.Time) ([]time.Time, error) {
	const q = `
		SELECT DISTINCT (e.start_time AT TIME ZONE @tz)::date AS log_day
		FROM status_events e
		WHERE e.driver_id = @driver_id
		  AND (e.start_time AT TIME ZONE @tz)::date < (@today AT TIME ZONE @tz)::date
		  AND NOT EXISTS (
			SELECT 1 FROM daily_logs l
			WHERE l.driver_id = e.driver_id
			  AND l.log_date = (e.start_time AT TIME ZONE @tz)::date
			  AND l.is_certified
		  )
		ORDER BY log_day`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"driver_id": driverID, "tz": tz, "today": today})
	if err != nil {
		return nil, fmt.Errorf("repo.DailyLogRepo.OutstandingDays: %w", err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var d pgtype.Date
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("repo.DailyLogRepo.OutstandingDays: scan: %w", err)
		}
		days = append(days, d.Time)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DailyLogRepo.OutstandingDays: rows: %w", err)
	}
	return days, nil
}

// scanDailyLog maps a daily_logs row into a domain.DailyLog (without events;
// the service layer attaches those).
func scanDailyLog(s scanner) (domain.DailyLog, error) {
	var (
		l           domain.DailyLog
		id          pgtype.UUID
		drv         pgtype.UUID
		logDate     pgtype.Date
		certifiedAt pgtype.Timestamptz
	)

	err := s.Scan(&id, &drv, &logDate, &l.IsCertified, &l.CertifiedBy, &certifiedAt, &l.CertificationSignature)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DailyLog{}, domain.ErrNotFound
		}
		return domain.DailyLog{}, err
	}

	l.ID = uuid.UUID(id.Bytes)
	l.DriverID = uuid.UUID(drv.Bytes)
	l.Date = logDate.Time
	if certifiedAt.Valid {
		ca := certifiedAt.Time
		l.CertifiedAt = &ca
	}
	return l, nil
}
