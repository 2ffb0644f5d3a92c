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

const settingsColumns = `driver_id, cycle_type, home_terminal_tz,
	split_sleeper_enabled, split_sleeper_additional_hours, exemptions, updated_at`

// SettingsRepo defines persistence for per-driver HOS configuration.
// Cycle type and exemptions originate from the identity provider; the
// split-sleeper toggle and home-terminal zone are driver/carrier choices.
type SettingsRepo interface {
	// Get returns the driver's settings.
	// Returns domain.ErrNotFound for drivers with no stored settings;
	// the service falls back to defaults in that case.
	Get(ctx context.Context, driverID uuid.UUID) (domain.DriverSettings, error)

	// Upsert inserts or fully replaces the driver's settings and returns the
	// persisted record.
	Upsert(ctx context.Context, settings domain.DriverSettings) (domain.DriverSettings, error)
}

// pgSettingsRepo is the Postgres implementation of SettingsRepo.
type pgSettingsRepo struct {
	db db
}

// NewSettingsRepo constructs a SettingsRepo backed by the provided db connection.
func NewSettingsRepo(db db) SettingsRepo {
	return &pgSettingsRepo{db: db}
}

// Get returns the stored settings for one driver.
func (r *pgSettingsRepo) Get(ctx context.Context, driverID uuid.UUID) (domain.DriverSettings, error) {
	const q = `
		SELECT ` + settingsColumns + `
		FROM driver_settings
		WHERE driver_id = @driver_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"driver_id": driverID})
	result, err := scanSettings(row)
	if err != nil {
		return domain.DriverSettings{}, fmt.Errorf("repo.SettingsRepo.Get: %w", err)
	}
	return result, nil
}

// Upsert writes the driver's settings, replacing any existing row.
func (r *pgSettingsRepo) Upsert(ctx context.Context, settings domain.DriverSettings) (domain.DriverSettings, error) {
	const q = `
		INSERT INTO driver_settings
			(driver_id, cycle_type, home_terminal_tz,
			 split_sleeper_enabled, split_sleeper_additional_hours, exemptions)
		VALUES
			(@driver_id, @cycle_type, @home_terminal_tz,
			 @split_enabled, @split_hours, @exemptions)
		ON CONFLICT (driver_id) DO UPDATE
		SET cycle_type                     = EXCLUDED.cycle_type,
		    home_terminal_tz               = EXCLUDED.home_terminal_tz,
		    split_sleeper_enabled          = EXCLUDED.split_sleeper_enabled,
		    split_sleeper_additional_hours = EXCLUDED.split_sleeper_additional_hours,
		    exemptions                     = EXCLUDED.exemptions,
		    updated_at                     = now()
		RETURNING ` + settingsColumns

	exemptions := make([]string, len(settings.Exemptions))
	for i, e := range settings.Exemptions {
		exemptions[i] = string(e)
	}

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"driver_id":        settings.DriverID,
		"cycle_type":       string(settings.CycleType),
		"home_terminal_tz": settings.HomeTerminalTZ,
		"split_enabled":    settings.SplitSleeper.Enabled,
		"split_hours":      settings.SplitSleeper.AdditionalHours,
		"exemptions":       exemptions,
	})
	result, err := scanSettings(row)
	if err != nil {
		return domain.DriverSettings{}, fmt.Errorf("repo.SettingsRepo.Upsert: %w", err)
	}
	return result, nil
}

// scanSettings maps a driver_settings row into a domain.DriverSettings.
func scanSettings(s scanner) (domain.DriverSettings, error) {
	var (
		out        domain.DriverSettings
		drv        pgtype.UUID
		cycle      string
		exemptions []string
	)

	err := s.Scan(&drv, &cycle, &out.HomeTerminalTZ,
		&out.SplitSleeper.Enabled, &out.SplitSleeper.AdditionalHours, &exemptions, &out.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DriverSettings{}, domain.ErrNotFound
		}
		return domain.DriverSettings{}, err
	}

	out.DriverID = uuid.UUID(drv.Bytes)
	out.CycleType = domain.CycleType(cycle)
	for _, e := range exemptions {
		out.Exemptions = append(out.Exemptions, domain.ExemptionFlag(e))
	}
	return out, nil
}
