package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/brdigitals4u/ttm-eld-backend/internal/domain"
	"github.com/brdigitals4u/ttm-eld-backend/internal/repo"
)

// The split-sleeper toggle cannot credit more than the drive limit itself.
const maxSplitAdditionalHours = 11

// SettingsService supplies per-driver HOS configuration with sensible
// defaults for drivers that have never stored any, and owns the
// split-sleeper toggle.
type SettingsService struct {
	repo      repo.SettingsRepo
	defaultTZ string
}

// NewSettingsService constructs a SettingsService. defaultTZ is the
// home-terminal time zone applied to drivers without stored settings.
func NewSettingsService(r repo.SettingsRepo, defaultTZ string) *SettingsService {
	return &SettingsService{repo: r, defaultTZ: defaultTZ}
}

// Get returns the driver's settings, falling back to defaults (70-hour/8-day
// cycle, configured default home-terminal zone, split sleeper off) when none
// are stored.
func (s *SettingsService) Get(ctx context.Context, driverID uuid.UUID) (domain.DriverSettings, error) {
	settings, err := s.repo.Get(ctx, driverID)
	if err != nil {
		if isNotFound(err) {
			return s.defaults(driverID), nil
		}
		return domain.DriverSettings{}, fmt.Errorf("service.SettingsService.Get: %w", err)
	}
	if !settings.CycleType.Valid() {
		settings.CycleType = domain.Cycle70Hour8Day
	}
	if settings.HomeTerminalTZ == "" {
		settings.HomeTerminalTZ = s.defaultTZ
	}
	return settings, nil
}

// SetSplitSleeper updates the driver's split-sleeper configuration, keeping
// the rest of the settings (creating them from defaults if absent).
// Returns domain.ErrValidation for additional hours outside [0, 11].
func (s *SettingsService) SetSplitSleeper(ctx context.Context, driverID uuid.UUID, enabled bool, additionalHours int) (domain.DriverSettings, error) {
	if additionalHours < 0 || additionalHours > maxSplitAdditionalHours {
		return domain.DriverSettings{}, fmt.Errorf("%w: additional_hours must be between 0 and %d",
			domain.ErrValidation, maxSplitAdditionalHours)
	}

	settings, err := s.Get(ctx, driverID)
	if err != nil {
		return domain.DriverSettings{}, err
	}
	settings.SplitSleeper = domain.SplitSleeperConfig{Enabled: enabled, AdditionalHours: additionalHours}

	updated, err := s.repo.Upsert(ctx, settings)
	if err != nil {
		return domain.DriverSettings{}, fmt.Errorf("service.SettingsService.SetSplitSleeper: %w", err)
	}
	return updated, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

func (s *SettingsService) defaults(driverID uuid.UUID) domain.DriverSettings {
	return domain.DriverSettings{
		DriverID:       driverID,
		CycleType:      domain.Cycle70Hour8Day,
		HomeTerminalTZ: s.defaultTZ,
	}
}
