// Package settings stores per-installation display preferences. They live in
// the local database, never travel with project records, and are not
// synchronized between installations.
package settings

import (
	"database/sql"
	"errors"
	"fmt"
)

// Fallback values applied when an installation has no stored preferences yet.
const (
	DefaultEnergyRatePerKWh = 120.0
	DefaultMarginPercent    = 50.0
)

// Preferences holds the two local scalars: the electricity rate and the
// default margin applied to new quotes.
type Preferences struct {
	EnergyRatePerKWh float64 `json:"energyRatePerKWh"`
	MarginPercent    float64 `json:"marginPercent"`
}

// Service reads and writes the preferences singleton row.
type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Ensure inserts the fallback defaults if no preferences row exists yet.
func (s *Service) Ensure() error {
	_, err := s.db.Exec(`
		INSERT INTO settings (id, energy_rate_per_kwh, margin_percent)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, DefaultEnergyRatePerKWh, DefaultMarginPercent)
	if err != nil {
		return fmt.Errorf("insert default settings: %w", err)
	}
	return nil
}

// Get returns the stored preferences, seeding defaults first if needed.
func (s *Service) Get() (Preferences, error) {
	if err := s.Ensure(); err != nil {
		return Preferences{}, err
	}

	var prefs Preferences
	err := s.db.QueryRow(`
		SELECT energy_rate_per_kwh, margin_percent
		FROM settings
		WHERE id = 1
	`).Scan(&prefs.EnergyRatePerKWh, &prefs.MarginPercent)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Preferences{}, fmt.Errorf("settings singleton not found")
		}
		return Preferences{}, fmt.Errorf("query settings: %w", err)
	}
	return prefs, nil
}

// Update overwrites the stored preferences.
func (s *Service) Update(prefs Preferences) error {
	if err := s.Ensure(); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		UPDATE settings
		SET
			energy_rate_per_kwh = ?,
			margin_percent = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = 1
	`, prefs.EnergyRatePerKWh, prefs.MarginPercent)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}
