package settings

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func newSettingsTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}

	_, err = db.Exec(`
		CREATE TABLE settings (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			energy_rate_per_kwh REAL NOT NULL,
			margin_percent REAL NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		t.Fatalf("failed creating settings table: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func TestGet_SeedsDefaultsOnFirstRead(t *testing.T) {
	svc := NewService(newSettingsTestDB(t))

	prefs, err := svc.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if prefs.EnergyRatePerKWh != DefaultEnergyRatePerKWh || prefs.MarginPercent != DefaultMarginPercent {
		t.Fatalf("expected defaults %v/%v, got %+v", DefaultEnergyRatePerKWh, DefaultMarginPercent, prefs)
	}
}

func TestUpdate_PersistsNewValues(t *testing.T) {
	svc := NewService(newSettingsTestDB(t))

	if err := svc.Update(Preferences{EnergyRatePerKWh: 185.5, MarginPercent: 35}); err != nil {
		t.Fatalf("update: %v", err)
	}

	prefs, err := svc.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if prefs.EnergyRatePerKWh != 185.5 || prefs.MarginPercent != 35 {
		t.Fatalf("unexpected preferences after update: %+v", prefs)
	}
}

func TestEnsure_DoesNotOverwriteExistingValues(t *testing.T) {
	svc := NewService(newSettingsTestDB(t))

	if err := svc.Update(Preferences{EnergyRatePerKWh: 99, MarginPercent: 10}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := svc.Ensure(); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	prefs, err := svc.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if prefs.EnergyRatePerKWh != 99 || prefs.MarginPercent != 10 {
		t.Fatalf("ensure overwrote stored preferences: %+v", prefs)
	}
}
