package projects

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// SQLiteStore persists the shared collection in SQLite and notifies live
// subscribers with a fresh ordered snapshot after every committed write.
type SQLiteStore struct {
	db   *sql.DB
	feed *feed
}

// NewSQLiteStore wraps an open database. The projects table must already
// exist (see migrations).
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, feed: newFeed()}
}

func (s *SQLiteStore) Subscribe(fn func([]Record)) func() {
	unsubscribe := s.feed.subscribe(fn)

	snapshot, err := s.List(context.Background())
	if err != nil {
		log.Printf("initial project snapshot: %v", err)
		snapshot = []Record{}
	}
	fn(snapshot)

	return unsubscribe
}

func (s *SQLiteStore) Create(ctx context.Context, rec Record) (string, error) {
	handle := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (
			handle, display_id, name, material,
			weight_grams, filament_price_per_kg, total_hours, uses_drying_assist,
			energy_rate_per_kwh, margin_percent,
			energy_cost, material_cost, production_cost, sale_price
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		handle, rec.DisplayID, rec.Name, rec.Material,
		rec.WeightGrams, rec.FilamentPricePerKg, rec.TotalHours, rec.UsesDryingAssist,
		rec.EnergyRatePerKWh, rec.MarginPercent,
		rec.EnergyCost, rec.MaterialCost, rec.ProductionCost, rec.SalePrice,
	)
	if err != nil {
		return "", fmt.Errorf("insert project: %w", err)
	}

	s.notify(ctx)
	return handle, nil
}

func (s *SQLiteStore) Update(ctx context.Context, handle string, rec Record) error {
	// Zero rows affected means the record vanished under us; the store is
	// last-write-wins and the caller treats the write as best effort.
	_, err := s.db.ExecContext(ctx, `
		UPDATE projects
		SET
			display_id = ?,
			name = ?,
			material = ?,
			weight_grams = ?,
			filament_price_per_kg = ?,
			total_hours = ?,
			uses_drying_assist = ?,
			energy_rate_per_kwh = ?,
			margin_percent = ?,
			energy_cost = ?,
			material_cost = ?,
			production_cost = ?,
			sale_price = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE handle = ?
	`,
		rec.DisplayID, rec.Name, rec.Material,
		rec.WeightGrams, rec.FilamentPricePerKg, rec.TotalHours, rec.UsesDryingAssist,
		rec.EnergyRatePerKWh, rec.MarginPercent,
		rec.EnergyCost, rec.MaterialCost, rec.ProductionCost, rec.SalePrice,
		handle,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}

	s.notify(ctx)
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, handle string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE handle = ?`, handle)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	s.notify(ctx)
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			handle, display_id, name, material,
			weight_grams, filament_price_per_kg, total_hours, uses_drying_assist,
			energy_rate_per_kwh, margin_percent,
			energy_cost, material_cost, production_cost, sale_price,
			created_at, updated_at
		FROM projects
		ORDER BY display_id DESC, handle
	`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.Handle, &rec.DisplayID, &rec.Name, &rec.Material,
			&rec.WeightGrams, &rec.FilamentPricePerKg, &rec.TotalHours, &rec.UsesDryingAssist,
			&rec.EnergyRatePerKWh, &rec.MarginPercent,
			&rec.EnergyCost, &rec.MaterialCost, &rec.ProductionCost, &rec.SalePrice,
			&rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}

	return records, nil
}

func (s *SQLiteStore) notify(ctx context.Context) {
	snapshot, err := s.List(ctx)
	if err != nil {
		log.Printf("project snapshot after write: %v", err)
		return
	}
	s.feed.publish(snapshot)
}
