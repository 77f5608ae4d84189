// Package projects holds the shared, live-synchronized history of saved
// calculations. Every write is a whole-record replacement and every
// subscriber observes the full collection, newest first, after each change.
package projects

import (
	"context"
	"log"
)

// Record is one saved calculation in the shared history.
//
// Handle is the store-assigned opaque identifier used for update/delete.
// DisplayID is the client-generated creation-ordered number used only for
// display ordering; the two are independent.
type Record struct {
	Handle             string  `json:"handle"`
	DisplayID          int64   `json:"id"`
	Name               string  `json:"name"`
	Material           string  `json:"material"`
	WeightGrams        float64 `json:"weightGrams"`
	FilamentPricePerKg float64 `json:"filamentPricePerKg"`
	TotalHours         float64 `json:"totalHours"`
	UsesDryingAssist   bool    `json:"usesDryingAssist"`
	EnergyRatePerKWh   float64 `json:"energyRatePerKWh"`
	MarginPercent      float64 `json:"marginPercent"`
	EnergyCost         float64 `json:"energyCost"`
	MaterialCost       float64 `json:"materialCost"`
	ProductionCost     float64 `json:"productionCost"`
	SalePrice          float64 `json:"salePrice"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

// Store is the shared project collection. Implementations are multi-writer
// with last-write-wins semantics and no client-side locking.
type Store interface {
	// Subscribe registers fn to receive the full ordered snapshot, newest
	// first, immediately and after every subsequent change by any writer,
	// including this one. The returned function tears the subscription down
	// and is safe to call more than once.
	Subscribe(fn func([]Record)) (unsubscribe func())

	// Create appends a new record and returns its store-assigned handle.
	Create(ctx context.Context, rec Record) (string, error)

	// Update replaces every field of the record behind handle. A handle that
	// no longer exists is not an error; the write is simply lost (best effort).
	Update(ctx context.Context, handle string, rec Record) error

	// Delete removes one record.
	Delete(ctx context.Context, handle string) error

	// List returns a one-shot ordered snapshot of the collection.
	List(ctx context.Context) ([]Record, error)
}

// DeleteAll removes every record in recs, one independent delete per handle,
// and returns how many succeeded. The batch is not atomic: deletes already
// applied are never rolled back when a later one fails, and a record created
// concurrently by another writer survives the sweep.
func DeleteAll(ctx context.Context, s Store, recs []Record) int {
	deleted := 0
	for _, rec := range recs {
		if err := s.Delete(ctx, rec.Handle); err != nil {
			log.Printf("delete project %s: %v", rec.Handle, err)
			continue
		}
		deleted++
	}
	return deleted
}
