package pricing

import (
	"sync/atomic"
	"time"
)

// DefaultName is assigned to projects submitted without a name.
const DefaultName = "Sin Nombre"

const (
	// Fixed pre-heat allowance charged to every job regardless of duration.
	preheatWatts = 350.0
	preheatHours = 0.083

	// Extra draw of the filament dryer when drying-assist is enabled.
	dryerWatts = 65.0

	defaultMaterialWatts = 110.0
)

// materialWatts maps a material key to the printer's average power draw.
// Unknown materials fall back to the PLA/PETG profile.
var materialWatts = map[string]float64{
	"PLA/PETG": 110,
	"ABS/ASA":  190,
}

// Input represents the parameters of a single print job quote.
type Input struct {
	Name               string
	Material           string
	WeightGrams        float64
	FilamentPricePerKg float64
	TotalHours         float64
	UsesDryingAssist   bool
	EnergyRatePerKWh   float64
	MarginPercent      float64
}

// Breakdown contains the cost components of a quote.
type Breakdown struct {
	EnergyCost   float64
	MaterialCost float64
}

// Result groups the full quote output: display id, totals and breakdown.
type Result struct {
	ID             int64
	Name           string
	ProductionCost float64
	SalePrice      float64
	MarginPercent  float64
	Breakdown      Breakdown
}

// MaterialWatts returns the average power draw for a material key.
func MaterialWatts(material string) float64 {
	if watts, ok := materialWatts[material]; ok {
		return watts
	}
	return defaultMaterialWatts
}

// EffectiveWatts returns the average job wattage including the dryer when enabled.
func EffectiveWatts(material string, usesDryingAssist bool) float64 {
	watts := MaterialWatts(material)
	if usesDryingAssist {
		watts += dryerWatts
	}
	return watts
}

// Hours combines separately entered hour and minute fields into decimal hours.
func Hours(hours, minutes float64) float64 {
	return hours + minutes/60
}

// Quote computes the production cost and sale price of a print job.
// Zero-valued fields flow through the formula unchanged; callers are expected
// to coerce missing or unparsable numbers to zero before calling.
func Quote(in Input) Result {
	energyKWh := (preheatWatts*preheatHours + EffectiveWatts(in.Material, in.UsesDryingAssist)*in.TotalHours) / 1000
	energyCost := energyKWh * in.EnergyRatePerKWh
	materialCost := in.WeightGrams * in.FilamentPricePerKg / 1000

	productionCost := materialCost + energyCost
	netMargin := productionCost * (in.MarginPercent / 100)

	name := in.Name
	if name == "" {
		name = DefaultName
	}

	return Result{
		ID:             NextID(),
		Name:           name,
		ProductionCost: productionCost,
		SalePrice:      productionCost + netMargin,
		MarginPercent:  in.MarginPercent,
		Breakdown: Breakdown{
			EnergyCost:   energyCost,
			MaterialCost: materialCost,
		},
	}
}

var lastID atomic.Int64

// NextID returns a creation-ordered display identifier. It is derived from
// wall-clock milliseconds and bumped past the previous value, so two quotes
// issued within the same tick still get distinct, increasing ids.
func NextID() int64 {
	for {
		last := lastID.Load()
		id := time.Now().UnixMilli()
		if id <= last {
			id = last + 1
		}
		if lastID.CompareAndSwap(last, id) {
			return id
		}
	}
}
