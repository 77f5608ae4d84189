package pricing

import (
	"math"
	"testing"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestQuote_PLAWithMargin(t *testing.T) {
	result := Quote(Input{
		Name:               "Soporte celular",
		Material:           "PLA/PETG",
		WeightGrams:        100,
		FilamentPricePerKg: 20,
		TotalHours:         2,
		UsesDryingAssist:   false,
		EnergyRatePerKWh:   120,
		MarginPercent:      50,
	})

	nearlyEqual(t, "materialCost", result.Breakdown.MaterialCost, 2.0)
	nearlyEqual(t, "energyCost", result.Breakdown.EnergyCost, (350*0.083+110*2)/1000*120)
	nearlyEqual(t, "productionCost", result.ProductionCost, 31.886)
	nearlyEqual(t, "salePrice", result.SalePrice, 47.829)
	nearlyEqual(t, "marginPercent", result.MarginPercent, 50)
}

func TestQuote_ZeroMarginSellsAtCost(t *testing.T) {
	result := Quote(Input{
		Material:           "PLA/PETG",
		WeightGrams:        100,
		FilamentPricePerKg: 20,
		TotalHours:         2,
		EnergyRatePerKWh:   120,
		MarginPercent:      0,
	})

	if result.SalePrice != result.ProductionCost {
		t.Fatalf("salePrice = %v, want exactly productionCost %v", result.SalePrice, result.ProductionCost)
	}
}

func TestQuote_NegativeMarginSellsBelowCost(t *testing.T) {
	result := Quote(Input{
		Material:           "PLA/PETG",
		WeightGrams:        500,
		FilamentPricePerKg: 18,
		TotalHours:         3,
		EnergyRatePerKWh:   95,
		MarginPercent:      -10,
	})

	if result.SalePrice >= result.ProductionCost {
		t.Fatalf("salePrice = %v, want below productionCost %v", result.SalePrice, result.ProductionCost)
	}
	nearlyEqual(t, "salePrice", result.SalePrice, result.ProductionCost*0.9)
}

func TestQuote_DryingAssistAddsFixedWatts(t *testing.T) {
	base := Input{
		Material:         "ABS/ASA",
		TotalHours:       4,
		EnergyRatePerKWh: 100,
	}
	withDryer := base
	withDryer.UsesDryingAssist = true

	nearlyEqual(t, "effective watts", EffectiveWatts("ABS/ASA", true), 255)

	wantEnergy := (350*0.083 + 255*4) / 1000 * 100
	nearlyEqual(t, "energyCost with dryer", Quote(withDryer).Breakdown.EnergyCost, wantEnergy)

	delta := Quote(withDryer).Breakdown.EnergyCost - Quote(base).Breakdown.EnergyCost
	nearlyEqual(t, "dryer delta", delta, 65*4.0/1000*100)
}

func TestMaterialWatts_UnknownFallsBackToDefault(t *testing.T) {
	nearlyEqual(t, "PLA/PETG", MaterialWatts("PLA/PETG"), 110)
	nearlyEqual(t, "ABS/ASA", MaterialWatts("ABS/ASA"), 190)
	nearlyEqual(t, "unknown", MaterialWatts("TPU"), 110)
	nearlyEqual(t, "empty", MaterialWatts(""), 110)
}

func TestQuote_ProductionCostIsSumOfComponents(t *testing.T) {
	inputs := []Input{
		{Material: "PLA/PETG", WeightGrams: 100, FilamentPricePerKg: 20, TotalHours: 2, EnergyRatePerKWh: 120},
		{Material: "ABS/ASA", WeightGrams: 37.5, FilamentPricePerKg: 22.9, TotalHours: 0.25, EnergyRatePerKWh: 80, UsesDryingAssist: true},
		{Material: "TPU", WeightGrams: 0, FilamentPricePerKg: 0, TotalHours: 0, EnergyRatePerKWh: 0},
	}

	for _, in := range inputs {
		result := Quote(in)
		if result.Breakdown.EnergyCost < 0 || result.Breakdown.MaterialCost < 0 {
			t.Fatalf("negative cost component for %+v: %+v", in, result.Breakdown)
		}
		nearlyEqual(t, "productionCost", result.ProductionCost, result.Breakdown.MaterialCost+result.Breakdown.EnergyCost)
	}
}

func TestQuote_ZeroInputsYieldZeroCost(t *testing.T) {
	result := Quote(Input{})

	nearlyEqual(t, "materialCost", result.Breakdown.MaterialCost, 0)
	nearlyEqual(t, "energyCost", result.Breakdown.EnergyCost, 0)
	nearlyEqual(t, "productionCost", result.ProductionCost, 0)
	nearlyEqual(t, "salePrice", result.SalePrice, 0)
}

func TestQuote_EmptyNameUsesPlaceholder(t *testing.T) {
	if got := Quote(Input{}).Name; got != DefaultName {
		t.Fatalf("name = %q, want %q", got, DefaultName)
	}
	if got := Quote(Input{Name: "Llavero"}).Name; got != "Llavero" {
		t.Fatalf("name = %q, want %q", got, "Llavero")
	}
}

func TestHours_CombinesHourAndMinuteFields(t *testing.T) {
	nearlyEqual(t, "2h30m", Hours(2, 30), 2.5)
	nearlyEqual(t, "0h45m", Hours(0, 45), 0.75)
	nearlyEqual(t, "zero", Hours(0, 0), 0)
}

func TestNextID_StrictlyIncreasing(t *testing.T) {
	prev := NextID()
	for i := 0; i < 1000; i++ {
		id := NextID()
		if id <= prev {
			t.Fatalf("id %d not greater than previous %d", id, prev)
		}
		prev = id
	}
}
