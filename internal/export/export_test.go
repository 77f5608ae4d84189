package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/pixelcraft/manager/internal/projects"
)

func sampleHistory() []projects.Record {
	return []projects.Record{
		{
			Handle: "h2", DisplayID: 2, Name: "Maceta", Material: "ABS/ASA",
			WeightGrams: 250, FilamentPricePerKg: 25, TotalHours: 5.5, UsesDryingAssist: true,
			EnergyRatePerKWh: 120, MarginPercent: 40,
			EnergyCost: 170, MaterialCost: 6.25, ProductionCost: 176.25, SalePrice: 246.75,
		},
		{
			Handle: "h1", DisplayID: 1, Name: "Llavero", Material: "PLA/PETG",
			WeightGrams: 12, FilamentPricePerKg: 20, TotalHours: 0.5,
			EnergyRatePerKWh: 120, MarginPercent: 50,
			EnergyCost: 10.086, MaterialCost: 0.24, ProductionCost: 10.326, SalePrice: 15.489,
		},
	}
}

func TestHistoryXLSX_WritesHeaderAndRows(t *testing.T) {
	data, err := HistoryXLSX(sampleHistory())
	if err != nil {
		t.Fatalf("HistoryXLSX returned error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	header, err := f.GetCellValue(historySheet, "A1")
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if header != "Proyecto" {
		t.Fatalf("unexpected header cell: %q", header)
	}

	name, err := f.GetCellValue(historySheet, "A2")
	if err != nil {
		t.Fatalf("read first row: %v", err)
	}
	if name != "Maceta" {
		t.Fatalf("expected newest record first, got %q", name)
	}

	rows, err := f.GetRows(historySheet)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
}

func TestHistoryXLSX_EmptyHistory(t *testing.T) {
	data, err := HistoryXLSX(nil)
	if err != nil {
		t.Fatalf("HistoryXLSX returned error: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty workbook")
	}
}

func TestHistoryPDF_ProducesDocument(t *testing.T) {
	data, err := HistoryPDF(sampleHistory())
	if err != nil {
		t.Fatalf("HistoryPDF returned error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF: %q", data[:min(len(data), 8)])
	}
}
