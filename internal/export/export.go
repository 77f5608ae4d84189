// Package export renders the project history as downloadable documents.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/pixelcraft/manager/internal/projects"
)

const historySheet = "historial"

var historyColumns = []string{
	"Proyecto", "Material", "Gramos", "$/Kg", "Horas", "Secado",
	"Costo energía", "Costo material", "Costo producción", "Margen %", "Precio venta",
}

// HistoryXLSX renders the history, newest first, as a spreadsheet.
func HistoryXLSX(records []projects.Record) ([]byte, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", historySheet)

	for i, column := range historyColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		_ = f.SetCellValue(historySheet, cell, column)
	}

	for i, rec := range records {
		row := i + 2
		_ = f.SetCellValue(historySheet, fmt.Sprintf("A%d", row), rec.Name)
		_ = f.SetCellValue(historySheet, fmt.Sprintf("B%d", row), rec.Material)
		_ = f.SetCellValue(historySheet, fmt.Sprintf("C%d", row), rec.WeightGrams)
		_ = f.SetCellValue(historySheet, fmt.Sprintf("D%d", row), rec.FilamentPricePerKg)
		_ = f.SetCellValue(historySheet, fmt.Sprintf("E%d", row), rec.TotalHours)
		_ = f.SetCellValue(historySheet, fmt.Sprintf("F%d", row), yesNo(rec.UsesDryingAssist))
		_ = f.SetCellValue(historySheet, fmt.Sprintf("G%d", row), rec.EnergyCost)
		_ = f.SetCellValue(historySheet, fmt.Sprintf("H%d", row), rec.MaterialCost)
		_ = f.SetCellValue(historySheet, fmt.Sprintf("I%d", row), rec.ProductionCost)
		_ = f.SetCellValue(historySheet, fmt.Sprintf("J%d", row), rec.MarginPercent)
		_ = f.SetCellValue(historySheet, fmt.Sprintf("K%d", row), rec.SalePrice)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// HistoryPDF renders the history, newest first, as a printable table.
func HistoryPDF(records []projects.Record) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Historial de proyectos")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Generado: %s", time.Now().Format(time.RFC3339)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(60, 6, "Proyecto", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, "Material", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Gramos", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Horas", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Costo producción", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Margen %", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Precio venta", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, rec := range records {
		pdf.CellFormat(60, 6, rec.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, rec.Material, "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%.1f", rec.WeightGrams), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%.2f", rec.TotalHours), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", rec.ProductionCost), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%.0f", rec.MarginPercent), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", rec.SalePrice), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}
