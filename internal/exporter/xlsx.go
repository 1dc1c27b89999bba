package exporter

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/shanawarAnsari/intelliplan-sub001/internal/runrate"
)

// SheetName is the worksheet that holds the exported view.
const SheetName = "Run Rate"

// ExportXLSX writes the same cells as BuildCSV into a workbook. Bare numbers
// are stored as numbers; formatted values are stored as text.
func ExportXLSX(cols []runrate.ColumnSpec, snap runrate.Snapshot, inputs runrate.UserInputs) ([]byte, error) {
	t, err := BuildTable(cols, snap, inputs)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for j, label := range t.Header {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(SheetName, cell, label); err != nil {
			return nil, fmt.Errorf("failed to write header %q: %w", label, err)
		}
		if err := f.SetCellStyle(SheetName, cell, cell, bold); err != nil {
			return nil, fmt.Errorf("failed to style header: %w", err)
		}
		if cols[j].MinWidth > 0 {
			col, _ := excelize.ColumnNumberToName(j + 1)
			// MinWidth is in pixels; excelize widths are in characters.
			if err := f.SetColWidth(SheetName, col, col, float64(cols[j].MinWidth)/7); err != nil {
				return nil, fmt.Errorf("failed to size column %s: %w", col, err)
			}
		}
	}

	for i, row := range t.Rows {
		for j, c := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, err
			}
			var v any = c.Text
			if c.Num != nil {
				v = *c.Num
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}
