package report

import (
	"fmt"

	"compliance_notifier/internal/app"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Skipped Vendors"

// ExcelSkipLogWriter exports the run's skip log as a two-column workbook:
// a header row plus one row per logged skip.
type ExcelSkipLogWriter struct {
	path string
}

func NewExcelSkipLogWriter(path string) *ExcelSkipLogWriter {
	return &ExcelSkipLogWriter{path: path}
}

func (w *ExcelSkipLogWriter) WriteSkipLog(entries []app.SkipEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("error creating skip-log sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("error removing default sheet: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &[]string{"VENDOR_ID", "REASON"}); err != nil {
		return fmt.Errorf("error writing skip-log header: %w", err)
	}
	for i, e := range entries {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetName, cell, &[]string{e.VendorID, e.Reason}); err != nil {
			return fmt.Errorf("error writing skip-log row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("error saving skip log to %s: %w", w.path, err)
	}
	return nil
}
