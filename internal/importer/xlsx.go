package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/verisage-dev/verisage/internal/model"
)

// XLSXParser reads forms from the first sheet of an Excel workbook laid out
// like the CSV export.
type XLSXParser struct {
	// Sheet overrides the sheet to read.
	Sheet string
}

// Format returns the parser name.
func (p *XLSXParser) Format() string { return "xlsx" }

// Extension returns the file extension the parser handles.
func (p *XLSXParser) Extension() string { return ".xlsx" }

// Parse reads a workbook and returns its forms.
func (p *XLSXParser) Parse(r io.Reader) ([]model.Form, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := p.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	// Raw values: a cell formatted as #,##0 would otherwise read "45,400".
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return rowsToForms(rows)
}
