package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/verisage-dev/verisage/internal/model"
)

// CSVParser reads forms from a CSV export: a header row of field names and
// one form per row. Column order becomes amount order.
type CSVParser struct{}

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Extension returns the file extension the parser handles.
func (p *CSVParser) Extension() string { return ".csv" }

// Parse reads a CSV export and returns its forms.
func (p *CSVParser) Parse(r io.Reader) ([]model.Form, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading form CSV: %w", err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return rowsToForms(records)
}
