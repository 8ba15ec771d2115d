package accounts

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/verisage-dev/verisage/internal/model"
)

const (
	numFields = 4
	colField  = 0
	colAcct   = 1
	colDesc   = 2
	colDebit  = 3
)

// Header is the CSV header for account-map.csv.
var Header = []string{"field", "account", "description", "is_debit"}

// ReadMappings reads account-map.csv.
func ReadMappings(r io.Reader) ([]model.AccountMapping, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading account map CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var mappings []model.AccountMapping
	for i, rec := range records[1:] {
		m, err := UnmarshalMapping(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		mappings = append(mappings, m)
	}
	return mappings, nil
}

// WriteMappings writes account-map.csv.
func WriteMappings(w io.Writer, mappings []model.AccountMapping) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, m := range mappings {
		if err := cw.Write(MarshalMapping(m)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalMapping converts a mapping to a CSV row.
func MarshalMapping(m model.AccountMapping) []string {
	row := make([]string, numFields)
	row[colField] = m.Field
	row[colAcct] = m.Account
	row[colDesc] = m.Description
	row[colDebit] = string(m.Side)
	return row
}

// UnmarshalMapping converts a CSV row to a mapping.
func UnmarshalMapping(record []string) (model.AccountMapping, error) {
	if len(record) != numFields {
		return model.AccountMapping{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	if record[colField] == "" {
		return model.AccountMapping{}, fmt.Errorf("empty field name")
	}
	if record[colAcct] == "" {
		return model.AccountMapping{}, fmt.Errorf("field %q has no account", record[colField])
	}

	side := model.Side(record[colDebit])
	if !side.Valid() {
		return model.AccountMapping{}, fmt.Errorf("parsing is_debit %q: want Y or N", record[colDebit])
	}

	return model.AccountMapping{
		Field:       record[colField],
		Account:     record[colAcct],
		Description: record[colDesc],
		Side:        side,
	}, nil
}
