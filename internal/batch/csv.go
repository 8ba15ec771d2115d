package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/verisage-dev/verisage/internal/model"
	"github.com/verisage-dev/verisage/internal/txdate"
)

// Header is the first line of every batch file.
const Header = "TxDate,Description,Reference,Amount,UseTax,TaxType,TaxAccount,TaxAmount,Project,Account,IsDebit"

const (
	numFields     = 11
	colTxDate     = 0
	colDesc       = 1
	colRef        = 2
	colAmount     = 3
	colUseTax     = 4
	colTaxType    = 5
	colTaxAccount = 6
	colTaxAmount  = 7
	colProject    = 8
	colAccount    = 9
	colIsDebit    = 10

	// Tax is not modelled; every row carries the same neutral tax columns.
	useTax  = "N"
	taxType = "0"
)

// WriteRows writes the header followed by rows.
func WriteRows(w io.Writer, rows []model.LedgerRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(MarshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadRows reads a batch file written by WriteRows.
func ReadRows(r io.Reader) ([]model.LedgerRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading batch CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	if got := strings.Join(records[0], ","); got != Header {
		return nil, fmt.Errorf("unexpected header %q", got)
	}

	var rows []model.LedgerRow
	for i, rec := range records[1:] {
		row, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MarshalRow converts a ledger row to a CSV record.
func MarshalRow(row model.LedgerRow) []string {
	rec := make([]string, numFields)
	rec[colTxDate] = txdate.Format(row.Date)
	rec[colDesc] = row.Description
	rec[colRef] = row.Reference
	rec[colAmount] = row.Amount.String()
	rec[colUseTax] = useTax
	rec[colTaxType] = taxType
	rec[colProject] = row.Project
	rec[colAccount] = row.Account
	rec[colIsDebit] = string(row.Side)
	return rec
}

// UnmarshalRow converts a CSV record to a ledger row.
func UnmarshalRow(rec []string) (model.LedgerRow, error) {
	if len(rec) != numFields {
		return model.LedgerRow{}, fmt.Errorf("expected %d fields, got %d", numFields, len(rec))
	}

	date, err := txdate.Parse(rec[colTxDate])
	if err != nil {
		return model.LedgerRow{}, err
	}

	amount, err := decimal.NewFromString(rec[colAmount])
	if err != nil {
		return model.LedgerRow{}, fmt.Errorf("parsing amount %q: %w", rec[colAmount], err)
	}

	return model.LedgerRow{
		Date:        date,
		Description: rec[colDesc],
		Reference:   rec[colRef],
		Amount:      amount,
		Project:     rec[colProject],
		Account:     rec[colAccount],
		Side:        model.Side(rec[colIsDebit]),
	}, nil
}
