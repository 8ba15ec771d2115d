package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRow is one transaction line of a batch file.
type LedgerRow struct {
	Date        time.Time
	Description string
	Reference   string
	Amount      decimal.Decimal // always > 0
	Project     string
	Account     string
	Side        Side
}

// IsDebit reports whether the row is recorded on the debit side.
func (r LedgerRow) IsDebit() bool {
	return r.Side == SideDebit
}
