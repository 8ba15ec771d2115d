package batch

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/verisage-dev/verisage/internal/accounts"
	"github.com/verisage-dev/verisage/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// form builds a form from alternating field/amount pairs.
func form(id, branch, month string, pairs ...string) model.Form {
	f := model.Form{ID: id, Branch: branch, Month: month}
	for i := 0; i+1 < len(pairs); i += 2 {
		f.Amounts = append(f.Amounts, model.Amount{Field: pairs[i], Value: dec(pairs[i+1])})
	}
	return f
}

func newGenerator(t *testing.T) *Generator {
	t.Helper()
	return NewGenerator(accounts.Default(), WithYear(2025))
}

func sums(rows []model.LedgerRow) (credit, debit decimal.Decimal) {
	credit, debit = decimal.Zero, decimal.Zero
	for _, r := range rows {
		if r.Side == model.SideCredit {
			credit = credit.Add(r.Amount)
		} else {
			debit = debit.Add(r.Amount)
		}
	}
	return credit, debit
}

func fixedClock() time.Time {
	return time.Date(2025, 12, 20, 14, 30, 5, 0, time.UTC)
}

func requireBalanced(t *testing.T, rows []model.LedgerRow) {
	t.Helper()
	credit, debit := sums(rows)
	require.True(t, credit.Equal(debit), "credits %s != debits %s", credit, debit)
}
