// Package batch turns branch forms into balanced accounting import files.
package batch

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/verisage-dev/verisage/internal/accounts"
	"github.com/verisage-dev/verisage/internal/model"
	"github.com/verisage-dev/verisage/internal/txdate"
)

const (
	// DefaultCashAccount receives the balancing entry.
	DefaultCashAccount = "1300"
	// BalancingDescription labels the balancing entry.
	BalancingDescription = "PETTY CASH"
)

// ErrNegativeAmount is returned for a mapped field holding a negative value.
var ErrNegativeAmount = errors.New("negative amount")

// Generator converts forms into ledger rows using an account mapping table.
type Generator struct {
	table       *accounts.Table
	cashAccount string
	year        int
	now         func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithCashAccount sets the account the balancing entry posts to.
func WithCashAccount(account string) Option {
	return func(g *Generator) {
		if account != "" {
			g.cashAccount = account
		}
	}
}

// WithYear fixes the transaction year for forms that do not carry one.
func WithYear(year int) Option {
	return func(g *Generator) { g.year = year }
}

// WithClock sets the clock used to find the current year.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator creates a Generator over table.
func NewGenerator(table *accounts.Table, opts ...Option) *Generator {
	g := &Generator{
		table:       table,
		cashAccount: DefaultCashAccount,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CashAccount returns the balancing account code.
func (g *Generator) CashAccount() string {
	return g.cashAccount
}

// Table returns the mapping table rows are generated from.
func (g *Generator) Table() *accounts.Table {
	return g.table
}

// TransactionDate returns the date every row of form is dated on.
func (g *Generator) TransactionDate(form model.Form) (time.Time, error) {
	year := form.Year
	if year == 0 {
		year = g.year
	}
	if year == 0 {
		year = g.now().Year()
	}
	return txdate.TransactionDate(form.Month, year)
}

// Rows emits one row per non-zero mapped amount, in form order, and the
// credit and debit totals of those rows. Unmapped fields are skipped.
func (g *Generator) Rows(form model.Form) (rows []model.LedgerRow, totalCredit, totalDebit decimal.Decimal, err error) {
	totalCredit, totalDebit = decimal.Zero, decimal.Zero

	date, err := g.TransactionDate(form)
	if err != nil {
		return nil, totalCredit, totalDebit, err
	}
	reference := form.Reference()

	for _, amt := range form.Amounts {
		if amt.Value.IsZero() {
			continue
		}
		entry, ok := g.table.Lookup(amt.Field)
		if !ok {
			continue
		}
		if amt.Value.IsNegative() {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("%w: %s = %s", ErrNegativeAmount, amt.Field, amt.Value)
		}

		rows = append(rows, model.LedgerRow{
			Date:        date,
			Description: entry.Description,
			Reference:   reference,
			Amount:      amt.Value,
			Account:     entry.Account,
			Side:        entry.Side,
		})

		if entry.Side == model.SideCredit {
			totalCredit = totalCredit.Add(amt.Value)
		} else {
			totalDebit = totalDebit.Add(amt.Value)
		}
	}
	return rows, totalCredit, totalDebit, nil
}

// BalancingRow returns the PETTY CASH row that makes credits equal debits.
// ok is false when the totals already balance.
//
// Credits above debits are offset by a debit to cash; debits above credits
// by a credit to cash.
func (g *Generator) BalancingRow(totalCredit, totalDebit decimal.Decimal, form model.Form) (row model.LedgerRow, ok bool, err error) {
	delta := totalCredit.Sub(totalDebit)
	if delta.IsZero() {
		return model.LedgerRow{}, false, nil
	}

	date, err := g.TransactionDate(form)
	if err != nil {
		return model.LedgerRow{}, false, err
	}

	side := model.SideDebit
	if delta.IsNegative() {
		side = model.SideCredit
	}

	return model.LedgerRow{
		Date:        date,
		Description: BalancingDescription,
		Reference:   form.Reference(),
		Amount:      delta.Abs(),
		Account:     g.cashAccount,
		Side:        side,
	}, true, nil
}

// FormRows returns the rows of form followed by its balancing row, if any.
func (g *Generator) FormRows(form model.Form) ([]model.LedgerRow, error) {
	rows, credit, debit, err := g.Rows(form)
	if err != nil {
		return nil, err
	}
	bal, ok, err := g.BalancingRow(credit, debit, form)
	if err != nil {
		return nil, err
	}
	if ok {
		rows = append(rows, bal)
	}
	return rows, nil
}
