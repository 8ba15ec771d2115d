package batch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/verisage-dev/verisage/internal/model"
	"github.com/verisage-dev/verisage/internal/txdate"
)

// ErrUnbalanced is returned when a batch fails validation.
var ErrUnbalanced = errors.New("batch does not validate")

// ValidationError describes a single violated rule.
type ValidationError struct {
	Rule        int
	Row         int // 1-based data row, 0 for group rules
	Description string
}

func (e ValidationError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("rule %d: %s", e.Rule, e.Description)
	}
	return fmt.Sprintf("rule %d [row %d]: %s", e.Rule, e.Row, e.Description)
}

// AccountChecker reports whether an account code may appear in a batch.
type AccountChecker interface {
	Known(account string) bool
}

// AccountSet is an AccountChecker over a fixed set of codes.
type AccountSet map[string]bool

// Known implements AccountChecker.
func (s AccountSet) Known(account string) bool { return s[account] }

// KnownAccounts returns every account g can emit: the mapped accounts plus cash.
func (g *Generator) KnownAccounts() AccountSet {
	set := AccountSet{g.cashAccount: true}
	for _, m := range g.table.All() {
		set[m.Account] = true
	}
	return set
}

// ValidateRows checks a batch:
//  1. rows sharing a reference and date balance (credits == debits)
//  2. every amount is positive
//  3. every account is known
//  4. IsDebit is Y or N
func ValidateRows(rows []model.LedgerRow, accounts AccountChecker) []ValidationError {
	var errs []ValidationError

	type group struct {
		credit, debit decimal.Decimal
	}
	groups := make(map[string]*group)
	var order []string

	for i, row := range rows {
		n := i + 1

		if !row.Amount.IsPositive() {
			errs = append(errs, ValidationError{Rule: 2, Row: n, Description: fmt.Sprintf("amount %s is not positive", row.Amount)})
		}
		if accounts != nil && !accounts.Known(row.Account) {
			errs = append(errs, ValidationError{Rule: 3, Row: n, Description: fmt.Sprintf("unknown account %q", row.Account)})
		}
		if !row.Side.Valid() {
			errs = append(errs, ValidationError{Rule: 4, Row: n, Description: fmt.Sprintf("IsDebit %q is not Y or N", row.Side)})
			continue
		}

		key := row.Reference + "|" + txdate.Format(row.Date)
		g, ok := groups[key]
		if !ok {
			g = &group{credit: decimal.Zero, debit: decimal.Zero}
			groups[key] = g
			order = append(order, key)
		}
		if row.Side == model.SideCredit {
			g.credit = g.credit.Add(row.Amount)
		} else {
			g.debit = g.debit.Add(row.Amount)
		}
	}

	for _, key := range order {
		g := groups[key]
		if !g.credit.Equal(g.debit) {
			errs = append(errs, ValidationError{
				Rule:        1,
				Description: fmt.Sprintf("%s: credits (%s) != debits (%s)", strings.Replace(key, "|", " ", 1), g.credit, g.debit),
			})
		}
	}
	return errs
}

func validationFailure(errs []ValidationError) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%w: %s", ErrUnbalanced, strings.Join(msgs, "; "))
}
