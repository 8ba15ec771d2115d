package batch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verisage-dev/verisage/internal/model"
)

func row(ref string, day int, amount, account string, side model.Side) model.LedgerRow {
	return model.LedgerRow{
		Date:      time.Date(2025, 12, day, 0, 0, 0, 0, time.UTC),
		Reference: ref,
		Amount:    dec(amount),
		Account:   account,
		Side:      side,
	}
}

func TestValidateRows_Balanced(t *testing.T) {
	g := newGenerator(t)
	rows := []model.LedgerRow{
		row("AJAH", 4, "100", "4500", model.SideCredit),
		row("AJAH", 4, "100", "1300", model.SideDebit),
		row("IKEJA", 4, "40", "5000", model.SideDebit),
		row("IKEJA", 4, "40", "1300", model.SideCredit),
	}
	assert.Empty(t, ValidateRows(rows, g.KnownAccounts()))
}

func TestValidateRows_Unbalanced(t *testing.T) {
	rows := []model.LedgerRow{
		row("AJAH", 4, "100", "4500", model.SideCredit),
		row("AJAH", 4, "90", "1300", model.SideDebit),
	}
	errs := ValidateRows(rows, nil)
	require.Len(t, errs, 1)
	assert.Equal(t, 1, errs[0].Rule)
	assert.Contains(t, errs[0].Error(), "credits (100) != debits (90)")
}

func TestValidateRows_GroupsByReferenceAndDate(t *testing.T) {
	// Balanced overall, but not per group.
	rows := []model.LedgerRow{
		row("AJAH", 4, "100", "4500", model.SideCredit),
		row("IKEJA", 4, "100", "1300", model.SideDebit),
	}
	errs := ValidateRows(rows, nil)
	assert.Len(t, errs, 2)
}

func TestValidateRows_RowRules(t *testing.T) {
	g := newGenerator(t)
	rows := []model.LedgerRow{
		row("AJAH", 4, "0", "4500", model.SideCredit),
		row("AJAH", 4, "5", "9999", model.SideDebit),
		row("AJAH", 4, "5", "4500", model.Side("X")),
	}
	errs := ValidateRows(rows, g.KnownAccounts())

	rules := map[int]int{}
	for _, e := range errs {
		rules[e.Rule]++
	}
	assert.Equal(t, 1, rules[2], "zero amount")
	assert.Equal(t, 1, rules[3], "unknown account")
	assert.Equal(t, 1, rules[4], "bad IsDebit")
	assert.Equal(t, 1, rules[1], "group does not balance")
}

func TestKnownAccounts(t *testing.T) {
	g := NewGenerator(newGenerator(t).Table(), WithCashAccount("1310"))
	known := g.KnownAccounts()
	assert.True(t, known.Known("1310"))
	assert.True(t, known.Known("4550"))
	assert.False(t, known.Known("1300"))
}
