package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormStatus represents the review lifecycle of a branch form.
type FormStatus string

const (
	StatusUnreviewed FormStatus = "unreviewed"
	StatusReviewed   FormStatus = "reviewed"
	StatusPosted     FormStatus = "posted"
)

// Valid reports whether s is a known status.
func (s FormStatus) Valid() bool {
	switch s {
	case StatusUnreviewed, StatusReviewed, StatusPosted:
		return true
	}
	return false
}

// Amount is one named financial figure of a form.
type Amount struct {
	Field string
	Value decimal.Decimal
}

// Attribute is a free-text form field the system does not interpret.
type Attribute struct {
	Key   string
	Value string
}

// Form is a monthly financial report submitted by a branch.
type Form struct {
	ID     string
	Zone   string
	Branch string
	Month  string
	Year   int // 0 = current year

	ResidentPastor        string
	ReportPreparedBy      string
	OfficialEmail         string
	ConfirmationOfPayment string
	FullTimePastors       int

	Remittance25PercentReceipt  string
	Remittance5PercentHQReceipt string

	// Amounts keeps submission order; batch rows follow it.
	Amounts []Amount
	Extra   []Attribute

	Status       FormStatus
	BatchFileURL string
	BatchID      string
	SubmittedAt  time.Time
	ReviewedAt   time.Time
	PostedAt     time.Time
}

// Reference is the ledger reference for every row generated from the form.
func (f Form) Reference() string {
	return strings.ToUpper(strings.TrimSpace(f.Branch))
}

// Amount returns the named amount, or zero when absent.
func (f Form) Amount(field string) decimal.Decimal {
	for _, a := range f.Amounts {
		if a.Field == field {
			return a.Value
		}
	}
	return decimal.Zero
}

// SetAmount replaces the named amount in place, or appends it.
func (f *Form) SetAmount(field string, value decimal.Decimal) {
	for i := range f.Amounts {
		if f.Amounts[i].Field == field {
			f.Amounts[i].Value = value
			return
		}
	}
	f.Amounts = append(f.Amounts, Amount{Field: field, Value: value})
}

// SetExtra replaces the named attribute in place, or appends it.
func (f *Form) SetExtra(key, value string) {
	for i := range f.Extra {
		if f.Extra[i].Key == key {
			f.Extra[i].Value = value
			return
		}
	}
	f.Extra = append(f.Extra, Attribute{Key: key, Value: value})
}

// IsPosted reports whether a batch file has been generated for the form.
func (f Form) IsPosted() bool {
	return f.Status == StatusPosted
}
