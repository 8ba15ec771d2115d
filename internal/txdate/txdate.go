// Package txdate derives ledger transaction dates from form months.
package txdate

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TransactionDay is the day of month every transaction of a form is dated on.
const TransactionDay = 4

// Layout renders dates as M/D/YYYY.
const Layout = "1/2/2006"

// Months lists the canonical month names in calendar order.
var Months = [12]string{
	"JANUARY", "FEBRUARY", "MARCH", "APRIL", "MAY", "JUNE",
	"JULY", "AUGUST", "SEPTEMBER", "OCTOBER", "NOVEMBER", "DECEMBER",
}

// ErrInvalidMonth is matched by every InvalidMonthError.
var ErrInvalidMonth = errors.New("invalid month")

// InvalidMonthError reports a month name outside Months.
type InvalidMonthError struct {
	Month string
}

func (e *InvalidMonthError) Error() string {
	return fmt.Sprintf("invalid month %q", e.Month)
}

func (e *InvalidMonthError) Is(target error) bool {
	return target == ErrInvalidMonth
}

// ParseMonth maps a month name to its calendar month, ignoring case and surrounding space.
func ParseMonth(name string) (time.Month, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, m := range Months {
		if m == upper {
			return time.Month(i + 1), nil
		}
	}
	return 0, &InvalidMonthError{Month: name}
}

// IsCanonical reports whether name is exactly one of Months.
func IsCanonical(name string) bool {
	for _, m := range Months {
		if m == name {
			return true
		}
	}
	return false
}

// TransactionDate returns the date used for every row of a form filed for month in year.
func TransactionDate(month string, year int) (time.Time, error) {
	m, err := ParseMonth(month)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, m, TransactionDay, 0, 0, 0, 0, time.UTC), nil
}

// Format renders t with Layout.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Parse reads a date written by Format.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}
