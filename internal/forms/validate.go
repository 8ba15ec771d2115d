package forms

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/verisage-dev/verisage/internal/model"
	"github.com/verisage-dev/verisage/internal/txdate"
)

// ErrValidation marks a form rejected by Validate.
var ErrValidation = errors.New("invalid form")

// FieldError is one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrValidation
}

// Validate checks a form before it is stored. Every failing field is
// reported; the result unwraps to one *FieldError per failure.
func Validate(f model.Form) error {
	var errs []error
	fail := func(field, format string, args ...any) {
		errs = append(errs, &FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(f.Branch) == "" {
		fail(KeyBranch, "required")
	}
	if !txdate.IsCanonical(f.Month) {
		fail(KeyMonth, "%q is not a month name", f.Month)
	}
	if f.Year < 0 {
		fail(KeyYear, "must not be negative")
	}
	if f.FullTimePastors < 0 {
		fail(KeyFullTimePastors, "must not be negative")
	}
	for _, a := range f.Amounts {
		switch {
		case !inRange(a.Value):
			fail(a.Field, "amount out of range (at most %d integer and %d fractional digits)", MaxIntegerDigits, MaxFractionDigits)
		case a.Value.IsNegative():
			fail(a.Field, "amount %s is negative", a.Value)
		}
	}
	if f.OfficialEmail != "" {
		if _, err := mail.ParseAddress(f.OfficialEmail); err != nil {
			fail(KeyOfficialEmail, "%q is not an email address", f.OfficialEmail)
		}
	}
	switch f.ConfirmationOfPayment {
	case "", "YES", "NO":
	default:
		fail(KeyConfirmationOfPayment, "must be YES or NO")
	}
	return errors.Join(errs...)
}

// FieldErrors returns the individual field failures inside err.
func FieldErrors(err error) []FieldError {
	var out []FieldError
	var walk func(error)
	walk = func(e error) {
		if fe, ok := e.(*FieldError); ok {
			out = append(out, *fe)
			return
		}
		if j, ok := e.(interface{ Unwrap() []error }); ok {
			for _, inner := range j.Unwrap() {
				walk(inner)
			}
			return
		}
		if inner := errors.Unwrap(e); inner != nil {
			walk(inner)
		}
	}
	if err != nil {
		walk(err)
	}
	return out
}
