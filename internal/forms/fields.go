// Package forms stores branch forms and drives their review and posting lifecycle.
package forms

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/verisage-dev/verisage/internal/model"
)

// Field is one key/value pair of a form document, in document order.
type Field struct {
	Key     string
	Value   string
	Numeric bool // the document typed the value as a number
}

// Document keys with a fixed meaning. Every other key is an amount when the
// document types its value as a number or the key is one of AmountFields,
// and a pass-through attribute otherwise.
const (
	KeyID                    = "id"
	KeyZone                  = "zone"
	KeyBranch                = "branch"
	KeyMonth                 = "month"
	KeyYear                  = "year"
	KeyResidentPastor        = "residentPastor"
	KeyReportPreparedBy      = "reportPreparedBy"
	KeyOfficialEmail         = "officialEmail"
	KeyConfirmationOfPayment = "confirmationOfPayment"
	KeyFullTimePastors       = "numberOfFullTimePastors"
	KeyRemittance25Receipt   = "remittance25PercentReceipt"
	KeyRemittance5HQReceipt  = "remittance5PercentHQReceipt"
	KeyStatus                = "status"
	KeyBatchFileURL          = "batchFileUrl"
	KeyBatchID               = "batchId"
	KeySubmittedAt           = "submittedAt"
	KeyReviewedAt            = "reviewedAt"
	KeyPostedAt              = "postedAt"
)

const timeLayout = time.RFC3339

// FromFields builds a form from document fields. Empty values are dropped.
func FromFields(fields []Field) (model.Form, error) {
	var f model.Form
	for _, fld := range fields {
		key := strings.TrimSpace(fld.Key)
		value := strings.TrimSpace(fld.Value)
		if key == "" || value == "" {
			continue
		}
		if err := setField(&f, key, value, fld.Numeric); err != nil {
			return model.Form{}, fmt.Errorf("field %s: %w", key, err)
		}
	}
	return f, nil
}

func setField(f *model.Form, key, value string, numeric bool) error {
	var err error
	switch key {
	case KeyID:
		f.ID = value
	case KeyZone:
		f.Zone = value
	case KeyBranch:
		f.Branch = value
	case KeyMonth:
		f.Month = strings.ToUpper(value)
	case KeyYear:
		f.Year, err = strconv.Atoi(value)
	case KeyResidentPastor:
		f.ResidentPastor = value
	case KeyReportPreparedBy:
		f.ReportPreparedBy = value
	case KeyOfficialEmail:
		f.OfficialEmail = value
	case KeyConfirmationOfPayment:
		f.ConfirmationOfPayment = strings.ToUpper(value)
	case KeyFullTimePastors:
		f.FullTimePastors, err = strconv.Atoi(value)
	case KeyRemittance25Receipt:
		f.Remittance25PercentReceipt = value
	case KeyRemittance5HQReceipt:
		f.Remittance5PercentHQReceipt = value
	case KeyStatus:
		f.Status = model.FormStatus(value)
		if !f.Status.Valid() {
			err = fmt.Errorf("unknown status %q", value)
		}
	case KeyBatchFileURL:
		f.BatchFileURL = value
	case KeyBatchID:
		f.BatchID = value
	case KeySubmittedAt:
		f.SubmittedAt, err = time.Parse(timeLayout, value)
	case KeyReviewedAt:
		f.ReviewedAt, err = time.Parse(timeLayout, value)
	case KeyPostedAt:
		f.PostedAt, err = time.Parse(timeLayout, value)
	default:
		if !numeric && !IsAmountField(key) {
			f.SetExtra(key, value)
			return nil
		}
		d, derr := decimal.NewFromString(value)
		if derr != nil {
			return fmt.Errorf("parsing amount %q: %w", value, derr)
		}
		f.SetAmount(key, d)
	}
	return err
}

// ToFields flattens a form into document fields: metadata first, then
// amounts and attributes in their stored order.
func ToFields(f model.Form) []Field {
	var out []Field
	text := func(key, value string) {
		if value != "" {
			out = append(out, Field{Key: key, Value: value})
		}
	}
	number := func(key string, value int) {
		if value != 0 {
			out = append(out, Field{Key: key, Value: strconv.Itoa(value), Numeric: true})
		}
	}
	stamp := func(key string, t time.Time) {
		if !t.IsZero() {
			text(key, t.UTC().Format(timeLayout))
		}
	}

	text(KeyID, f.ID)
	text(KeyZone, f.Zone)
	text(KeyBranch, f.Branch)
	text(KeyMonth, f.Month)
	number(KeyYear, f.Year)
	text(KeyResidentPastor, f.ResidentPastor)
	text(KeyReportPreparedBy, f.ReportPreparedBy)
	text(KeyOfficialEmail, f.OfficialEmail)
	text(KeyConfirmationOfPayment, f.ConfirmationOfPayment)
	number(KeyFullTimePastors, f.FullTimePastors)
	text(KeyRemittance25Receipt, f.Remittance25PercentReceipt)
	text(KeyRemittance5HQReceipt, f.Remittance5PercentHQReceipt)
	text(KeyStatus, string(f.Status))
	text(KeyBatchFileURL, f.BatchFileURL)
	text(KeyBatchID, f.BatchID)
	stamp(KeySubmittedAt, f.SubmittedAt)
	stamp(KeyReviewedAt, f.ReviewedAt)
	stamp(KeyPostedAt, f.PostedAt)

	for _, a := range f.Amounts {
		out = append(out, Field{Key: a.Field, Value: a.Value.String(), Numeric: true})
	}
	for _, x := range f.Extra {
		text(x.Key, x.Value)
	}
	return out
}
