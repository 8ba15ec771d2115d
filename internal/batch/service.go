package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/verisage-dev/verisage/internal/id"
	"github.com/verisage-dev/verisage/internal/model"
	"github.com/verisage-dev/verisage/internal/storage"
)

// DefaultURLPrefix is where exported batch files are served from.
const DefaultURLPrefix = "/exports"

// ErrEmptyBatch is returned when a bulk run has no form to include.
var ErrEmptyBatch = errors.New("no eligible forms for batch")

// Single is the serialized batch file of one form.
type Single struct {
	Filename string
	Content  []byte
	Rows     []model.LedgerRow
}

// Bulk is the serialized batch file of several forms.
type Bulk struct {
	BatchID  string
	Filename string
	Content  []byte
	Rows     []model.LedgerRow
	FormIDs  []string
	Skipped  []Skipped
}

// Skipped records a form left out of a bulk batch.
type Skipped struct {
	FormID string `json:"formId"`
	Branch string `json:"branch"`
	Month  string `json:"month"`
	Reason string `json:"reason"`
}

// Result locates a written single-form batch file.
type Result struct {
	Filename string `json:"filename"`
	Filepath string `json:"filepath"`
	URL      string `json:"url"`
	RowCount int    `json:"rowCount"`
}

// BulkResult locates a written bulk batch file.
type BulkResult struct {
	BatchID   string    `json:"batchId"`
	Filename  string    `json:"filename"`
	Filepath  string    `json:"filepath"`
	URL       string    `json:"url"`
	FormCount int       `json:"formCount"`
	FormIDs   []string  `json:"formIds"`
	Skipped   []Skipped `json:"skipped,omitempty"`
	RowCount  int       `json:"rowCount"`
}

// Service serializes forms into batch files and stores them.
type Service struct {
	gen        *Generator
	sink       storage.Sink
	urlPrefix  string
	strictBulk bool
	now        func() time.Time
	newID      func() string
	log        zerolog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithURLPrefix sets the prefix of returned download URLs. It is ignored
// for sinks implementing storage.Locator.
func WithURLPrefix(prefix string) ServiceOption {
	return func(s *Service) {
		if prefix != "" {
			s.urlPrefix = prefix
		}
	}
}

// WithStrictBulk makes one failing form abort a whole bulk run.
func WithStrictBulk(strict bool) ServiceOption {
	return func(s *Service) { s.strictBulk = strict }
}

// WithLogger sets the service logger.
func WithLogger(log zerolog.Logger) ServiceOption {
	return func(s *Service) { s.log = log }
}

// WithNow sets the clock used for bulk file names.
func WithNow(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// WithBatchIDs sets the batch id source.
func WithBatchIDs(newID func() string) ServiceOption {
	return func(s *Service) { s.newID = newID }
}

// NewService creates a batch Service.
func NewService(gen *Generator, sink storage.Sink, opts ...ServiceOption) *Service {
	s := &Service{
		gen:       gen,
		sink:      sink,
		urlPrefix: DefaultURLPrefix,
		now:       time.Now,
		newID:     id.New,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generator returns the row generator behind the service.
func (s *Service) Generator() *Generator {
	return s.gen
}

// SerializeSingle renders the batch file of one form.
func (s *Service) SerializeSingle(form model.Form) (Single, error) {
	rows, err := s.gen.FormRows(form)
	if err != nil {
		return Single{}, fmt.Errorf("form %s: %w", form.ID, err)
	}
	content, err := s.render(rows)
	if err != nil {
		return Single{}, err
	}
	return Single{Filename: SingleFilename(form), Content: content, Rows: rows}, nil
}

// SerializeBulk renders one batch file for forms, in order. Each form is
// balanced on its own. A form that cannot be converted is reported in
// Skipped, unless the service is strict, in which case the run fails.
func (s *Service) SerializeBulk(forms []model.Form) (Bulk, error) {
	if len(forms) == 0 {
		return Bulk{}, ErrEmptyBatch
	}

	var (
		rows    []model.LedgerRow
		ids     []string
		skipped []Skipped
	)
	for _, form := range forms {
		formRows, err := s.gen.FormRows(form)
		if err != nil {
			if s.strictBulk {
				return Bulk{}, fmt.Errorf("form %s: %w", form.ID, err)
			}
			s.log.Warn().Err(err).Str("form_id", form.ID).Str("branch", form.Branch).Msg("Skipping form in bulk batch")
			skipped = append(skipped, Skipped{FormID: form.ID, Branch: form.Branch, Month: form.Month, Reason: err.Error()})
			continue
		}
		rows = append(rows, formRows...)
		ids = append(ids, form.ID)
	}
	if len(ids) == 0 {
		return Bulk{Skipped: skipped}, ErrEmptyBatch
	}

	content, err := s.render(rows)
	if err != nil {
		return Bulk{}, err
	}

	batchID := s.newID()
	return Bulk{
		BatchID:  batchID,
		Filename: BulkFilename(s.now(), len(ids), batchID),
		Content:  content,
		Rows:     rows,
		FormIDs:  ids,
		Skipped:  skipped,
	}, nil
}

// CreateSingle serializes one form and stores the file.
func (s *Service) CreateSingle(ctx context.Context, form model.Form) (Result, error) {
	single, err := s.SerializeSingle(form)
	if err != nil {
		return Result{}, err
	}

	location, err := s.sink.Put(ctx, single.Filename, single.Content)
	if err != nil {
		return Result{}, fmt.Errorf("writing batch file: %w", err)
	}

	s.log.Info().
		Str("form_id", form.ID).
		Str("file", single.Filename).
		Int("rows", len(single.Rows)).
		Msg("Batch file created")

	return Result{Filename: single.Filename, Filepath: location, URL: s.url(single.Filename), RowCount: len(single.Rows)}, nil
}

// CreateBulk serializes forms into one file and stores it.
func (s *Service) CreateBulk(ctx context.Context, forms []model.Form) (BulkResult, error) {
	bulk, err := s.SerializeBulk(forms)
	if err != nil {
		return BulkResult{Skipped: bulk.Skipped}, err
	}

	location, err := s.sink.Put(ctx, bulk.Filename, bulk.Content)
	if err != nil {
		return BulkResult{}, fmt.Errorf("writing batch file: %w", err)
	}

	s.log.Info().
		Str("batch_id", bulk.BatchID).
		Str("file", bulk.Filename).
		Int("forms", len(bulk.FormIDs)).
		Int("skipped", len(bulk.Skipped)).
		Msg("Bulk batch file created")

	return BulkResult{
		BatchID:   bulk.BatchID,
		Filename:  bulk.Filename,
		Filepath:  location,
		URL:       s.url(bulk.Filename),
		FormCount: len(bulk.FormIDs),
		FormIDs:   bulk.FormIDs,
		Skipped:   bulk.Skipped,
		RowCount:  len(bulk.Rows),
	}, nil
}

func (s *Service) render(rows []model.LedgerRow) ([]byte, error) {
	if verrs := ValidateRows(rows, s.gen.KnownAccounts()); len(verrs) > 0 {
		return nil, validationFailure(verrs)
	}
	var buf bytes.Buffer
	if err := WriteRows(&buf, rows); err != nil {
		return nil, fmt.Errorf("rendering batch file: %w", err)
	}
	return buf.Bytes(), nil
}

// url returns the download address of filename. Sinks with their own
// addresses take precedence over the URL prefix.
func (s *Service) url(filename string) string {
	if l, ok := s.sink.(storage.Locator); ok {
		return l.URL(filename)
	}
	return path.Join(s.urlPrefix, filename)
}

// Discard removes a stored batch file that must not be imported, such as
// a bulk file whose forms could not be marked posted.
func (s *Service) Discard(ctx context.Context, filename string) error {
	if err := s.sink.Remove(ctx, filename); err != nil {
		return fmt.Errorf("discarding batch file: %w", err)
	}
	s.log.Warn().Str("file", filename).Msg("Batch file discarded")
	return nil
}

// SingleFilename names the batch file of one form: BRANCH_MONTH_ID.csv.
func SingleFilename(form model.Form) string {
	return fmt.Sprintf("%s_%s_%s.csv",
		sanitize(form.Reference()),
		sanitize(strings.ToUpper(strings.TrimSpace(form.Month))),
		sanitize(form.ID))
}

// BulkFilename names a bulk batch file: BULK_<timestamp>_<n>forms_<id prefix>.csv.
func BulkFilename(at time.Time, formCount int, batchID string) string {
	return fmt.Sprintf("BULK_%s_%dforms_%s.csv", at.Format("20060102_150405"), formCount, sanitize(id.Short(batchID)))
}

// sanitize keeps ASCII letters, digits and '-', replacing everything else with '_'.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' {
			return r
		}
		return '_'
	}, s)
}
