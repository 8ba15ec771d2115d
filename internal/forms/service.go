package forms

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/verisage-dev/verisage/internal/batch"
	"github.com/verisage-dev/verisage/internal/batchlog"
	"github.com/verisage-dev/verisage/internal/id"
	"github.com/verisage-dev/verisage/internal/model"
)

// Committer records project changes after a batch is posted.
type Committer interface {
	Commit(message string) (string, error)
}

// BranchChecker reports whether a branch name is known.
type BranchChecker interface {
	Contains(name string) bool
}

// Service runs the form lifecycle: submit, review, post.
type Service struct {
	// postMu serializes posting so eligibility checks and marking see the
	// same store state.
	postMu  sync.Mutex
	store   *Store
	batches *batch.Service
	logRoot string
	commit  Committer
	known   BranchChecker
	now     func() time.Time
	newID   func() string
	log     zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithBatchLog appends every posted batch to <root>/logs/batch-log.csv.
func WithBatchLog(root string) Option {
	return func(s *Service) { s.logRoot = root }
}

// WithCommitter commits the project after every post.
func WithCommitter(c Committer) Option {
	return func(s *Service) { s.commit = c }
}

// WithKnownBranches rejects forms filed for a branch known does not list.
func WithKnownBranches(known BranchChecker) Option {
	return func(s *Service) { s.known = known }
}

// WithClock sets the clock used for lifecycle timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDs sets the form id source.
func WithIDs(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// WithLogger sets the service logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// NewService creates a form Service.
func NewService(store *Store, batches *batch.Service, opts ...Option) *Service {
	s := &Service{
		store:   store,
		batches: batches,
		now:     time.Now,
		newID:   id.New,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates and stores a new form as unreviewed.
func (s *Service) Submit(ctx context.Context, f model.Form) (model.Form, error) {
	if err := s.validate(f); err != nil {
		return model.Form{}, err
	}
	f.ID = s.newID()
	f.Status = model.StatusUnreviewed
	f.SubmittedAt = s.now().UTC()
	f.ReviewedAt = time.Time{}
	f.PostedAt = time.Time{}
	f.BatchFileURL = ""
	f.BatchID = ""

	if err := s.store.Save(ctx, f); err != nil {
		return model.Form{}, err
	}
	s.log.Info().Str("form_id", f.ID).Str("branch", f.Branch).Str("month", f.Month).Msg("Form submitted")
	return f, nil
}

// Get returns one form.
func (s *Service) Get(ctx context.Context, formID string) (model.Form, error) {
	return s.store.Find(ctx, formID)
}

// List returns the forms matching filter and the total match count.
func (s *Service) List(ctx context.Context, filter Filter) ([]model.Form, int, error) {
	return s.store.List(ctx, filter)
}

// Delete removes a form.
func (s *Service) Delete(ctx context.Context, formID string) error {
	if err := s.store.Delete(ctx, formID); err != nil {
		return err
	}
	s.log.Info().Str("form_id", formID).Msg("Form deleted")
	return nil
}

// Review merges the filled fields of patch into the form and marks it
// reviewed. Posted forms cannot be reviewed.
func (s *Service) Review(ctx context.Context, formID string, patch model.Form) (model.Form, error) {
	f, err := s.store.Find(ctx, formID)
	if err != nil {
		return model.Form{}, err
	}
	if f.IsPosted() {
		return model.Form{}, fmt.Errorf("reviewing form %s: %w", formID, ErrAlreadyPosted)
	}

	merge(&f, patch)
	if err := s.validate(f); err != nil {
		return model.Form{}, err
	}
	f.Status = model.StatusReviewed
	f.ReviewedAt = s.now().UTC()

	if err := s.store.Save(ctx, f); err != nil {
		return model.Form{}, err
	}
	s.log.Info().Str("form_id", f.ID).Msg("Form reviewed")
	return f, nil
}

func (s *Service) validate(f model.Form) error {
	err := Validate(f)
	if s.known != nil && strings.TrimSpace(f.Branch) != "" && !s.known.Contains(f.Branch) {
		err = errors.Join(err, &FieldError{Field: KeyBranch, Message: fmt.Sprintf("%q is not a known branch", f.Branch)})
	}
	return err
}

func merge(f *model.Form, patch model.Form) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&f.Zone, patch.Zone)
	set(&f.Branch, patch.Branch)
	set(&f.Month, patch.Month)
	set(&f.ResidentPastor, patch.ResidentPastor)
	set(&f.ReportPreparedBy, patch.ReportPreparedBy)
	set(&f.OfficialEmail, patch.OfficialEmail)
	set(&f.ConfirmationOfPayment, patch.ConfirmationOfPayment)
	set(&f.Remittance25PercentReceipt, patch.Remittance25PercentReceipt)
	set(&f.Remittance5PercentHQReceipt, patch.Remittance5PercentHQReceipt)
	if patch.Year != 0 {
		f.Year = patch.Year
	}
	if patch.FullTimePastors != 0 {
		f.FullTimePastors = patch.FullTimePastors
	}
	for _, a := range patch.Amounts {
		f.SetAmount(a.Field, a.Value)
	}
	for _, x := range patch.Extra {
		f.SetExtra(x.Key, x.Value)
	}
}

// Post generates the batch file of one form and marks it posted. A posted
// form is only regenerated when force is set.
func (s *Service) Post(ctx context.Context, formID string, force bool) (batch.Result, model.Form, error) {
	s.postMu.Lock()
	defer s.postMu.Unlock()

	f, err := s.store.Find(ctx, formID)
	if err != nil {
		return batch.Result{}, model.Form{}, err
	}
	if f.IsPosted() && !force {
		return batch.Result{}, model.Form{}, fmt.Errorf("posting form %s: %w", formID, ErrAlreadyPosted)
	}

	res, err := s.batches.CreateSingle(ctx, f)
	if err != nil {
		return batch.Result{}, model.Form{}, fmt.Errorf("posting form %s: %w", formID, err)
	}

	f.Status = model.StatusPosted
	f.BatchFileURL = res.URL
	f.BatchID = ""
	f.PostedAt = s.now().UTC()
	if err := s.store.Save(ctx, f); err != nil {
		return batch.Result{}, model.Form{}, err
	}

	s.record(batchlog.Entry{
		Timestamp: f.PostedAt,
		Kind:      batchlog.KindSingle,
		Filename:  res.Filename,
		URL:       res.URL,
		FormIDs:   []string{f.ID},
		RowCount:  res.RowCount,
	}, fmt.Sprintf("post: %s %s -> %s", f.Reference(), f.Month, res.Filename))
	return res, f, nil
}

// PostBulk generates one batch file for the forms not yet posted and marks
// them posted under the new batch id. With no ids, every unposted form
// matching status is included; an empty status matches all. Listed forms
// that could not be included are reported in the result's Skipped list.
func (s *Service) PostBulk(ctx context.Context, ids []string, status model.FormStatus) (batch.BulkResult, error) {
	s.postMu.Lock()
	defer s.postMu.Unlock()

	candidates, err := s.candidates(ctx, ids, status)
	if err != nil {
		return batch.BulkResult{}, err
	}

	var eligible []model.Form
	var posted []batch.Skipped
	for _, f := range candidates {
		if f.IsPosted() {
			posted = append(posted, batch.Skipped{FormID: f.ID, Branch: f.Branch, Month: f.Month, Reason: ErrAlreadyPosted.Error()})
			continue
		}
		eligible = append(eligible, f)
	}

	res, err := s.batches.CreateBulk(ctx, eligible)
	res.Skipped = append(posted, res.Skipped...)
	if err != nil {
		return res, err
	}

	at := s.now().UTC()
	if err := s.store.BulkMark(ctx, res.FormIDs, res.BatchID, res.URL, at); err != nil {
		// An unmarked file would be imported alongside the forms' other batch.
		if derr := s.batches.Discard(context.WithoutCancel(ctx), res.Filename); derr != nil {
			err = errors.Join(err, derr)
		}
		return batch.BulkResult{Skipped: res.Skipped}, fmt.Errorf("marking bulk batch %s: %w", res.BatchID, err)
	}

	s.record(batchlog.Entry{
		Timestamp: at,
		BatchID:   res.BatchID,
		Kind:      batchlog.KindBulk,
		Filename:  res.Filename,
		URL:       res.URL,
		FormIDs:   res.FormIDs,
		RowCount:  res.RowCount,
	}, fmt.Sprintf("post-bulk: %d forms -> %s", res.FormCount, res.Filename))
	return res, nil
}

func (s *Service) candidates(ctx context.Context, ids []string, status model.FormStatus) ([]model.Form, error) {
	if len(ids) == 0 {
		all, _, err := s.store.List(ctx, Filter{Status: status})
		if err != nil {
			return nil, err
		}
		var forms []model.Form
		for _, f := range all {
			if !f.IsPosted() {
				forms = append(forms, f)
			}
		}
		// oldest submission first
		sort.SliceStable(forms, func(i, j int) bool {
			return forms[i].SubmittedAt.Before(forms[j].SubmittedAt)
		})
		return forms, nil
	}

	seen := make(map[string]bool, len(ids))
	forms := make([]model.Form, 0, len(ids))
	for _, formID := range ids {
		formID = strings.TrimSpace(formID)
		if seen[formID] {
			continue
		}
		seen[formID] = true
		f, err := s.store.Find(ctx, formID)
		if err != nil {
			return nil, err
		}
		forms = append(forms, f)
	}
	return forms, nil
}

// record appends to the batch log and commits. Both are best effort: the
// batch file already exists and the forms are marked.
func (s *Service) record(e batchlog.Entry, message string) {
	if s.logRoot != "" {
		if err := batchlog.Append(s.logRoot, []batchlog.Entry{e}); err != nil {
			s.log.Warn().Err(err).Str("file", e.Filename).Msg("Failed to append batch log")
		}
	}
	if s.commit != nil {
		hash, err := s.commit.Commit(message)
		if err != nil {
			s.log.Warn().Err(err).Msg("Failed to commit posted batch")
			return
		}
		s.log.Debug().Str("commit", hash).Msg("Committed posted batch")
	}
}
