package forms

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/verisage-dev/verisage/internal/id"
	"github.com/verisage-dev/verisage/internal/model"
	"github.com/verisage-dev/verisage/internal/storage"
)

// Dir is the project directory holding one YAML document per form.
const Dir = "forms"

const ext = ".yaml"

var (
	ErrNotFound      = errors.New("form not found")
	ErrAlreadyPosted = errors.New("form already posted")
)

// Filter selects forms for List. Zero values match everything.
type Filter struct {
	Status model.FormStatus
	Branch string // case-insensitive substring
	Month  string
	Search string // matches branch, resident pastor, preparer or email
	Offset int
	Limit  int // 0 = no limit
}

// Store persists forms as <root>/forms/<id>.yaml.
type Store struct {
	mu  sync.Mutex
	dir *storage.Dir
	put func(ctx context.Context, name string, data []byte) (string, error)
}

// NewStore opens the form store of the project at root.
func NewStore(root string) *Store {
	dir := storage.NewDir(filepath.Join(root, Dir))
	return &Store{dir: dir, put: dir.Put}
}

func (s *Store) path(formID string) string {
	return filepath.Join(s.dir.Root(), formID+ext)
}

// Find loads one form.
func (s *Store) Find(_ context.Context, formID string) (model.Form, error) {
	if !id.Valid(formID) {
		return model.Form{}, fmt.Errorf("%w: %q", ErrNotFound, formID)
	}
	return s.read(s.path(formID))
}

func (s *Store) read(path string) (model.Form, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return model.Form{}, fmt.Errorf("%w: %q", ErrNotFound, strings.TrimSuffix(filepath.Base(path), ext))
	}
	if err != nil {
		return model.Form{}, fmt.Errorf("reading form: %w", err)
	}
	f, err := DecodeYAML(data)
	if err != nil {
		return model.Form{}, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return f, nil
}

// List returns the forms matching filter, newest submission first, and the
// number of matches before Offset and Limit are applied.
func (s *Store) List(_ context.Context, filter Filter) ([]model.Form, int, error) {
	entries, err := os.ReadDir(s.dir.Root())
	if errors.Is(err, os.ErrNotExist) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("listing forms: %w", err)
	}

	var out []model.Form
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ext || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		f, err := s.read(filepath.Join(s.dir.Root(), e.Name()))
		if err != nil {
			return nil, 0, err
		}
		if filter.match(f) {
			out = append(out, f)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.After(out[j].SubmittedAt)
		}
		return out[i].ID < out[j].ID
	})

	total := len(out)
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []model.Form{}, total, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

func (f Filter) match(form model.Form) bool {
	if f.Status != "" && form.Status != f.Status {
		return false
	}
	if f.Branch != "" && !containsFold(form.Branch, f.Branch) {
		return false
	}
	if f.Month != "" && !strings.EqualFold(form.Month, f.Month) {
		return false
	}
	if f.Search != "" {
		for _, v := range []string{form.Branch, form.ResidentPastor, form.ReportPreparedBy, form.OfficialEmail} {
			if containsFold(v, f.Search) {
				return true
			}
		}
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// Save writes the form, replacing any stored version.
func (s *Store) Save(ctx context.Context, f model.Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, f)
}

func (s *Store) save(ctx context.Context, f model.Form) error {
	if !id.Valid(f.ID) {
		return fmt.Errorf("saving form: invalid id %q", f.ID)
	}
	data, err := EncodeYAML(f)
	if err != nil {
		return fmt.Errorf("saving form %s: %w", f.ID, err)
	}
	if _, err := s.put(ctx, f.ID+ext, data); err != nil {
		return fmt.Errorf("saving form %s: %w", f.ID, err)
	}
	return nil
}

// Delete removes a form.
func (s *Store) Delete(_ context.Context, formID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !id.Valid(formID) {
		return fmt.Errorf("%w: %q", ErrNotFound, formID)
	}
	err := os.Remove(s.path(formID))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %q", ErrNotFound, formID)
	}
	if err != nil {
		return fmt.Errorf("deleting form %s: %w", formID, err)
	}
	return nil
}

// BulkMark marks every listed form posted under batchID. Forms already
// posted under batchID are left alone. If any form is missing or was posted
// under a different batch, nothing is written. If a save fails, the forms
// already marked are restored.
func (s *Store) BulkMark(ctx context.Context, ids []string, batchID, url string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending, original []model.Form
	for _, formID := range ids {
		f, err := s.Find(ctx, formID)
		if err != nil {
			return err
		}
		if f.IsPosted() {
			if f.BatchID == batchID {
				continue
			}
			return fmt.Errorf("%w: %s in batch %s", ErrAlreadyPosted, formID, f.BatchID)
		}
		original = append(original, f)
		f.Status = model.StatusPosted
		f.BatchID = batchID
		f.BatchFileURL = url
		f.PostedAt = at
		pending = append(pending, f)
	}

	for i, f := range pending {
		if err := s.save(ctx, f); err != nil {
			return errors.Join(err, s.restore(context.WithoutCancel(ctx), original[:i]))
		}
	}
	return nil
}

func (s *Store) restore(ctx context.Context, forms []model.Form) error {
	var errs []error
	for _, f := range forms {
		if err := s.save(ctx, f); err != nil {
			errs = append(errs, fmt.Errorf("restoring: %w", err))
		}
	}
	return errors.Join(errs...)
}
