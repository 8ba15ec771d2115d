// Package importer reads branch forms from spreadsheet exports dropped into
// the project's import/ directory.
package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/verisage-dev/verisage/internal/forms"
	"github.com/verisage-dev/verisage/internal/model"
)

// Parser converts a spreadsheet export into forms, one per data row.
type Parser interface {
	Parse(r io.Reader) ([]model.Form, error)
	Format() string
	Extension() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a file in the import directory.
type FileInfo struct {
	Name   string
	Path   string
	Size   int64
	Parser Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// ForFile returns the parser handling name's extension, or nil.
func (r *Registry) ForFile(name string) Parser {
	ext := strings.ToLower(filepath.Ext(name))
	for _, p := range r.parsers {
		if p.Extension() == ext {
			return p
		}
	}
	return nil
}

// Formats lists the registered format names, sorted.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVParser{})
	r.Register(&XLSXParser{})
	return r
}

// importDir is the subdirectory for files waiting to be imported.
const importDir = "import"

// processedDir is the subdirectory for imported files.
const processedDir = "import/processed"

// Scan returns the files in <root>/import/ that a registered parser can
// read, sorted by name. With a non-empty format only that parser is used.
func Scan(root string, reg *Registry, format string) ([]FileInfo, error) {
	var only Parser
	if format != "" {
		if only = reg.Get(format); only == nil {
			return nil, fmt.Errorf("unknown import format %q (have %s)", format, strings.Join(reg.Formats(), ", "))
		}
	}

	dir := filepath.Join(root, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || strings.HasPrefix(e.Name(), "~$") {
			continue
		}
		p := reg.ForFile(e.Name())
		if p == nil || (only != nil && p != only) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name:   e.Name(),
			Path:   filepath.Join(dir, e.Name()),
			Size:   info.Size(),
			Parser: p,
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, importDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// Submitter accepts imported forms.
type Submitter interface {
	Submit(ctx context.Context, f model.Form) (model.Form, error)
}

// RowError is a form the submitter rejected.
type RowError struct {
	Index  int // 1-based position among the file's non-empty data rows
	Branch string
	Err    error
}

// Report summarizes the import of one file.
type Report struct {
	File      string
	Submitted []string // form ids
	Rejected  []RowError
}

// Run imports every scanned file: each row is submitted, rejected rows are
// reported, and the file is moved to import/processed/. A file that cannot
// be parsed is left in place and stops the run.
func Run(ctx context.Context, root string, reg *Registry, format string, sub Submitter) ([]Report, error) {
	files, err := Scan(root, reg, format)
	if err != nil {
		return nil, err
	}

	var reports []Report
	for _, fi := range files {
		parsed, err := parseFile(fi)
		if err != nil {
			return reports, err
		}

		rep := Report{File: fi.Name}
		for i, f := range parsed {
			stored, err := sub.Submit(ctx, f)
			if err != nil {
				rep.Rejected = append(rep.Rejected, RowError{Index: i + 1, Branch: f.Branch, Err: err})
				continue
			}
			rep.Submitted = append(rep.Submitted, stored.ID)
		}

		if err := MarkProcessed(root, fi.Name); err != nil {
			return append(reports, rep), err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

func parseFile(fi FileInfo) ([]model.Form, error) {
	f, err := os.Open(fi.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", fi.Name, err)
	}
	defer f.Close()

	parsed, err := fi.Parser.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", fi.Name, err)
	}
	return parsed, nil
}

var knownKeys = []string{
	forms.KeyZone, forms.KeyBranch, forms.KeyMonth, forms.KeyYear,
	forms.KeyResidentPastor, forms.KeyReportPreparedBy, forms.KeyOfficialEmail,
	forms.KeyConfirmationOfPayment, forms.KeyFullTimePastors,
	forms.KeyRemittance25Receipt, forms.KeyRemittance5HQReceipt,
}

var lifecycleKeys = []string{
	forms.KeyID, forms.KeyStatus, forms.KeyBatchID, forms.KeyBatchFileURL,
	forms.KeySubmittedAt, forms.KeyReviewedAt, forms.KeyPostedAt,
}

// canonicalKey maps a header cell to a form key, matching metadata and
// amount keys case-insensitively. Lifecycle columns map to "" and are ignored.
func canonicalKey(header string) string {
	h := strings.TrimSpace(header)
	for _, k := range knownKeys {
		if strings.EqualFold(h, k) {
			return k
		}
	}
	for _, k := range forms.AmountFields {
		if strings.EqualFold(h, k) {
			return k
		}
	}
	for _, k := range lifecycleKeys {
		if strings.EqualFold(h, k) {
			return ""
		}
	}
	return h
}

// rowsToForms turns a header row plus data rows into forms. Row numbers in
// errors are 1-based spreadsheet rows.
func rowsToForms(records [][]string) ([]model.Form, error) {
	if len(records) <= 1 {
		return nil, nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = canonicalKey(h)
	}

	var out []model.Form
	for i, rec := range records[1:] {
		if isRowEmpty(rec) {
			continue
		}
		fields := make([]forms.Field, 0, len(rec))
		for col, cell := range rec {
			if col >= len(header) || header[col] == "" {
				continue
			}
			fields = append(fields, forms.Field{Key: header[col], Value: cell})
		}
		f, err := forms.FromFields(fields)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, f)
	}
	return out, nil
}

func isRowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
