// Package branches holds the directory of branch names forms are filed under.
package branches

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// File is the path of the branch directory relative to a project root.
var File = filepath.Join("branches", "branches.csv")

// Header is the single column of the branch file.
const Header = "name"

// Directory is an immutable, ordered list of branch names.
type Directory struct {
	names []string
	index map[string]bool
}

// New builds a Directory. Names are trimmed; blanks and repeats (ignoring
// case) are dropped.
func New(names []string) *Directory {
	d := &Directory{index: make(map[string]bool, len(names))}
	for _, n := range names {
		n = strings.TrimSpace(n)
		key := strings.ToUpper(n)
		if n == "" || d.index[key] {
			continue
		}
		d.index[key] = true
		d.names = append(d.names, n)
	}
	return d
}

// Default returns the Directory built from DefaultNames.
func Default() *Directory {
	return New(DefaultNames())
}

// Names returns the branch names in directory order.
func (d *Directory) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Contains reports whether name is a listed branch, ignoring case and
// surrounding space.
func (d *Directory) Contains(name string) bool {
	return d.index[strings.ToUpper(strings.TrimSpace(name))]
}

// Load reads branches/branches.csv under root. A project without the file
// gets the default directory.
func Load(root string) (*Directory, error) {
	f, err := os.Open(filepath.Join(root, File))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening branch directory: %w", err)
	}
	defer f.Close()

	names, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading branch directory: %w", err)
	}
	return New(names), nil
}

// Save writes the directory to branches/branches.csv under root.
func (d *Directory) Save(root string) error {
	if err := os.MkdirAll(filepath.Join(root, filepath.Dir(File)), 0o755); err != nil {
		return fmt.Errorf("creating branches dir: %w", err)
	}
	f, err := os.Create(filepath.Join(root, File))
	if err != nil {
		return fmt.Errorf("creating branch file: %w", err)
	}
	defer f.Close()

	if err := Write(f, d.names); err != nil {
		return fmt.Errorf("writing branch directory: %w", err)
	}
	return f.Close()
}

// Read parses a branch file: a header row, then one name per row.
func Read(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	if strings.TrimSpace(records[0][0]) != Header {
		return nil, fmt.Errorf("unexpected header %q", records[0][0])
	}
	names := make([]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		names = append(names, rec[0])
	}
	return names, nil
}

// Write renders names as a branch file.
func Write(w io.Writer, names []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{Header}); err != nil {
		return err
	}
	for _, n := range names {
		if err := cw.Write([]string{n}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
