package accounts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/verisage-dev/verisage/internal/model"
)

// MapFile is the path of the account map relative to a project root.
var MapFile = filepath.Join("accounts", "account-map.csv")

// Table is an immutable lookup from form field to ledger account.
type Table struct {
	mappings []model.AccountMapping
	byField  map[string]model.AccountMapping
}

// NewTable builds a Table. A field may appear only once.
func NewTable(mappings []model.AccountMapping) (*Table, error) {
	byField := make(map[string]model.AccountMapping, len(mappings))
	for _, m := range mappings {
		if _, dup := byField[m.Field]; dup {
			return nil, fmt.Errorf("duplicate mapping for field %q", m.Field)
		}
		if !m.Side.Valid() {
			return nil, fmt.Errorf("field %q: invalid side %q", m.Field, m.Side)
		}
		byField[m.Field] = m
	}
	own := make([]model.AccountMapping, len(mappings))
	copy(own, mappings)
	return &Table{mappings: own, byField: byField}, nil
}

// Default returns the Table built from DefaultMapping.
func Default() *Table {
	t, err := NewTable(DefaultMapping())
	if err != nil {
		panic("default account mapping: " + err.Error())
	}
	return t
}

// Load reads accounts/account-map.csv under root.
func Load(root string) (*Table, error) {
	path := filepath.Join(root, MapFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening account map: %w", err)
	}
	defer f.Close()

	mappings, err := ReadMappings(f)
	if err != nil {
		return nil, fmt.Errorf("reading account map: %w", err)
	}
	return NewTable(mappings)
}

// Lookup returns the mapping for a form field.
func (t *Table) Lookup(field string) (model.AccountMapping, bool) {
	m, ok := t.byField[field]
	return m, ok
}

// All returns a copy of every mapping in table order.
func (t *Table) All() []model.AccountMapping {
	out := make([]model.AccountMapping, len(t.mappings))
	copy(out, t.mappings)
	return out
}

// ByAccount returns all mappings posting to an account code.
func (t *Table) ByAccount(account string) []model.AccountMapping {
	var result []model.AccountMapping
	for _, m := range t.mappings {
		if m.Account == account {
			result = append(result, m)
		}
	}
	return result
}

// HasAccount reports whether any field posts to account.
func (t *Table) HasAccount(account string) bool {
	for _, m := range t.mappings {
		if m.Account == account {
			return true
		}
	}
	return false
}

// Save writes the table to accounts/account-map.csv under root.
func (t *Table) Save(root string) error {
	dir := filepath.Join(root, filepath.Dir(MapFile))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(filepath.Join(root, MapFile))
	if err != nil {
		return fmt.Errorf("creating account map file: %w", err)
	}
	defer f.Close()

	if err := WriteMappings(f, t.mappings); err != nil {
		return fmt.Errorf("writing account map: %w", err)
	}
	return f.Close()
}
