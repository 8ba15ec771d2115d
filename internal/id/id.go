// Package id generates the identifiers of forms and batches.
package id

import (
	"strings"

	"github.com/google/uuid"
)

// New returns a random UUID string such as "3f2a9c1e-7b4d-4c1a-9e8f-0a1b2c3d4e5f".
func New() string {
	return uuid.NewString()
}

// Short returns the first eight hex digits of an id, dashes removed.
// "3f2a9c1e-7b4d-..." -> "3f2a9c1e"
func Short(id string) string {
	s := strings.ReplaceAll(id, "-", "")
	if len(s) > 8 {
		s = s[:8]
	}
	return s
}

// Valid reports whether s can name a stored record: non-empty, no path
// separators and no leading dot.
func Valid(s string) bool {
	return s != "" && !strings.HasPrefix(s, ".") && !strings.ContainsAny(s, `/\`)
}
