// Package storage persists generated batch files.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sink stores a named file and returns where it ended up.
type Sink interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
	// Remove deletes a stored file. Removing a missing file is not an error.
	Remove(ctx context.Context, name string) error
}

// Locator is implemented by sinks whose files are reachable at a URL of
// their own rather than through the server's export route.
type Locator interface {
	URL(name string) string
}

// Dir is a Sink writing into a local directory.
type Dir struct {
	root string
}

// NewDir creates a Dir sink rooted at root. The directory is created on first write.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Root returns the directory files are written to.
func (d *Dir) Root() string {
	return d.root
}

// Put writes data to <root>/<name>. The content goes to a temp file in the
// same directory first and is renamed into place once synced, so name never
// refers to a partial file.
func (d *Dir) Put(ctx context.Context, name string, data []byte) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}

	tmp, err := os.CreateTemp(d.root, ".tmp-"+name+"-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		return "", fmt.Errorf("syncing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", name, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return "", fmt.Errorf("setting mode on %s: %w", name, err)
	}

	path := filepath.Join(d.root, name)
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("moving %s into place: %w", name, err)
	}
	committed = true
	return path, nil
}

// Remove deletes <root>/<name>.
func (d *Dir) Remove(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(d.root, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", name, err)
	}
	return nil
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid file name %q", name)
	}
	return nil
}
