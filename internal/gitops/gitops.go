// Package gitops keeps the project directory under version control.
package gitops

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNothingToCommit is returned when the working tree has no changes.
var ErrNothingToCommit = errors.New("nothing to commit")

func git(dir string, args ...string) (string, error) {
	return gitEnv(dir, nil, args...)
}

func gitEnv(dir string, env []string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if env != nil {
		cmd.Env = append(os.Environ(), env...)
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Init initializes a new git repository at dir.
func Init(dir string) error {
	_, err := git(dir, "init")
	return err
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// CommitAll stages all files and creates a commit. Returns the short commit hash.
func CommitAll(dir, message, authorName, authorEmail string) (string, error) {
	if _, err := git(dir, "add", "-A"); err != nil {
		return "", err
	}

	status, err := git(dir, "status", "--porcelain")
	if err != nil {
		return "", err
	}
	if status == "" {
		return "", ErrNothingToCommit
	}

	author := fmt.Sprintf("%s <%s>", authorName, authorEmail)
	env := []string{"GIT_COMMITTER_NAME=" + authorName, "GIT_COMMITTER_EMAIL=" + authorEmail}
	if _, err := gitEnv(dir, env, "commit", "-m", message, "--author", author); err != nil {
		return "", err
	}
	return git(dir, "rev-parse", "--short", "HEAD")
}

// Committer commits a project directory with a fixed author.
type Committer struct {
	Dir         string
	AuthorName  string
	AuthorEmail string
}

// Commit stages and commits every change in the project directory.
func (c Committer) Commit(message string) (string, error) {
	if !IsRepo(c.Dir) {
		return "", fmt.Errorf("%s is not a git repository", c.Dir)
	}
	return CommitAll(c.Dir, message, c.AuthorName, c.AuthorEmail)
}
