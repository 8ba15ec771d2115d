package gitops

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func gitLog(t *testing.T, dir, format string) string {
	t.Helper()
	cmd := exec.Command("git", "log", "--format="+format, "-1")
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	return string(out)
}

func TestInit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	_, err := os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git directory should exist")
}

func TestIsRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	assert.False(t, IsRepo(dir), "empty dir should not be a repo")

	require.NoError(t, Init(dir))
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")
}

func TestCommitAll(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "verisage.yaml"), []byte("organization:\n  name: Test\n"), 0o644))

	hash, err := CommitAll(dir, "init: Test", "Verisage", "verisage@localhost")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	assert.Contains(t, gitLog(t, dir, "%s"), "init: Test")
	assert.Contains(t, gitLog(t, dir, "%an <%ae>"), "Verisage <verisage@localhost>")
}

func TestCommitAll_NothingToCommit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	_, err := CommitAll(dir, "first", "Verisage", "verisage@localhost")
	require.NoError(t, err)

	_, err = CommitAll(dir, "second", "Verisage", "verisage@localhost")
	assert.ErrorIs(t, err, ErrNothingToCommit)
}

func TestCommitter(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	c := Committer{Dir: dir, AuthorName: "Verisage", AuthorEmail: "verisage@localhost"}

	_, err := c.Commit("post: AJAH DECEMBER")
	require.Error(t, err, "not a repository yet")

	require.NoError(t, Init(dir))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "exports"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "exports", "AJAH_DECEMBER_1.csv"), []byte("x\n"), 0o644))

	hash, err := c.Commit("post: AJAH DECEMBER -> AJAH_DECEMBER_1.csv")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.Contains(t, gitLog(t, dir, "%s"), "AJAH_DECEMBER_1.csv")
}
