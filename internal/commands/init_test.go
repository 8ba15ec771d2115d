package commands_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verisage-dev/verisage/internal/accounts"
	"github.com/verisage-dev/verisage/internal/branches"
	"github.com/verisage-dev/verisage/internal/commands"
	"github.com/verisage-dev/verisage/internal/config"
)

func runVerisage(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := commands.NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func initProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := runVerisage(t, "init", dir, "--name", "Test Mission", "--no-git")
	require.NoError(t, err)
	return dir
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := initProject(t)

	for _, d := range []string{"accounts", "forms", "exports", "logs", "import", filepath.Join("import", "processed")} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
	_, err := os.Stat(filepath.Join(dir, ".git"))
	assert.True(t, os.IsNotExist(err), "--no-git skips git init")
}

func TestInit_Config(t *testing.T) {
	dir := initProject(t)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, "Test Mission", cfg.Organization.Name)
	assert.Equal(t, "1300", cfg.Batch.CashAccount)
}

func TestInit_AccountMap(t *testing.T) {
	dir := initProject(t)

	table, err := accounts.Load(dir)
	require.NoError(t, err)
	assert.Len(t, table.All(), len(accounts.DefaultMapping()))
}

func TestInit_BranchDirectory(t *testing.T) {
	dir := initProject(t)

	_, err := os.Stat(filepath.Join(dir, branches.File))
	require.NoError(t, err)
	d, err := branches.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, branches.DefaultNames(), d.Names())
}

func TestInit_AlreadyInitialized(t *testing.T) {
	dir := initProject(t)
	_, err := runVerisage(t, "init", dir, "--name", "Again", "--no-git")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInit_RequiresName(t *testing.T) {
	_, err := runVerisage(t, "init", t.TempDir())
	require.Error(t, err, "init without --name should fail")
}

func TestInit_GitRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	out, err := runVerisage(t, "init", dir, "--name", "Test Mission")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized verisage project")

	log := exec.Command("git", "log", "--format=%s|%an <%ae>", "-1")
	log.Dir = dir
	got, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(got), "init: Initialize Test Mission|Verisage <verisage@localhost>")
}
