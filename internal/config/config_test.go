package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Test Mission")
	cfg.Storage = StorageConfig{Backend: BackendGCS, Bucket: "hq-batches", Prefix: "2025"}
	cfg.Batch.Year = 2025
	cfg.Batch.StrictBulk = true

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Mission")

	assert.Equal(t, "My Mission", cfg.Organization.Name)
	assert.Equal(t, "exports", cfg.Exports.Dir)
	assert.Equal(t, "/exports", cfg.Exports.URLPrefix)
	assert.Equal(t, BackendLocal, cfg.Storage.Backend)
	assert.Equal(t, "1300", cfg.Batch.CashAccount)
	assert.Zero(t, cfg.Batch.Year)
	assert.False(t, cfg.Batch.StrictBulk)
	assert.False(t, cfg.Forms.KnownBranchesOnly)
	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Git.AutoCommit)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("organization:\n  name: Partial\nbatch:\n  strict_bulk: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Partial", cfg.Organization.Name)
	assert.True(t, cfg.Batch.StrictBulk)
	assert.Equal(t, "1300", cfg.Batch.CashAccount)
	assert.Equal(t, "exports", cfg.Exports.Dir)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"gcs without bucket", "storage:\n  backend: gcs\n", "storage.bucket"},
		{"unknown backend", "storage:\n  backend: s3\n", "unknown backend"},
		{"empty cash account", "batch:\n  cash_account: \"\"\n", "cash_account"},
		{"negative year", "batch:\n  year: -1\n", "batch.year"},
		{"log format", "log:\n  format: xml\n", "log.format"},
		{"syntax", "batch: [\n", "parsing config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default("Test Mission")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Test Mission")
	assert.Contains(t, contents, `cash_account: "1300"`)
	assert.Contains(t, contents, "backend: local")
	assert.Contains(t, contents, "auto_commit: true")
	assert.Contains(t, contents, "known_branches_only: false")
	assert.NotContains(t, contents, "bucket:")
}
