// Package config reads and writes the project's verisage.yaml.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the config file at the project root.
const FileName = "verisage.yaml"

// Storage backends.
const (
	BackendLocal = "local"
	BackendGCS   = "gcs"
)

// Config represents the top-level verisage.yaml configuration.
type Config struct {
	Organization OrganizationConfig `yaml:"organization"`
	Exports      ExportsConfig      `yaml:"exports"`
	Storage      StorageConfig      `yaml:"storage"`
	Batch        BatchConfig        `yaml:"batch"`
	Forms        FormsConfig        `yaml:"forms"`
	Server       ServerConfig       `yaml:"server"`
	Log          LogConfig          `yaml:"log"`
	Git          GitConfig          `yaml:"git"`
}

// OrganizationConfig identifies the organization filing the forms.
type OrganizationConfig struct {
	Name string `yaml:"name"`
}

// ExportsConfig controls where local batch files go and how they are linked.
// URLPrefix only applies to the local backend; GCS files are linked by
// their object URL.
type ExportsConfig struct {
	Dir       string `yaml:"dir"`        // relative to the project root
	URLPrefix string `yaml:"url_prefix"` // e.g. "/exports"
}

// StorageConfig selects the batch file sink.
type StorageConfig struct {
	Backend string `yaml:"backend"` // "local" or "gcs"
	Bucket  string `yaml:"bucket,omitempty"`
	Prefix  string `yaml:"prefix,omitempty"`
}

// BatchConfig controls batch file generation.
type BatchConfig struct {
	CashAccount string `yaml:"cash_account"`
	Year        int    `yaml:"year"` // 0 = current year
	StrictBulk  bool   `yaml:"strict_bulk"`
}

// FormsConfig controls form intake.
type FormsConfig struct {
	// KnownBranchesOnly rejects forms whose branch is not in the branch directory.
	KnownBranchesOnly bool `yaml:"known_branches_only"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a verisage.yaml file from disk. Missing settings take their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(orgName string) *Config {
	return &Config{
		Organization: OrganizationConfig{Name: orgName},
		Exports: ExportsConfig{
			Dir:       "exports",
			URLPrefix: "/exports",
		},
		Storage: StorageConfig{Backend: BackendLocal},
		Batch:   BatchConfig{CashAccount: "1300"},
		Server:  ServerConfig{Addr: ":5000"},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Verisage",
			AuthorEmail: "verisage@localhost",
		},
	}
}

// Validate reports every inconsistent setting.
func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Backend {
	case BackendLocal:
		if c.Exports.Dir == "" {
			errs = append(errs, errors.New("exports.dir is required for the local backend"))
		}
	case BackendGCS:
		if c.Storage.Bucket == "" {
			errs = append(errs, errors.New("storage.bucket is required for the gcs backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend))
	}
	if c.Batch.CashAccount == "" {
		errs = append(errs, errors.New("batch.cash_account is required"))
	}
	if c.Batch.Year < 0 {
		errs = append(errs, errors.New("batch.year must not be negative"))
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}
