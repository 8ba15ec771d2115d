package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/verisage-dev/verisage/internal/accounts"
	"github.com/verisage-dev/verisage/internal/branches"
	"github.com/verisage-dev/verisage/internal/config"
	"github.com/verisage-dev/verisage/internal/forms"
	"github.com/verisage-dev/verisage/internal/gitops"
)

func newInitCommand() *cobra.Command {
	var name string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new verisage project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, name, !noGit)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "organization name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "skip git init and the initial commit")

	return cmd
}

func runInit(cmd *cobra.Command, dir, name string, withGit bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	cfg := config.Default(name)

	// Create directory structure.
	dirs := []string{
		"accounts",
		forms.Dir,
		cfg.Exports.Dir,
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := accounts.Default().Save(dir); err != nil {
		return fmt.Errorf("writing account map: %w", err)
	}

	if err := branches.Default().Save(dir); err != nil {
		return fmt.Errorf("writing branch directory: %w", err)
	}

	// Temp files of interrupted writes never belong in history.
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(".tmp-*\n"), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Keep empty directories in version control.
	for _, d := range []string{forms.Dir, cfg.Exports.Dir, "import"} {
		if err := os.WriteFile(filepath.Join(dir, d, ".gitkeep"), []byte{}, 0o644); err != nil {
			return fmt.Errorf("writing .gitkeep: %w", err)
		}
	}

	if !withGit {
		printf(cmd, "Initialized verisage project at %s\n", dir)
		return nil
	}

	if err := gitops.Init(dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	hash, err := gitops.CommitAll(dir, "init: Initialize "+name, cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	printf(cmd, "Initialized verisage project at %s (%s)\n", dir, hash)
	return nil
}
