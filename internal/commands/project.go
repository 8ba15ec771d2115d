package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/verisage-dev/verisage/internal/accounts"
	"github.com/verisage-dev/verisage/internal/batch"
	"github.com/verisage-dev/verisage/internal/branches"
	"github.com/verisage-dev/verisage/internal/config"
	"github.com/verisage-dev/verisage/internal/forms"
	"github.com/verisage-dev/verisage/internal/gitops"
	"github.com/verisage-dev/verisage/internal/logger"
	"github.com/verisage-dev/verisage/internal/storage"
)

// project is an opened verisage project with its services wired.
type project struct {
	root     string
	cfg      *config.Config
	log      zerolog.Logger
	batches  *batch.Service
	forms    *forms.Service
	branches *branches.Directory
	// exportsDir is set for the local backend only.
	exportsDir string
	close      func() error
}

func openProject(ctx context.Context, repo string) (*project, error) {
	root, err := filepath.Abs(repo)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	table, err := accounts.Load(root)
	if err != nil {
		return nil, err
	}

	branchDir, err := branches.Load(root)
	if err != nil {
		return nil, err
	}

	p := &project{root: root, cfg: cfg, log: log, branches: branchDir, close: func() error { return nil }}

	var sink storage.Sink
	switch cfg.Storage.Backend {
	case config.BackendGCS:
		gcs, err := storage.NewGCS(ctx, cfg.Storage.Bucket, cfg.Storage.Prefix)
		if err != nil {
			return nil, err
		}
		sink = gcs
		p.close = gcs.Close
	default:
		p.exportsDir = filepath.Join(root, cfg.Exports.Dir)
		sink = storage.NewDir(p.exportsDir)
	}

	gen := batch.NewGenerator(table,
		batch.WithCashAccount(cfg.Batch.CashAccount),
		batch.WithYear(cfg.Batch.Year))
	p.batches = batch.NewService(gen, sink,
		batch.WithURLPrefix(cfg.Exports.URLPrefix),
		batch.WithStrictBulk(cfg.Batch.StrictBulk),
		batch.WithLogger(log))

	opts := []forms.Option{
		forms.WithBatchLog(root),
		forms.WithLogger(log),
	}
	if cfg.Forms.KnownBranchesOnly {
		opts = append(opts, forms.WithKnownBranches(branchDir))
	}
	if cfg.Git.AutoCommit && gitops.IsRepo(root) {
		opts = append(opts, forms.WithCommitter(gitops.Committer{
			Dir:         root,
			AuthorName:  cfg.Git.AuthorName,
			AuthorEmail: cfg.Git.AuthorEmail,
		}))
	}
	p.forms = forms.NewService(forms.NewStore(root), p.batches, opts...)
	return p, nil
}

func (p *project) Close() error {
	return p.close()
}
