package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/verisage-dev/verisage/internal/accounts"
	"github.com/verisage-dev/verisage/internal/batch"
	"github.com/verisage-dev/verisage/internal/config"
)

func newVerifyCommand(repo *string) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <batch.csv>",
		Short: "Check that a batch file is well formed and balanced",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			checker, err := projectAccounts(*repo)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening batch file: %w", err)
			}
			defer f.Close()

			rows, err := batch.ReadRows(f)
			if err != nil {
				return err
			}

			verrs := batch.ValidateRows(rows, checker)
			for _, ve := range verrs {
				printf(cmd, "  %s\n", ve.Error())
			}
			if len(verrs) > 0 {
				return fmt.Errorf("%s: %d problems: %w", filepath.Base(args[0]), len(verrs), batch.ErrUnbalanced)
			}

			debit, credit := decimal.Zero, decimal.Zero
			refs := make(map[string]bool)
			for _, r := range rows {
				refs[r.Reference] = true
				if r.IsDebit() {
					debit = debit.Add(r.Amount)
				} else {
					credit = credit.Add(r.Amount)
				}
			}
			printf(cmd, "OK: %d rows, %d references, debits %s = credits %s\n", len(rows), len(refs), debit, credit)
			return nil
		},
	}
}

// projectAccounts returns the known accounts of the project at repo, or nil
// (no account check) when repo is not a project.
func projectAccounts(repo string) (batch.AccountChecker, error) {
	cfg, err := config.Load(filepath.Join(repo, config.FileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	table, err := accounts.Load(repo)
	if err != nil {
		return nil, err
	}
	return batch.NewGenerator(table, batch.WithCashAccount(cfg.Batch.CashAccount)).KnownAccounts(), nil
}
