package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verisage-dev/verisage/internal/batch"
	"github.com/verisage-dev/verisage/internal/model"
)

func newPostCommand(repo *string) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "post <id>",
		Short: "Generate the batch file of one form and mark it posted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd.Context(), *repo)
			if err != nil {
				return err
			}
			defer p.Close()

			res, _, err := p.forms.Post(cmd.Context(), args[0], force)
			if err != nil {
				return err
			}
			printf(cmd, "Posted %s: %d rows -> %s\n", args[0], res.RowCount, res.Filepath)
			printf(cmd, "URL: %s\n", res.URL)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "regenerate a form that was already posted")
	return cmd
}

func newPostBulkCommand(repo *string) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "post-bulk [id...]",
		Short: "Generate one batch file for every unposted form, or the listed ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := model.FormStatus(status)
			if status != "" && !st.Valid() {
				return fmt.Errorf("unknown status %q", status)
			}
			p, err := openProject(cmd.Context(), *repo)
			if err != nil {
				return err
			}
			defer p.Close()

			res, err := p.forms.PostBulk(cmd.Context(), args, st)
			printSkipped(cmd, res.Skipped)
			if err != nil {
				return err
			}
			printf(cmd, "Batch %s: %d forms, %d rows -> %s\n", res.BatchID, res.FormCount, res.RowCount, res.Filepath)
			printf(cmd, "URL: %s\n", res.URL)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "only forms with this status (unreviewed or reviewed)")
	return cmd
}

func printSkipped(cmd *cobra.Command, skipped []batch.Skipped) {
	for _, s := range skipped {
		printf(cmd, "Skipped %s (%s %s): %s\n", s.FormID, s.Branch, s.Month, s.Reason)
	}
}
