package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/verisage-dev/verisage/internal/forms"
	"github.com/verisage-dev/verisage/internal/model"
)

func newFormCommand(repo *string) *cobra.Command {
	formCmd := &cobra.Command{
		Use:   "form",
		Short: "Submit, inspect and review branch forms",
	}
	formCmd.AddCommand(
		newFormSubmitCommand(repo),
		newFormListCommand(repo),
		newFormShowCommand(repo),
		newFormReviewCommand(repo),
		newFormDeleteCommand(repo),
		newFormBranchesCommand(repo),
	)
	return formCmd
}

// readFormFile decodes a form document. .json files are read as JSON,
// everything else as YAML.
func readFormFile(path string) (model.Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Form{}, fmt.Errorf("reading form file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return forms.DecodeJSON(bytes.NewReader(data))
	}
	return forms.DecodeYAML(data)
}

func newFormSubmitCommand(repo *string) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <file>",
		Short: "Submit a form from a YAML or JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := readFormFile(args[0])
			if err != nil {
				return err
			}
			p, err := openProject(cmd.Context(), *repo)
			if err != nil {
				return err
			}
			defer p.Close()

			stored, err := p.forms.Submit(cmd.Context(), f)
			if err != nil {
				return describeValidation(err)
			}
			printf(cmd, "Submitted %s (%s %s)\n", stored.ID, stored.Branch, stored.Month)
			return nil
		},
	}
}

func newFormListCommand(repo *string) *cobra.Command {
	var filter forms.Filter
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List forms, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter.Status = model.FormStatus(status)
			if status != "" && !filter.Status.Valid() {
				return fmt.Errorf("unknown status %q", status)
			}
			p, err := openProject(cmd.Context(), *repo)
			if err != nil {
				return err
			}
			defer p.Close()

			list, total, err := p.forms.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tBRANCH\tMONTH\tSTATUS\tSUBMITTED")
			for _, f := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", f.ID, f.Branch, f.Month, f.Status, f.SubmittedAt.Format(time.DateTime))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			printf(cmd, "%d of %d forms\n", len(list), total)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "unreviewed, reviewed or posted")
	cmd.Flags().StringVar(&filter.Branch, "branch", "", "branch name contains")
	cmd.Flags().StringVar(&filter.Month, "month", "", "month name")
	cmd.Flags().StringVar(&filter.Search, "search", "", "search branch, pastor, preparer and email")
	cmd.Flags().IntVar(&filter.Offset, "offset", 0, "skip this many forms")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "show at most this many forms (0 = all)")
	return cmd
}

func newFormShowCommand(repo *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd.Context(), *repo)
			if err != nil {
				return err
			}
			defer p.Close()

			f, err := p.forms.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			data, err := forms.EncodeYAML(f)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newFormReviewCommand(repo *string) *cobra.Command {
	return &cobra.Command{
		Use:   "review <id> [patch-file]",
		Short: "Mark a form reviewed, applying the fields of an optional patch document",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.Form
			if len(args) == 2 {
				var err error
				if patch, err = readFormFile(args[1]); err != nil {
					return err
				}
			}
			p, err := openProject(cmd.Context(), *repo)
			if err != nil {
				return err
			}
			defer p.Close()

			f, err := p.forms.Review(cmd.Context(), args[0], patch)
			if err != nil {
				return describeValidation(err)
			}
			printf(cmd, "Reviewed %s (%s %s)\n", f.ID, f.Branch, f.Month)
			return nil
		},
	}
}

func newFormDeleteCommand(repo *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd.Context(), *repo)
			if err != nil {
				return err
			}
			defer p.Close()

			if err := p.forms.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printf(cmd, "Deleted %s\n", args[0])
			return nil
		},
	}
}

// describeValidation expands a validation failure into one line per field.
func describeValidation(err error) error {
	fes := forms.FieldErrors(err)
	if len(fes) == 0 {
		return err
	}
	lines := make([]string, len(fes))
	for i, fe := range fes {
		lines[i] = "  " + fe.Error()
	}
	return fmt.Errorf("%w:\n%s", forms.ErrValidation, strings.Join(lines, "\n"))
}

func newFormBranchesCommand(repo *string) *cobra.Command {
	return &cobra.Command{
		Use:   "branches",
		Short: "List the branch directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd.Context(), *repo)
			if err != nil {
				return err
			}
			defer p.Close()

			for _, name := range p.branches.Names() {
				printf(cmd, "%s\n", name)
			}
			return nil
		},
	}
}
