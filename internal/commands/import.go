package commands

import (
	"github.com/spf13/cobra"

	"github.com/verisage-dev/verisage/internal/importer"
)

func newImportCommand(repo *string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Submit the forms in every spreadsheet under import/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd.Context(), *repo)
			if err != nil {
				return err
			}
			defer p.Close()

			reports, err := importer.Run(cmd.Context(), p.root, importer.DefaultRegistry(), format, p.forms)
			for _, rep := range reports {
				printf(cmd, "%s: %d submitted, %d rejected\n", rep.File, len(rep.Submitted), len(rep.Rejected))
				for _, re := range rep.Rejected {
					printf(cmd, "  form %d (%s): %v\n", re.Index, re.Branch, re.Err)
				}
			}
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				printf(cmd, "Nothing to import\n")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "only import files of this format (csv or xlsx)")
	return cmd
}
