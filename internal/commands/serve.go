package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/verisage-dev/verisage/internal/api"
)

func newServeCommand(repo *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p, err := openProject(ctx, *repo)
			if err != nil {
				return err
			}
			defer p.Close()

			if addr == "" {
				addr = p.cfg.Server.Addr
			}
			handler := api.NewRouter(p.forms, api.Options{
				ExportsDir: p.exportsDir,
				URLPrefix:  p.cfg.Exports.URLPrefix,
				Branches:   p.branches,
				Log:        p.log,
			})
			return api.Serve(ctx, addr, handler, p.log)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from verisage.yaml)")
	return cmd
}
