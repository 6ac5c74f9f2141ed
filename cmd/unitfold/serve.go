// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/unitfold/unitfold/internal/calcserver"
	"github.com/unitfold/unitfold/internal/issue"

	"github.com/spf13/cobra"
)

func newServeCommand(app *App) *cobra.Command {
	var (
		host    string
		port    int
		hostKey string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the SSH unit calculator",
		Long: `Run an SSH server that evaluates statements for remote clients.

  ssh -p 2323 127.0.0.1 '1 км/ч=>м/с'    evaluate one statement
  ssh -p 2323 127.0.0.1                 interactive session

Each session keeps its own interpreter over the shared catalog. Without
--host-key the server uses an ephemeral key generated at startup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			env, err := app.loadEnvironment(ctx)
			if err != nil {
				return app.fail(cmd, err)
			}

			if cmd.Flags().Changed("host") {
				env.cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				env.cfg.Server.Port = port
			}

			srv, err := calcserver.New(env.catalog, calcserver.Config{
				Host:          env.cfg.Server.Host,
				Port:          env.cfg.Server.Port,
				MaxLineLength: env.cfg.Server.MaxLineLength,
				Formatter:     env.formatter(),
				HostKeyPath:   hostKey,
			}, calcserver.WithLogger(app.logger.WithPrefix("calc-server")))
			if err != nil {
				return app.fail(cmd, err)
			}

			if err := srv.Start(ctx); err != nil {
				return app.fail(cmd, issue.NewErrorContext().
					WithOperation("start SSH calculator").
					WithResource(env.cfg.Server.Addr()).
					WithIssue(issue.ServerStartFailedId).
					WithSuggestion("Pick a free port with --port or server.port").
					Wrap(err).
					BuildError())
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s SSH calculator listening on %s\n",
				SuccessStyle.Render("✓"), TagStyle.Render(srv.Address()))

			var serveErr error
			select {
			case <-ctx.Done():
			case serveErr = <-srv.Err():
			}

			if err := srv.Stop(); err != nil && serveErr == nil {
				serveErr = err
			}
			if serveErr != nil {
				return app.fail(cmd, serveErr)
			}
			fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("server stopped"))
			return nil
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "bind host (overrides server.host)")
	cmd.Flags().IntVar(&port, "port", 0, "bind port (overrides server.port, 0 picks a free port)")
	cmd.Flags().StringVar(&hostKey, "host-key", "", "persistent host key file (generated on first use)")

	return cmd
}
