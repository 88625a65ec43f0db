package main

import (
	"github.com/spf13/cobra"

	"github.com/Blackdeer1524/hashkit/src/app"
)

func newServeCmd() *cobra.Command {
	var envHelp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP hash and entropy service",
		Long:  "Run the HTTP hash and entropy service. It reads HASHKIT_* environment variables, optionally from a .env file.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if envHelp {
				return app.PrintUsage(cmd.OutOrStdout())
			}

			var e app.APIEntrypoint
			return e.Serve(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&envHelp, "env-help", false, "list the environment variables and exit")

	return cmd
}
