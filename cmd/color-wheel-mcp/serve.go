package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/color-wheel-mcp/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve MCP over stdin/stdout (default)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Debug("starting color-wheel-mcp", "version", Version, "built", BuildTime, "commit", GitCommit)

	srv, err := server.New(server.Options{
		Config:  &cfg,
		Logger:  logger,
		Version: Version,
	})
	if err != nil {
		return err
	}
	return srv.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
}
