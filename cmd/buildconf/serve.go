package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nauticalab/buildconf/internal/api"
	"github.com/nauticalab/buildconf/internal/logging"
)

var (
	// Serve command flags
	servePort int
	serveDir  string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the configuration inspection API",
	Long: `Run an HTTP server exposing the resolved configuration, the default
registry and on-demand validation.

Endpoints:
  GET  /api/v1/health
  GET  /api/v1/version
  GET  /api/v1/defaults
  GET  /api/v1/config?phase=<phase>
  POST /api/v1/validate`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New("api")

		server, err := api.NewServer(api.ServerConfig{
			Port:      servePort,
			Dir:       serveDir,
			Resolver:  newResolver(),
			Logger:    log,
			Version:   version,
			GitCommit: gitCommit,
			BuildTime: buildTime,
			GoVersion: goVersion,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return server.StartWithContext(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8480, "Port to listen on")
	serveCmd.Flags().StringVar(&serveDir, "dir", ".", "Directory to resolve configuration for")
}
