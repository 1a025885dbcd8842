// ABOUTME: HTTP API serve command
// ABOUTME: Exposes qibla, alignment and prayer endpoints until interrupted

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/salah/internal/api"
	"github.com/harper/salah/internal/logging"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serve a small JSON API for the qibla bearing, alignment checks and prayer times.

Endpoints:
  GET /healthz
  GET /v1/qibla?lat=&lng=
  GET /v1/alignment?lat=&lng=&heading=
  GET /v1/times?date=YYYY-MM-DD
  GET /v1/next
  GET /v1/alarms
  GET /v1/alarms/:id

Examples:
  salah serve
  salah serve --listen 0.0.0.0:8788`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("listen")
		if addr == "" {
			addr = cfg.GetListen()
		}

		server := api.New(repo, prayerTimes(), logging.Slog(logger), compassOptions(cmd))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("serving HTTP API", "addr", addr)
		return server.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "listen address (default from config, else 127.0.0.1:8788)")
	serveCmd.Flags().Float64("threshold", 0, "alignment band in degrees for /v1/alignment")
	serveCmd.Flags().Float64("exit-threshold", 0, "band to leave alignment")

	rootCmd.AddCommand(serveCmd)
}
