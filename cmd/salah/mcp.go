// ABOUTME: MCP serve command
// ABOUTME: Runs the stdio MCP server so agents can ask for the qibla and prayer times

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/salah/internal/logging"
	"github.com/harper/salah/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI agents",
	Long: `Serve the MCP protocol over stdin/stdout.

Tools: qibla_bearing, get_prayer_times, next_prayer, list_alarms,
add_alarm, set_location. Resource: salah://settings.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(repo, prayerTimes())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Debug("serving MCP on stdio")
		if err := server.Serve(ctx); err != nil {
			// stdout carries the protocol, so the failure is logged to stderr too.
			logging.LogError(logger, "mcp server stopped", err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
