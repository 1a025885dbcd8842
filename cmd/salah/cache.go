// ABOUTME: Prayer cache maintenance command
// ABOUTME: Prunes cached timings older than a cutoff on backends that support it

package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// cachePruner is implemented by backends that can drop old cache rows.
type cachePruner interface {
	PruneCache(cutoff time.Time) (int64, error)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached prayer times",
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove cached prayer times fetched before a cutoff",
	Long: `Remove cached prayer times fetched more than --older-than ago.

Examples:
  salah cache prune
  salah cache prune --older-than 720h`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		age, _ := cmd.Flags().GetDuration("older-than")
		if age <= 0 {
			return fmt.Errorf("--older-than must be positive")
		}

		p, ok := repo.(cachePruner)
		if !ok {
			fmt.Println("This storage backend does not support pruning.")
			return nil
		}
		n, err := p.PruneCache(time.Now().Add(-age))
		if err != nil {
			return fmt.Errorf("failed to prune cache: %w", err)
		}
		color.Green("✓ Removed %d cached day(s)", n)
		return nil
	},
}

func init() {
	cachePruneCmd.Flags().Duration("older-than", 60*24*time.Hour, "age of entries to remove")

	cacheCmd.AddCommand(cachePruneCmd)
	rootCmd.AddCommand(cacheCmd)
}
