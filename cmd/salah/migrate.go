// ABOUTME: Migration command for moving salah data between storage backends
// ABOUTME: Supports sqlite-to-charm and charm-to-sqlite with safety checks

package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/salah/internal/charm"
	"github.com/harper/salah/internal/config"
	"github.com/harper/salah/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate data between storage backends",
	Long: `Migrate your location, settings, tasbeeh and alarms from the currently
configured backend to a different backend.

Does NOT update the config file; verify the migration was successful then
update config.json manually.

Examples:
  salah migrate --to charm
  salah migrate --to sqlite --data-dir ~/salah-sqlite
  salah migrate --to sqlite --force`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

var (
	migrateTo      string
	migrateDataDir string
	migrateForce   bool
)

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "target backend (sqlite or charm)")
	migrateCmd.Flags().StringVar(&migrateDataDir, "data-dir", "", "target data directory for sqlite (defaults to current config data_dir)")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "allow writing into a non-empty target directory")
	_ = migrateCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	sourceBackend := cfg.GetBackend()
	targetBackend := migrateTo

	if targetBackend != "sqlite" && targetBackend != "charm" {
		return fmt.Errorf("invalid target backend %q: must be \"sqlite\" or \"charm\"", targetBackend)
	}
	if targetBackend == sourceBackend {
		return fmt.Errorf("target backend %q is the same as the current backend", targetBackend)
	}

	targetDataDir := cfg.GetDataDir()
	if migrateDataDir != "" {
		targetDataDir = config.ExpandPath(migrateDataDir)
	}

	if targetBackend == "sqlite" {
		nonEmpty, err := storage.IsDirNonEmpty(targetDataDir)
		if err != nil {
			return fmt.Errorf("check target directory: %w", err)
		}
		if nonEmpty && !migrateForce {
			return fmt.Errorf("target directory %q is not empty; use --force to overwrite", targetDataDir)
		}
	}

	dst, err := openMigrateStorage(targetBackend, targetDataDir)
	if err != nil {
		return fmt.Errorf("open target storage (%s): %w", targetBackend, err)
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: closing target storage: %v\n", cerr)
		}
	}()

	color.Yellow("Migrating salah data:")
	fmt.Printf("  Source:  %s\n", sourceBackend)
	fmt.Printf("  Target:  %s", targetBackend)
	if targetBackend == "sqlite" {
		fmt.Printf(" (%s)", targetDataDir)
	}
	fmt.Println()
	fmt.Println()

	summary, err := storage.MigrateData(repo, dst)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	color.Green("Migration complete!")
	fmt.Printf("  Location: %t\n", summary.Location)
	fmt.Printf("  Alarms:   %d\n", summary.Alarms)
	fmt.Println()
	color.Yellow("Note: config.json was NOT updated. To switch to the new backend, edit:")
	fmt.Printf("  %s\n", config.GetConfigPath())
	fmt.Printf("  Set \"backend\": %q", targetBackend)
	if migrateDataDir != "" {
		fmt.Printf(" and \"data_dir\": %q", migrateDataDir)
	}
	fmt.Println()

	return nil
}

// openMigrateStorage creates a Repository for the given backend and data directory.
func openMigrateStorage(backend, dataDir string) (storage.Repository, error) {
	switch backend {
	case "sqlite":
		return storage.NewSQLiteDB(filepath.Join(dataDir, "salah.db"))
	case "charm":
		return charm.NewClient(charm.DefaultConfig())
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}
