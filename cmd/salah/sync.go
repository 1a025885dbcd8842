// ABOUTME: Sync subcommand for Charm cloud sync
// ABOUTME: Provides status, link, unlink, repair, reset and wipe for the charm backend

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/fatih/color"
	"github.com/harper/salah/internal/charm"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Manage cloud sync for salah data",
	Long: `Sync your location, settings and alarms with Charm Cloud using SSH key
authentication. Only used when the "charm" backend is configured.

Commands:
  status  - Show sync status and user info
  link    - Link this device to your Charm account
  unlink  - Unlink this device from your account
  repair  - Repair corrupted database (checkpoint WAL, check integrity, vacuum)
  reset   - Reset local database from cloud (discards local changes)
  wipe    - Permanently delete all data (local and cloud)

Examples:
  salah sync status
  salah sync link
  salah sync repair --force
  salah sync wipe`,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Backend:    %s\n", cfg.GetBackend())
		fmt.Fprintf(out, "Charm Host: %s\n", charm.DefaultConfig().CharmHost)
		fmt.Fprintf(out, "Database:   %s\n", charm.DBName)

		state, user := "Not connected", ""
		if cc, err := client.NewClientWithDefaults(); err == nil {
			state = "Not linked"
			if id, err := cc.ID(); err == nil {
				state, user = "Connected", id
			}
		}

		if user == "" {
			color.Yellow("\nStatus: %s", state)
			fmt.Fprintln(out, "Run 'salah sync link' to connect your account.")
			return nil
		}
		fmt.Fprintf(out, "\nUser ID: %s\n", user)
		color.Green("Status: %s", state)
		if cfg.GetBackend() != "charm" {
			fmt.Fprintln(out, "\nSet \"backend\": \"charm\" in config.json to sync automatically.")
		}
		return nil
	},
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this device to your Charm account",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Starting Charm link process...")
		fmt.Println()

		if err := runCharm("link"); err != nil {
			return fmt.Errorf("failed to run 'charm link': %w\nMake sure the charm CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}

		color.Green("\n✓ Device linked successfully")
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Unlink this device from your Charm account",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Unlinking device from Charm...")

		if err := runCharm("unlink"); err != nil {
			return fmt.Errorf("failed to run 'charm unlink': %w", err)
		}

		color.Green("\n✓ Device unlinked")
		fmt.Println("Local data is preserved. Sync is disabled.")
		return nil
	},
}

var repairForce bool

var syncRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair corrupted database",
	Long: `Attempt to repair a corrupted salah database.

Steps performed:
  1. Checkpoint WAL (merge pending writes)
  2. Remove stale SHM file
  3. Run integrity check
  4. Vacuum database

With --force, a failed integrity check also tries REINDEX and finally resets from the cloud.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Repairing salah database...")
		fmt.Println()

		result, err := kv.Repair(charm.DBName, repairForce)
		if err != nil && !repairForce {
			color.Red("✗ Repair failed: %v", err)
			fmt.Println("\nRun with --force to attempt recovery:")
			fmt.Println("  salah sync repair --force")
			return err
		} else if err != nil {
			color.Red("✗ Repair failed even with --force: %v", err)
			return err
		}

		printRepairSteps(cmd.OutOrStdout(), []repairStep{
			{result.WalCheckpointed, "✓ WAL checkpointed", color.GreenString},
			{result.ShmRemoved, "✓ SHM file removed", color.GreenString},
			{result.IntegrityOK, "✓ Integrity check passed", color.GreenString},
			{!result.IntegrityOK, "✗ Integrity check failed", color.RedString},
			{result.Vacuumed, "✓ Database vacuumed", color.GreenString},
			{result.RecoveryAttempted, "⚠ Recovery attempted (REINDEX)", color.YellowString},
			{result.ResetFromCloud, "⚠ Reset from cloud", color.YellowString},
		})
		if result.Error != nil {
			fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("  ⚠ Warning: %v", result.Error))
		}

		color.Green("\n✓ Repair completed")
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset local database from cloud",
	Long: `Delete the local database and pull fresh data from Charm Cloud.

WARNING: Any local changes not yet synced to cloud will be lost.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("This will DELETE your local database and pull fresh data from the cloud.")
		color.Yellow("WARNING: Any unsynced local changes will be lost.")
		if !confirmPrompt("\nContinue? (y/N): ", "y", "yes") {
			fmt.Println("Aborted.")
			return nil
		}

		fmt.Println("\nResetting database...")
		if err := kv.Reset(charm.DBName); err != nil {
			return fmt.Errorf("failed to reset: %w", err)
		}

		color.Green("✓ Database reset from cloud")
		return nil
	},
}

var syncWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Permanently delete all data (local and cloud)",
	Long: `Permanently delete ALL salah data, both local and on Charm Cloud.

This is DESTRUCTIVE and CANNOT be undone. It affects every linked device.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("This will PERMANENTLY DELETE all salah data.")
		color.Red("WARNING: This deletes data from ALL linked devices and cloud backups.")
		color.Red("WARNING: This action CANNOT be undone.")
		if !confirmPrompt("\nType 'wipe' to confirm: ", "wipe") {
			fmt.Println("Aborted.")
			return nil
		}

		fmt.Println("\nWiping all data...")
		result, err := kv.Wipe(charm.DBName)
		if err != nil {
			return fmt.Errorf("failed to wipe: %w", err)
		}

		fmt.Println()
		if result.CloudBackupsDeleted > 0 {
			color.Green("✓ Deleted %d cloud backup(s)", result.CloudBackupsDeleted)
		}
		if result.LocalFilesDeleted > 0 {
			color.Green("✓ Deleted %d local file(s)", result.LocalFilesDeleted)
		}
		if result.Error != nil {
			color.Yellow("⚠ Warning: %v", result.Error)
		}

		fmt.Println()
		color.Green("✓ All data wiped")
		fmt.Println("Run 'salah location set' to start again.")
		return nil
	},
}

func init() {
	syncRepairCmd.Flags().BoolVarP(&repairForce, "force", "f", false, "Force recovery even if integrity check fails")

	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncRepairCmd)
	syncCmd.AddCommand(syncResetCmd)
	syncCmd.AddCommand(syncWipeCmd)

	rootCmd.AddCommand(syncCmd)
}

func runCharm(arg string) error {
	c := exec.Command("charm", arg) //nolint:gosec // fixed subcommands
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

type repairStep struct {
	done  bool
	msg   string
	paint func(format string, a ...interface{}) string
}

func printRepairSteps(out io.Writer, steps []repairStep) {
	fmt.Fprintln(out, "Repair results:")
	for _, st := range steps {
		if st.done {
			fmt.Fprintln(out, "  "+st.paint("%s", st.msg))
		}
	}
}

// confirmPrompt reads one line from stdin and reports whether it matches any
// of the accepted answers, ignoring case.
func confirmPrompt(prompt string, accept ...string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.ToLower(strings.TrimSpace(response))
	for _, a := range accept {
		if response == a {
			return true
		}
	}
	return false
}
