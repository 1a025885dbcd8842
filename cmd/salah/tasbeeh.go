// ABOUTME: Tasbeeh counter commands
// ABOUTME: Counts dhikr taps against a target and switches phrases

package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/harper/salah/internal/models"
	"github.com/harper/salah/internal/ui"
	"github.com/spf13/cobra"
)

var tasbeehCmd = &cobra.Command{
	Use:     "tasbeeh",
	Aliases: []string{"tb"},
	Short:   "Count dhikr",
	Long: `A persistent dhikr counter with selectable phrases and targets.

Examples:
  salah tasbeeh
  salah tasbeeh tap
  salah tasbeeh tap 10
  salah tasbeeh phrase 2
  salah tasbeeh target 100
  salah tasbeeh reset`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tasbeehShowCmd.RunE(cmd, args)
	},
}

var tasbeehShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the counter",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := repo.GetTasbeeh()
		if err != nil {
			return fmt.Errorf("failed to load tasbeeh: %w", err)
		}
		fmt.Println(ui.FormatTasbeeh(t))
		return nil
	},
}

var tasbeehTapCmd = &cobra.Command{
	Use:   "tap [count]",
	Short: "Count one or more taps",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n := 1
		if len(args) == 1 {
			var err error
			n, err = strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("count must be a positive number")
			}
		}

		t, err := repo.GetTasbeeh()
		if err != nil {
			return fmt.Errorf("failed to load tasbeeh: %w", err)
		}
		reached := false
		for i := 0; i < n; i++ {
			if t.Increment() {
				reached = true
			}
		}
		if err := repo.SaveTasbeeh(t); err != nil {
			return fmt.Errorf("failed to save tasbeeh: %w", err)
		}

		fmt.Println(ui.FormatTasbeeh(t))
		if reached {
			color.Green("✓ Target of %d reached", t.Target)
		}
		return nil
	},
}

var tasbeehResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the count to zero",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateTasbeeh(func(t *models.Tasbeeh) error {
			t.Reset()
			return nil
		})
	},
}

var tasbeehPhraseCmd = &cobra.Command{
	Use:   "phrase [index]",
	Short: "List phrases or select one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			t, err := repo.GetTasbeeh()
			if err != nil {
				return fmt.Errorf("failed to load tasbeeh: %w", err)
			}
			for i, p := range models.Phrases {
				marker := "  "
				if i == t.PhraseIndex {
					marker = color.GreenString("▶ ")
				}
				fmt.Printf("%s%d. %s\n", marker, i, p)
			}
			return nil
		}
		i, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid phrase index: %w", err)
		}
		return updateTasbeeh(func(t *models.Tasbeeh) error {
			return t.SetPhrase(i)
		})
	},
}

var tasbeehTargetCmd = &cobra.Command{
	Use:   "target <33|100|1000|0>",
	Short: "Set the target (0 counts without limit)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid target: %w", err)
		}
		return updateTasbeeh(func(t *models.Tasbeeh) error {
			return t.SetTarget(target)
		})
	},
}

func init() {
	tasbeehCmd.AddCommand(tasbeehShowCmd)
	tasbeehCmd.AddCommand(tasbeehTapCmd)
	tasbeehCmd.AddCommand(tasbeehResetCmd)
	tasbeehCmd.AddCommand(tasbeehPhraseCmd)
	tasbeehCmd.AddCommand(tasbeehTargetCmd)

	rootCmd.AddCommand(tasbeehCmd)
}

func updateTasbeeh(fn func(t *models.Tasbeeh) error) error {
	t, err := repo.GetTasbeeh()
	if err != nil {
		return fmt.Errorf("failed to load tasbeeh: %w", err)
	}
	if err := fn(t); err != nil {
		return err
	}
	if err := repo.SaveTasbeeh(t); err != nil {
		return fmt.Errorf("failed to save tasbeeh: %w", err)
	}
	fmt.Println(ui.FormatTasbeeh(t))
	return nil
}
