// ABOUTME: Live compass command
// ABOUTME: Streams headings from a sensor through the alignment tracker until interrupted

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/harper/salah/internal/compass"
	"github.com/harper/salah/internal/heading"
	"github.com/spf13/cobra"
)

var compassCmd = &cobra.Command{
	Use:     "compass",
	Aliases: []string{"c"},
	Short:   "Turn until you face the qibla",
	Long: `Read device headings and show how far to turn to face the qibla.

Heading sources:
  stdin            one heading in degrees per line (default)
  file:<path>      replay a recorded heading log, one line per --interval
  serial:<port>    a serial compass module, e.g. serial:/dev/ttyUSB0

The terminal bell rings each time you come into alignment.

Examples:
  salah compass --source serial:/dev/ttyUSB0 --baud 115200
  some-sensor-reader | salah compass
  salah compass --source file:session.log --interval 50ms
  salah compass --heading 120
  salah compass --list-ports`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if list, _ := cmd.Flags().GetBool("list-ports"); list {
			ports, err := heading.ListPorts()
			if err != nil {
				return fmt.Errorf("failed to list serial ports: %w", err)
			}
			if len(ports) == 0 {
				fmt.Fprintln(out, "No serial ports found.")
				return nil
			}
			for _, p := range ports {
				fmt.Fprintln(out, p)
			}
			return nil
		}

		loc, err := savedLocation()
		if err != nil {
			return err
		}
		observer := loc.Coordinate()
		opts := compassOptions(cmd)

		if cmd.Flags().Changed("heading") {
			h, _ := cmd.Flags().GetFloat64("heading")
			b, state, err := compass.Evaluate(observer, &h, opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, compass.FormatState(b, state))
			return nil
		}

		src, err := openHeadingSource(cmd)
		if err != nil {
			return err
		}
		noBell, _ := cmd.Flags().GetBool("no-bell")
		session, err := compass.NewSession(&observer, src, compass.NewTerminalFeedback(out, !noBell), opts)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(out, "%s (Ctrl+C to stop)\n", formatSessionHeader(loc.String(), session))
		err = session.Run(ctx)
		fmt.Fprintln(out)
		return err
	},
}

func init() {
	compassCmd.Flags().String("source", "", "heading source: stdin, file:<path> or serial:<port> (default from config)")
	compassCmd.Flags().Float64("heading", 0, "evaluate a single heading in degrees and exit")
	compassCmd.Flags().Float64("threshold", 0, "alignment band in degrees (default 5)")
	compassCmd.Flags().Float64("exit-threshold", 0, "band to leave alignment, for hysteresis (default: same as --threshold)")
	compassCmd.Flags().Duration("interval", 0, "delay between replayed lines for file sources (default from config, else 100ms)")
	compassCmd.Flags().Int("baud", 0, "serial baud rate (default from config, else 4800)")
	compassCmd.Flags().Bool("no-bell", false, "do not ring the terminal bell on alignment")
	compassCmd.Flags().Bool("list-ports", false, "list serial ports and exit")

	rootCmd.AddCommand(compassCmd)
}

// compassOptions merges flags over the configured thresholds.
func compassOptions(cmd *cobra.Command) compass.Options {
	var opts compass.Options
	if cfg != nil {
		opts.Threshold = cfg.Threshold
		opts.ExitThreshold = cfg.ExitThreshold
	}
	if cmd.Flags().Changed("threshold") {
		opts.Threshold, _ = cmd.Flags().GetFloat64("threshold")
	}
	if cmd.Flags().Changed("exit-threshold") {
		opts.ExitThreshold, _ = cmd.Flags().GetFloat64("exit-threshold")
	}
	return opts
}

func openHeadingSource(cmd *cobra.Command) (heading.Source, error) {
	source, _ := cmd.Flags().GetString("source")
	var portOpts heading.PortOptions
	if cfg != nil {
		if source == "" {
			source = cfg.Heading
		}
		portOpts = cfg.Serial
	}
	if baud, _ := cmd.Flags().GetInt("baud"); baud > 0 {
		portOpts.BaudRate = baud
	}

	var readerOpts []heading.ReaderOption
	if strings.HasPrefix(source, "file:") {
		interval, err := replayInterval(cmd)
		if err != nil {
			return nil, err
		}
		readerOpts = append(readerOpts, heading.WithInterval(interval))
	}
	return heading.Open(source, portOpts, readerOpts...)
}

// replayInterval prefers --interval, then the config file.
func replayInterval(cmd *cobra.Command) (time.Duration, error) {
	if cmd.Flags().Changed("interval") {
		d, _ := cmd.Flags().GetDuration("interval")
		if d < 0 {
			return 0, fmt.Errorf("--interval must not be negative")
		}
		return d, nil
	}
	if cfg != nil {
		return cfg.GetReplayInterval()
	}
	return heading.DefaultReplayInterval, nil
}

func formatSessionHeader(place string, s *compass.Session) string {
	b := s.Bearing()
	return fmt.Sprintf("Qibla from %s: %.1f° %s", place, b.Degrees(), b.Cardinal())
}
