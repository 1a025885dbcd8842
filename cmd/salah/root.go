// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads .env and config, sets up logging, and opens the storage backend

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harper/salah/internal/config"
	"github.com/harper/salah/internal/logging"
	"github.com/harper/salah/internal/models"
	"github.com/harper/salah/internal/prayer"
	"github.com/harper/salah/internal/storage"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	repo   storage.Repository
	logger *log.Logger

	// times overrides the prayer time provider; tests install a fake here.
	times prayer.Provider

	logLevel string
	envFile  string
)

var rootCmd = &cobra.Command{
	Use:   "salah",
	Short: "Qibla direction, prayer times and daily reminders",
	Long: `
███████╗ █████╗ ██╗      █████╗ ██╗  ██╗
██╔════╝██╔══██╗██║     ██╔══██╗██║  ██║
███████╗███████║██║     ███████║███████║
╚════██║██╔══██║██║     ██╔══██║██╔══██║
███████║██║  ██║███████╗██║  ██║██║  ██║
╚══════╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝

     Find the qibla and keep track of the day's prayers

Examples:
  salah location set 51.5074 -0.1278 --city London --country UK
  salah qibla
  salah compass --source serial:/dev/ttyUSB0
  salah times
  salah next`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(envFile); err != nil {
			return err
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		level := cfg.LogLevel
		if logLevel != "" {
			level = logLevel
		}
		logger, err = logging.Setup(os.Stderr, logging.Options{Level: level})
		if err != nil {
			return err
		}

		repo, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
		if repo.IsReadOnly() {
			logger.Warn("storage is read-only; changes will not be saved")
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if repo == nil {
			return nil
		}
		if err := repo.Close(); err != nil {
			logging.LogError(logger, "failed to close storage", err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "environment file to load before reading config")
}

// prayerTimes returns the provider used by commands that need prayer timings.
func prayerTimes() prayer.Provider {
	if times != nil {
		return times
	}
	baseURL, method := config.DefaultAPIBaseURL, config.DefaultMethod
	if cfg != nil {
		baseURL, method = cfg.GetAPIBaseURL(), cfg.GetMethod()
	}
	client := prayer.NewClient(baseURL, prayer.WithMethod(method))
	return prayer.NewCachedClient(client, repo, logger)
}

// savedLocation loads the stored location, turning a miss into a hint.
func savedLocation() (*models.Location, error) {
	loc, err := repo.GetLocation()
	if errors.Is(err, storage.ErrNotFound) {
		return nil, errors.New("no location set; run 'salah location set <lat> <lng>' first")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load location: %w", err)
	}
	return loc, nil
}
