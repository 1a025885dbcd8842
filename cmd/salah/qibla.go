// ABOUTME: Qibla bearing command
// ABOUTME: Prints the bearing and distance to the Kaaba, or the path as GeoJSON

package main

import (
	"fmt"

	"github.com/harper/salah/internal/geojson"
	"github.com/harper/salah/internal/models"
	"github.com/harper/salah/internal/qibla"
	"github.com/harper/salah/internal/ui"
	"github.com/spf13/cobra"
)

var qiblaCmd = &cobra.Command{
	Use:     "qibla",
	Aliases: []string{"q"},
	Short:   "Show the qibla bearing",
	Long: `Show the initial great-circle bearing from your location to the Kaaba.

Uses the saved location unless --lat and --lng are given.

Examples:
  salah qibla
  salah qibla --lat 40.7128 --lng -74.0060
  salah qibla --geojson > qibla.geojson`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		observer, label, err := observerFromFlags(cmd)
		if err != nil {
			return err
		}

		if asGeoJSON, _ := cmd.Flags().GetBool("geojson"); asGeoJSON {
			segments, _ := cmd.Flags().GetInt("segments")
			fc, err := geojson.QiblaFeatureCollection(observer, segments)
			if err != nil {
				return err
			}
			data, err := fc.ToJSONIndent()
			if err != nil {
				return fmt.Errorf("failed to encode geojson: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		}

		b, err := qibla.QiblaBearing(observer)
		if err != nil {
			return err
		}
		km, err := qibla.Distance(observer, qibla.Kaaba)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, label)
		fmt.Fprintf(out, "  Qibla: %s\n", ui.FormatBearing(b, km))
		return nil
	},
}

func init() {
	qiblaCmd.Flags().Float64("lat", 0, "observer latitude (default: saved location)")
	qiblaCmd.Flags().Float64("lng", 0, "observer longitude (default: saved location)")
	qiblaCmd.Flags().Bool("geojson", false, "print the observer, the Kaaba and the path as GeoJSON")
	qiblaCmd.Flags().Int("segments", geojson.DefaultSegments, "segments in the GeoJSON path")

	rootCmd.AddCommand(qiblaCmd)
}

// observerFromFlags reads --lat/--lng when either is set, otherwise the saved
// location. The returned label describes where the coordinate came from.
func observerFromFlags(cmd *cobra.Command) (qibla.Coordinate, string, error) {
	latSet, lngSet := cmd.Flags().Changed("lat"), cmd.Flags().Changed("lng")
	if latSet != lngSet {
		return qibla.Coordinate{}, "", fmt.Errorf("--lat and --lng must be given together")
	}
	if latSet {
		lat, _ := cmd.Flags().GetFloat64("lat")
		lng, _ := cmd.Flags().GetFloat64("lng")
		c := qibla.Coordinate{Latitude: lat, Longitude: lng}
		if err := c.Validate(); err != nil {
			return qibla.Coordinate{}, "", err
		}
		return c, ui.FormatLocation(&models.Location{Latitude: lat, Longitude: lng}), nil
	}

	loc, err := savedLocation()
	if err != nil {
		return qibla.Coordinate{}, "", err
	}
	return loc.Coordinate(), ui.FormatLocation(loc), nil
}
