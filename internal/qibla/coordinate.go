// ABOUTME: Geographic coordinate type and validation
// ABOUTME: Rejects non-finite or out-of-range latitude/longitude values

package qibla

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned when a coordinate is non-finite or out of range.
var ErrInvalidInput = errors.New("invalid coordinate")

// Coordinate is a point on the Earth's surface in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Kaaba is the fixed qibla target.
var Kaaba = Coordinate{Latitude: 21.4225, Longitude: 39.8262}

// coordEpsilon is roughly 1.1cm at the equator.
const coordEpsilon = 0.0000001

// Validate checks that both fields are finite and within geographic range.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
		return fmt.Errorf("%w: coordinates cannot be NaN", ErrInvalidInput)
	}
	if math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) {
		return fmt.Errorf("%w: coordinates cannot be infinite", ErrInvalidInput)
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrInvalidInput)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrInvalidInput)
	}
	return nil
}

// Equal reports whether two coordinates are the same point within coordEpsilon.
func (c Coordinate) Equal(other Coordinate) bool {
	return math.Abs(c.Latitude-other.Latitude) < coordEpsilon &&
		math.Abs(c.Longitude-other.Longitude) < coordEpsilon
}

// String formats the coordinate the way the CLI prints positions.
func (c Coordinate) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", c.Latitude, c.Longitude)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
