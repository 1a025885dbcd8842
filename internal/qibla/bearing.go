// ABOUTME: Great-circle bearing and distance calculations
// ABOUTME: Computes the qibla direction from any observer to the Kaaba

package qibla

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius used for distances.
const EarthRadiusKm = 6371.0

// Bearing is a direction in degrees clockwise from true north, in [0, 360).
type Bearing float64

// Degrees returns the bearing as a plain float.
func (b Bearing) Degrees() float64 {
	return float64(b)
}

// Cardinal returns the nearest of the 16 compass points.
func (b Bearing) Cardinal() string {
	points := [...]string{
		"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
		"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
	}
	idx := int(math.Floor(float64(b)/22.5+0.5)) % len(points)
	return points[idx]
}

// ComputeBearing returns the initial great-circle bearing from observer to target.
//
// When observer and target coincide the bearing is undefined; 0 is returned.
// Near the poles the formula still produces a value in [0, 360) but it carries
// no useful direction.
func ComputeBearing(observer, target Coordinate) (Bearing, error) {
	if err := observer.Validate(); err != nil {
		return 0, fmt.Errorf("observer: %w", err)
	}
	if err := target.Validate(); err != nil {
		return 0, fmt.Errorf("target: %w", err)
	}
	if observer.Equal(target) {
		return 0, nil
	}

	phi1 := toRadians(observer.Latitude)
	phi2 := toRadians(target.Latitude)
	dLambda := toRadians(target.Longitude - observer.Longitude)

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)

	theta := toDegrees(math.Atan2(y, x))
	return Bearing(normalize360(theta)), nil
}

// QiblaBearing returns the bearing from observer to the Kaaba.
func QiblaBearing(observer Coordinate) (Bearing, error) {
	return ComputeBearing(observer, Kaaba)
}

// Distance returns the haversine great-circle distance in kilometres.
func Distance(a, b Coordinate) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}
	return EarthRadiusKm * angularDistance(a, b), nil
}

// Intermediate returns the point at fraction f (0..1) along the great circle from a to b.
func Intermediate(a, b Coordinate, f float64) Coordinate {
	delta := angularDistance(a, b)
	if delta == 0 {
		return a
	}

	phi1, lambda1 := toRadians(a.Latitude), toRadians(a.Longitude)
	phi2, lambda2 := toRadians(b.Latitude), toRadians(b.Longitude)

	sinDelta := math.Sin(delta)
	ka := math.Sin((1-f)*delta) / sinDelta
	kb := math.Sin(f*delta) / sinDelta

	x := ka*math.Cos(phi1)*math.Cos(lambda1) + kb*math.Cos(phi2)*math.Cos(lambda2)
	y := ka*math.Cos(phi1)*math.Sin(lambda1) + kb*math.Cos(phi2)*math.Sin(lambda2)
	z := ka*math.Sin(phi1) + kb*math.Sin(phi2)

	return Coordinate{
		Latitude:  toDegrees(math.Atan2(z, math.Sqrt(x*x+y*y))),
		Longitude: toDegrees(math.Atan2(y, x)),
	}
}

// Path returns n+1 evenly spaced points along the great circle from a to b.
func Path(a, b Coordinate, n int) []Coordinate {
	if n < 1 {
		n = 1
	}
	points := make([]Coordinate, 0, n+1)
	for i := 0; i <= n; i++ {
		points = append(points, Intermediate(a, b, float64(i)/float64(n)))
	}
	return points
}

func angularDistance(a, b Coordinate) float64 {
	phi1 := toRadians(a.Latitude)
	phi2 := toRadians(b.Latitude)
	dPhi := phi2 - phi1
	dLambda := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// normalize360 maps any finite angle into [0, 360).
func normalize360(deg float64) float64 {
	d := math.Mod(math.Mod(deg, 360)+360, 360)
	if d >= 360 {
		d = 0
	}
	return d
}
