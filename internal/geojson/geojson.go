// ABOUTME: GeoJSON generation utilities
// ABOUTME: Draws the observer, the Kaaba and the qibla great circle as a FeatureCollection

package geojson

import (
	"encoding/json"
	"math"

	"github.com/harper/salah/internal/qibla"
)

// DefaultSegments is the number of great-circle segments drawn between observer and Kaaba.
const DefaultSegments = 64

// FeatureCollection represents a GeoJSON FeatureCollection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature represents a GeoJSON Feature.
type Feature struct {
	Type       string                 `json:"type"`
	Geometry   Geometry               `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// Geometry represents a GeoJSON Geometry.
type Geometry struct {
	Type        string      `json:"type"`
	Coordinates interface{} `json:"coordinates"`
}

// PointCoordinates represents [longitude, latitude] for a Point.
type PointCoordinates [2]float64

// LineCoordinates represents [[lng, lat], [lng, lat], ...] for a LineString.
type LineCoordinates []PointCoordinates

// MultiLineCoordinates holds the parts of a line split at the antimeridian.
type MultiLineCoordinates []LineCoordinates

func point(c qibla.Coordinate) PointCoordinates {
	return PointCoordinates{c.Longitude, c.Latitude}
}

// QiblaFeatureCollection returns the observer, the Kaaba and the great-circle
// path between them. Paths crossing the antimeridian become a MultiLineString.
func QiblaFeatureCollection(observer qibla.Coordinate, segments int) (*FeatureCollection, error) {
	bearing, err := qibla.QiblaBearing(observer)
	if err != nil {
		return nil, err
	}
	distance, err := qibla.Distance(observer, qibla.Kaaba)
	if err != nil {
		return nil, err
	}
	if segments < 1 {
		segments = DefaultSegments
	}

	features := []Feature{
		{
			Type:     "Feature",
			Geometry: Geometry{Type: "Point", Coordinates: point(observer)},
			Properties: map[string]interface{}{
				"name":     "observer",
				"bearing":  bearing.Degrees(),
				"cardinal": bearing.Cardinal(),
			},
		},
		{
			Type:     "Feature",
			Geometry: Geometry{Type: "Point", Coordinates: point(qibla.Kaaba)},
			Properties: map[string]interface{}{
				"name": "kaaba",
			},
		},
	}

	if !observer.Equal(qibla.Kaaba) {
		features = append(features, Feature{
			Type:     "Feature",
			Geometry: pathGeometry(qibla.Path(observer, qibla.Kaaba, segments)),
			Properties: map[string]interface{}{
				"name":        "qibla",
				"bearing":     bearing.Degrees(),
				"distance_km": distance,
			},
		})
	}

	return &FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}, nil
}

// pathGeometry builds a LineString, splitting it wherever consecutive points
// jump more than 180 degrees of longitude.
func pathGeometry(path []qibla.Coordinate) Geometry {
	parts := MultiLineCoordinates{LineCoordinates{}}
	for i, c := range path {
		if i > 0 && math.Abs(c.Longitude-path[i-1].Longitude) > 180 {
			parts = append(parts, LineCoordinates{})
		}
		parts[len(parts)-1] = append(parts[len(parts)-1], point(c))
	}

	if len(parts) == 1 {
		return Geometry{Type: "LineString", Coordinates: parts[0]}
	}
	return Geometry{Type: "MultiLineString", Coordinates: parts}
}

// ToJSON serializes a FeatureCollection to JSON.
func (fc *FeatureCollection) ToJSON() ([]byte, error) {
	return json.Marshal(fc)
}

// ToJSONIndent serializes a FeatureCollection to indented JSON.
func (fc *FeatureCollection) ToJSONIndent() ([]byte, error) {
	return json.MarshalIndent(fc, "", "  ")
}
