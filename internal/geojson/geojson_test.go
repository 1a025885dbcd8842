// ABOUTME: Unit tests for GeoJSON generation
// ABOUTME: Tests the observer, Kaaba and great-circle path features

package geojson

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/harper/salah/internal/qibla"
)

func TestQiblaFeatureCollection(t *testing.T) {
	london := qibla.Coordinate{Latitude: 51.5074, Longitude: -0.1278}

	fc, err := QiblaFeatureCollection(london, 8)
	if err != nil {
		t.Fatalf("QiblaFeatureCollection: %v", err)
	}
	if fc.Type != "FeatureCollection" {
		t.Errorf("expected FeatureCollection type, got %s", fc.Type)
	}
	if len(fc.Features) != 3 {
		t.Fatalf("expected 3 features, got %d", len(fc.Features))
	}

	observer := fc.Features[0]
	coords, ok := observer.Geometry.Coordinates.(PointCoordinates)
	if !ok {
		t.Fatal("expected PointCoordinates")
	}
	// GeoJSON uses [lng, lat] order
	if coords[0] != -0.1278 || coords[1] != 51.5074 {
		t.Errorf("unexpected observer coordinates %v", coords)
	}
	if observer.Properties["cardinal"] != "ESE" {
		t.Errorf("expected cardinal ESE, got %v", observer.Properties["cardinal"])
	}

	kaaba := fc.Features[1].Geometry.Coordinates.(PointCoordinates)
	if kaaba != (PointCoordinates{qibla.Kaaba.Longitude, qibla.Kaaba.Latitude}) {
		t.Errorf("unexpected kaaba coordinates %v", kaaba)
	}

	path := fc.Features[2]
	if path.Geometry.Type != "LineString" {
		t.Fatalf("expected LineString geometry, got %s", path.Geometry.Type)
	}
	line := path.Geometry.Coordinates.(LineCoordinates)
	if len(line) != 9 {
		t.Errorf("expected 9 points, got %d", len(line))
	}
	if math.Abs(line[0][0]-london.Longitude) > 1e-9 || math.Abs(line[8][1]-qibla.Kaaba.Latitude) > 1e-9 {
		t.Errorf("path should run from observer to kaaba: %v ... %v", line[0], line[8])
	}
	if d, ok := path.Properties["distance_km"].(float64); !ok || math.Abs(d-4793.8) > 1 {
		t.Errorf("unexpected distance %v", path.Properties["distance_km"])
	}
}

func TestQiblaFeatureCollection_DefaultSegments(t *testing.T) {
	fc, err := QiblaFeatureCollection(qibla.Coordinate{}, 0)
	if err != nil {
		t.Fatalf("QiblaFeatureCollection: %v", err)
	}
	line := fc.Features[2].Geometry.Coordinates.(LineCoordinates)
	if len(line) != DefaultSegments+1 {
		t.Errorf("expected %d points, got %d", DefaultSegments+1, len(line))
	}
}

func TestQiblaFeatureCollection_AtKaaba(t *testing.T) {
	fc, err := QiblaFeatureCollection(qibla.Kaaba, 8)
	if err != nil {
		t.Fatalf("QiblaFeatureCollection: %v", err)
	}
	if len(fc.Features) != 2 {
		t.Errorf("expected no path at the kaaba, got %d features", len(fc.Features))
	}
}

func TestQiblaFeatureCollection_Invalid(t *testing.T) {
	_, err := QiblaFeatureCollection(qibla.Coordinate{Latitude: 95}, 8)
	if !errors.Is(err, qibla.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPathGeometry_SplitsAtAntimeridian(t *testing.T) {
	path := []qibla.Coordinate{
		{Latitude: 10, Longitude: 170},
		{Latitude: 11, Longitude: 179},
		{Latitude: 12, Longitude: -178},
		{Latitude: 13, Longitude: -170},
	}
	g := pathGeometry(path)
	if g.Type != "MultiLineString" {
		t.Fatalf("expected MultiLineString, got %s", g.Type)
	}
	parts := g.Coordinates.(MultiLineCoordinates)
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		t.Errorf("unexpected split %v", parts)
	}
}

func TestFeatureCollection_ToJSON(t *testing.T) {
	fc, err := QiblaFeatureCollection(qibla.Coordinate{Latitude: 40.7128, Longitude: -74.0060}, 4)
	if err != nil {
		t.Fatalf("QiblaFeatureCollection: %v", err)
	}

	jsonBytes, err := fc.ToJSON()
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &parsed); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if parsed["type"] != "FeatureCollection" {
		t.Error("expected type FeatureCollection in JSON")
	}

	indented, err := fc.ToJSONIndent()
	if err != nil {
		t.Fatalf("failed to marshal indented: %v", err)
	}
	if len(indented) <= len(jsonBytes) {
		t.Error("expected indented output to be longer")
	}
}
