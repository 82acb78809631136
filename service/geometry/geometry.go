package geometry

import (
	"encoding/json"
	"fmt"

	"github.com/go-spatial/geom/encoding/geojson"
	geomwkt "github.com/go-spatial/geom/encoding/wkt"
	"github.com/paulsmith/gogeos/geos"
)

// ToWKT normalizes a geometry given either as WKT or as GeoJSON into WKT.
func ToWKT(geometry string) (string, error) {
	if IsValidWKT(geometry) {
		return geometry, nil
	}

	var g geojson.Geometry
	if err := json.Unmarshal([]byte(geometry), &g); err != nil {
		return "", fmt.Errorf("ToWKT: geometry is neither a valid WKT nor a valid GeoJSON")
	}
	wkt, err := geomwkt.EncodeString(g.Geometry)
	if err != nil {
		return "", fmt.Errorf("ToWKT.EncodeString: %w", err)
	}
	return wkt, nil
}

// IsValidWKT returns whether the geometry is a well-formed WKT
func IsValidWKT(geometry string) bool {
	_, err := geomwkt.DecodeString(geometry)
	return err == nil
}

// Centroid returns the centroid of the WKT geometry, as WKT
func Centroid(wkt string) (string, error) {
	g, err := geos.FromWKT(wkt)
	if err != nil {
		return "", fmt.Errorf("Centroid.FromWKT: %w", err)
	}
	centroid, err := g.Centroid()
	if err != nil {
		return "", fmt.Errorf("Centroid: %w", err)
	}
	out, err := centroid.ToWKT()
	if err != nil {
		return "", fmt.Errorf("Centroid.ToWKT: %w", err)
	}
	return out, nil
}
