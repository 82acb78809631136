package geometry_test

import (
	"testing"

	"github.com/earthdaily/geosys-go/service/geometry"
	"github.com/paulsmith/gogeos/geos"
)

const polygonWKT = "POLYGON((-91.29152 40.39177,-91.29152 40.41186,-91.25662 40.41186,-91.25662 40.39177,-91.29152 40.39177))"

const polygonGeoJSON = `{"type":"Polygon","coordinates":[[[-91.29152,40.39177],[-91.29152,40.41186],[-91.25662,40.41186],[-91.25662,40.39177],[-91.29152,40.39177]]]}`

func mustGeos(t *testing.T, wkt string) *geos.Geometry {
	t.Helper()
	g, err := geos.FromWKT(wkt)
	if err != nil {
		t.Fatalf("FromWKT: %v", err)
	}
	return g
}

func TestToWKT(t *testing.T) {
	tests := []struct {
		name     string
		geometry string
		wantErr  bool
	}{
		{"wkt", polygonWKT, false},
		{"geojson", polygonGeoJSON, false},
		{"garbage", "POLYGON((", true},
	}

	want := mustGeos(t, polygonWKT)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wkt, err := geometry.ToWKT(tt.geometry)
			if tt.wantErr {
				if err == nil {
					t.Errorf("got nil error, expected one")
				}
				return
			}
			if err != nil {
				t.Fatalf("ToWKT: %v", err)
			}
			got := mustGeos(t, wkt)
			if eq, err := want.Equals(got); err != nil || !eq {
				t.Errorf("geometries differ: %s", wkt)
			}
		})
	}
}

func TestIsValidWKT(t *testing.T) {
	if !geometry.IsValidWKT(polygonWKT) {
		t.Errorf("expected valid")
	}
	if geometry.IsValidWKT(polygonGeoJSON) {
		t.Errorf("expected invalid")
	}
}

func TestCentroid(t *testing.T) {
	wkt, err := geometry.Centroid(polygonWKT)
	if err != nil {
		t.Fatalf("Centroid: %v", err)
	}
	got := mustGeos(t, wkt)
	want := mustGeos(t, "POINT(-91.27407 40.401815)")
	if eq, err := want.Equals(got); err != nil || !eq {
		t.Errorf("wrong centroid: %s", wkt)
	}
}
