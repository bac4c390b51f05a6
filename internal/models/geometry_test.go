package models

import (
	"encoding/json"
	"testing"
)

// TestMultiPolygonUnmarshalJSON tests parsing GeoJSON MultiPolygon input.
func TestMultiPolygonUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError bool
		wantPolys int
	}{
		{
			name: "valid multipolygon",
			input: `{
				"type": "MultiPolygon",
				"coordinates": [[[[20.5, 53.7], [20.6, 53.7], [20.6, 53.8], [20.5, 53.7]]]]
			}`,
			wantError: false,
			wantPolys: 1,
		},
		{
			name: "two polygons",
			input: `{
				"type": "MultiPolygon",
				"coordinates": [
					[[[20.5, 53.7], [20.6, 53.7], [20.5, 53.8], [20.5, 53.7]]],
					[[[21.0, 54.0], [21.1, 54.0], [21.0, 54.1], [21.0, 54.0]]]
				]
			}`,
			wantError: false,
			wantPolys: 2,
		},
		{
			name:      "wrong geometry type",
			input:     `{"type": "Point", "coordinates": [20.5, 53.7]}`,
			wantError: true,
		},
		{
			name:      "malformed coordinates",
			input:     `{"type": "MultiPolygon", "coordinates": "garbage"}`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mp MultiPolygon
			err := json.Unmarshal([]byte(tt.input), &mp)

			if tt.wantError {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(mp.Coordinates) != tt.wantPolys {
				t.Errorf("Expected %d polygons, got %d", tt.wantPolys, len(mp.Coordinates))
			}
			if mp.SRID != 4326 {
				t.Errorf("Expected SRID 4326, got %d", mp.SRID)
			}
		})
	}
}

// TestMultiPolygonWKT tests well-known text serialization.
func TestMultiPolygonWKT(t *testing.T) {
	mp := MultiPolygon{
		Coordinates: [][][][2]float64{
			{{{20.5, 53.7}, {20.6, 53.7}, {20.6, 53.8}, {20.5, 53.7}}},
		},
		SRID: 4326,
	}

	want := "MULTIPOLYGON (((20.5 53.7, 20.6 53.7, 20.6 53.8, 20.5 53.7)))"
	if got := mp.WKT(); got != want {
		t.Errorf("WKT mismatch:\n got: %s\nwant: %s", got, want)
	}
}

// TestMultiPolygonWKT_Empty verifies the empty-geometry form.
func TestMultiPolygonWKT_Empty(t *testing.T) {
	var mp MultiPolygon
	if got := mp.WKT(); got != "MULTIPOLYGON EMPTY" {
		t.Errorf("Expected MULTIPOLYGON EMPTY, got %s", got)
	}
}

// TestMultiPolygonWKT_MultipleRings covers holes and multiple polygons.
func TestMultiPolygonWKT_MultipleRings(t *testing.T) {
	mp := MultiPolygon{
		Coordinates: [][][][2]float64{
			{
				{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
				{{2, 2}, {4, 2}, {4, 4}, {2, 2}},
			},
			{
				{{20, 20}, {21, 20}, {20, 21}, {20, 20}},
			},
		},
		SRID: 4326,
	}

	want := "MULTIPOLYGON (((0 0, 10 0, 10 10, 0 10, 0 0), (2 2, 4 2, 4 4, 2 2)), ((20 20, 21 20, 20 21, 20 20)))"
	if got := mp.WKT(); got != want {
		t.Errorf("WKT mismatch:\n got: %s\nwant: %s", got, want)
	}
}

// TestPolygonPromotion tests Polygon to MultiPolygon promotion.
func TestPolygonPromotion(t *testing.T) {
	var p Polygon
	input := `{"type": "Polygon", "coordinates": [[[20.5, 53.7], [20.6, 53.7], [20.5, 53.8], [20.5, 53.7]]]}`
	if err := json.Unmarshal([]byte(input), &p); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	mp := p.MultiPolygon()
	if len(mp.Coordinates) != 1 {
		t.Fatalf("Expected 1 polygon, got %d", len(mp.Coordinates))
	}
	if mp.SRID != 4326 {
		t.Errorf("Expected SRID 4326, got %d", mp.SRID)
	}
}

// TestMultiPolygonMarshalJSON verifies the GeoJSON round trip.
func TestMultiPolygonMarshalJSON(t *testing.T) {
	mp := MultiPolygon{
		Coordinates: [][][][2]float64{
			{{{20.5, 53.7}, {20.6, 53.7}, {20.5, 53.8}, {20.5, 53.7}}},
		},
		SRID: 4326,
	}

	data, err := json.Marshal(mp)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var back MultiPolygon
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(back.Coordinates) != 1 {
		t.Errorf("Expected 1 polygon after round trip, got %d", len(back.Coordinates))
	}
}
