package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MultiPolygon is a structured MultiPolygon geometry in GeoJSON coordinate
// layout: [polygons][rings][points][lon,lat]. Coordinates are WGS84
// (SRID 4326), matching the store's geometry columns.
type MultiPolygon struct {
	Coordinates [][][][2]float64
	SRID        int
}

// Polygon is a structured Polygon geometry in GeoJSON coordinate layout:
// [rings][points][lon,lat]. Upstream features occasionally carry a plain
// Polygon; it is promoted to a single-element MultiPolygon before loading.
type Polygon struct {
	Coordinates [][][2]float64
	SRID        int
}

// UnmarshalJSON parses a GeoJSON MultiPolygon geometry object.
func (mp *MultiPolygon) UnmarshalJSON(data []byte) error {
	var geom struct {
		Type        string           `json:"type"`
		Coordinates [][][][2]float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(data, &geom); err != nil {
		return fmt.Errorf("failed to unmarshal multipolygon: %w", err)
	}
	if geom.Type != "" && geom.Type != "MultiPolygon" {
		return fmt.Errorf("expected MultiPolygon type, got %s", geom.Type)
	}
	mp.Coordinates = geom.Coordinates
	mp.SRID = 4326
	return nil
}

// MarshalJSON renders the geometry as a GeoJSON object.
func (mp MultiPolygon) MarshalJSON() ([]byte, error) {
	geom := struct {
		Type        string           `json:"type"`
		Coordinates [][][][2]float64 `json:"coordinates"`
	}{
		Type:        "MultiPolygon",
		Coordinates: mp.Coordinates,
	}
	return json.Marshal(geom)
}

// UnmarshalJSON parses a GeoJSON Polygon geometry object.
func (p *Polygon) UnmarshalJSON(data []byte) error {
	var geom struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(data, &geom); err != nil {
		return fmt.Errorf("failed to unmarshal polygon: %w", err)
	}
	if geom.Type != "" && geom.Type != "Polygon" {
		return fmt.Errorf("expected Polygon type, got %s", geom.Type)
	}
	p.Coordinates = geom.Coordinates
	p.SRID = 4326
	return nil
}

// MultiPolygon promotes the polygon to a single-element MultiPolygon.
func (p Polygon) MultiPolygon() MultiPolygon {
	return MultiPolygon{
		Coordinates: [][][][2]float64{p.Coordinates},
		SRID:        p.SRID,
	}
}

// WKT serializes the geometry as well-known text, the form the loader hands
// to ST_GeomFromText. An empty geometry renders as "MULTIPOLYGON EMPTY".
func (mp MultiPolygon) WKT() string {
	if len(mp.Coordinates) == 0 {
		return "MULTIPOLYGON EMPTY"
	}
	var b strings.Builder
	b.WriteString("MULTIPOLYGON (")
	for i, polygon := range mp.Coordinates {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for j, ring := range polygon {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteByte('(')
			for k, point := range ring {
				if k > 0 {
					b.WriteString(", ")
				}
				b.WriteString(strconv.FormatFloat(point[0], 'f', -1, 64))
				b.WriteByte(' ')
				b.WriteString(strconv.FormatFloat(point[1], 'f', -1, 64))
			}
			b.WriteByte(')')
		}
		b.WriteByte(')')
	}
	b.WriteByte(')')
	return b.String()
}
