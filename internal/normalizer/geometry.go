package normalizer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pilarzops/rdlp-ingest/internal/models"
)

// ConvertGeometry normalizes one raw geometry value to well-known text.
//
//   - A structured GeoJSON object is parsed and re-serialized as MultiPolygon
//     WKT (EPSG:4326). Plain Polygons are promoted to single-element
//     MultiPolygons. A parse failure is returned as an error; the caller must
//     degrade the record to null geometry and keep going, never abort.
//   - Already-textual input (a JSON string) is passed through unchanged. No
//     re-validation happens at this layer; the store enforces SRID and type
//     correctness on write.
//   - Absent, null, or unrecognized-shape input yields nil with no error.
//
// Geometry is the only field allowed to silently degrade this way.
func ConvertGeometry(raw json.RawMessage) (*string, error) {
	value := bytes.TrimSpace(raw)
	if len(value) == 0 || bytes.Equal(value, []byte("null")) {
		return nil, nil
	}

	switch value[0] {
	case '"':
		var text string
		if err := json.Unmarshal(value, &text); err != nil {
			return nil, fmt.Errorf("malformed textual geometry: %w", err)
		}
		return &text, nil
	case '{':
		return convertStructured(value)
	default:
		// Numbers, arrays, booleans: not a geometry, expected case.
		return nil, nil
	}
}

// convertStructured parses a GeoJSON geometry object and serializes it as
// MultiPolygon WKT.
func convertStructured(value []byte) (*string, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(value, &head); err != nil {
		return nil, fmt.Errorf("malformed geometry object: %w", err)
	}

	var mp models.MultiPolygon
	switch head.Type {
	case "MultiPolygon":
		if err := json.Unmarshal(value, &mp); err != nil {
			return nil, err
		}
	case "Polygon":
		var p models.Polygon
		if err := json.Unmarshal(value, &p); err != nil {
			return nil, err
		}
		mp = p.MultiPolygon()
	default:
		return nil, fmt.Errorf("unsupported geometry type %q", head.Type)
	}

	if len(mp.Coordinates) == 0 {
		return nil, fmt.Errorf("geometry object has no coordinates")
	}

	wkt := mp.WKT()
	return &wkt, nil
}
