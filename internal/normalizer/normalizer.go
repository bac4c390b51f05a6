// Package normalizer builds canonical forest-parcel records from raw
// upstream features. A feature either becomes a ForestParcel or is dropped
// with a reason; drops are reported and counted, never raised as
// pipeline-fatal errors.
package normalizer

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/pilarzops/rdlp-ingest/internal/logger"
	"github.com/pilarzops/rdlp-ingest/internal/models"
	"github.com/pilarzops/rdlp-ingest/internal/partition"
)

// DropReason says why a feature did not become a canonical record.
type DropReason string

const (
	// DropUnresolvedPartition means no resolution strategy produced a
	// partition key. The record is excluded, never given a default.
	DropUnresolvedPartition DropReason = "unresolved-partition"
	// DropMissingMandatoryField means id, adr_for, forest_range_name, or
	// the partition key was absent or ill-typed.
	DropMissingMandatoryField DropReason = "missing-mandatory-field"
)

// Outcome describes what Normalize did with one feature. Exactly one of
// Parcel and Drop is set.
type Outcome struct {
	Parcel *models.ForestParcel
	Drop   DropReason
	// DegradedGeometry marks a record whose geometry failed to convert and
	// was nulled out; the record itself is still loaded.
	DegradedGeometry bool
}

// Normalizer converts raw features into canonical records.
type Normalizer struct {
	validate *validator.Validate
	log      *logger.Logger
}

// New creates a Normalizer.
func New(log *logger.Logger) *Normalizer {
	return &Normalizer{
		validate: validator.New(),
		log:      log,
	}
}

// Normalize builds a canonical parcel from one raw feature: scalar
// attributes are copied verbatim, the geometry value is converted to WKT,
// the partition is resolved from the source hint and property bag, and the
// mandatory fields are verified.
func (n *Normalizer) Normalize(f models.RawFeature) Outcome {
	props := f.Properties

	parcel := &models.ForestParcel{
		ID:              featureID(f),
		AdrFor:          propString(props, "adr_for"),
		ForestRangeName: forestRangeName(props),
		AreaType:        propStringPtr(props, "area_type"),
		AINum:           propInt64Ptr(props, "a_i_num"),
		Silvicult:       propStringPtr(props, "silvicult"),
		StandStru:       propStringPtr(props, "stand_stru"),
		SubArea:         propFloatPtr(props, "sub_area"),
		SpeciesCd:       propStringPtr(props, "species_cd"),
		SpecAge:         propIntPtr(props, "spec_age"),
		Nazwa:           propStringPtr(props, "nazwa"),
		SiteType:        propStringPtr(props, "site_type"),
		ForestFun:       propStringPtr(props, "forest_fun"),
		RotatAge:        propIntPtr(props, "rotat_age"),
		ProtCateg:       propStringPtr(props, "prot_categ"),
		PartCd:          propStringPtr(props, "part_cd"),
		AYear:           propIntPtr(props, "a_year"),
	}

	degraded := false
	wkt, err := ConvertGeometry(f.Geometry)
	if err != nil {
		// Null out and keep going; geometry alone may degrade silently.
		degraded = true
		n.log.Warn("geometry conversion failed, loading record with null geometry", map[string]interface{}{
			"source": f.SourceHint,
			"reason": err.Error(),
		})
	}
	parcel.Geometry = wkt

	key, err := partition.Resolve(f.SourceHint, props)
	if err != nil {
		n.log.Warn("record dropped", map[string]interface{}{
			"source": f.SourceHint,
			"reason": string(DropUnresolvedPartition),
		})
		return Outcome{Drop: DropUnresolvedPartition}
	}
	parcel.RDLPName = key

	if err := n.validate.Struct(parcel); err != nil {
		n.log.Warn("record dropped", map[string]interface{}{
			"source":    f.SourceHint,
			"partition": string(key),
			"reason":    string(DropMissingMandatoryField),
			"detail":    err.Error(),
		})
		return Outcome{Drop: DropMissingMandatoryField}
	}

	return Outcome{Parcel: parcel, DegradedGeometry: degraded}
}

// featureID reads the feature identifier, preferring the top-level id and
// falling back to the property bag. A missing or ill-typed id yields zero,
// which the mandatory-field check then rejects.
func featureID(f models.RawFeature) int64 {
	if id, ok := parseID(f.ID); ok {
		return id
	}
	if raw, ok := f.Properties["id"]; ok {
		if num, ok := raw.(float64); ok && num == float64(int64(num)) {
			return int64(num)
		}
	}
	return 0
}

func parseID(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		// Identifiers sometimes arrive as quoted digits.
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		num = json.Number(s)
	}
	id, err := num.Int64()
	if err != nil {
		return 0, false
	}
	return id, true
}

// forestRangeName prefers the explicit forest_range_name attribute and
// falls back to nazwa, which carries the forest-range name in API payloads.
func forestRangeName(props map[string]interface{}) string {
	if name := propString(props, "forest_range_name"); name != "" {
		return name
	}
	return propString(props, "nazwa")
}

func propString(props map[string]interface{}, key string) string {
	s, _ := props[key].(string)
	return s
}

func propStringPtr(props map[string]interface{}, key string) *string {
	s, ok := props[key].(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

func propFloatPtr(props map[string]interface{}, key string) *float64 {
	f, ok := props[key].(float64)
	if !ok {
		return nil
	}
	return &f
}

func propIntPtr(props map[string]interface{}, key string) *int {
	f, ok := props[key].(float64)
	if !ok || f != float64(int(f)) {
		return nil
	}
	i := int(f)
	return &i
}

func propInt64Ptr(props map[string]interface{}, key string) *int64 {
	f, ok := props[key].(float64)
	if !ok || f != float64(int64(f)) {
		return nil
	}
	i := int64(f)
	return &i
}
