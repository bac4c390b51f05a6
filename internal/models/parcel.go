package models

import (
	"encoding/json"

	"github.com/pilarzops/rdlp-ingest/internal/partition"
)

// RawFeature is one feature as supplied by an upstream source: a flat
// property bag, an optional geometry value, and the path of the file it came
// from. It is ephemeral: produced by a reader, consumed once by the
// normalizer, then discarded.
type RawFeature struct {
	ID         json.RawMessage        `json:"id"`
	Properties map[string]interface{} `json:"properties"`
	Geometry   json.RawMessage        `json:"geometry"`
	SourceHint string                 `json:"-"`
}

// ForestParcel is the canonical forest-subdivision record loaded into the
// rdlp.<name>_wydzielenia tables. (ID, RDLPName) is the record's primary
// identity; (AdrFor, RDLPName) is the natural key used for conflict-skip on
// load. All nullable columns use pointers to distinguish zero values from
// NULL. The record is never mutated after normalization.
//
// The store's load_time column has no field here: it defaults on the store
// side and is never supplied by the loader.
type ForestParcel struct {
	ID              int64         `validate:"required"`
	AdrFor          string        `validate:"required"`
	ForestRangeName string        `validate:"required"`
	RDLPName        partition.Key `validate:"required"`

	// Geometry holds WKT text (MultiPolygon, EPSG:4326) or nil. It is the
	// only field permitted to degrade silently on conversion failure.
	Geometry *string

	AreaType  *string
	AINum     *int64
	Silvicult *string
	StandStru *string
	SubArea   *float64
	SpeciesCd *string
	SpecAge   *int
	Nazwa     *string
	SiteType  *string
	ForestFun *string
	RotatAge  *int
	ProtCateg *string
	PartCd    *string
	AYear     *int
}

// LoadBatch groups one source file's normalized records by partition, in
// first-seen partition order. It is assembled per file, consumed exactly
// once by the batch loader, then discarded; it never merges records across
// files.
type LoadBatch struct {
	order  []partition.Key
	groups map[partition.Key][]ForestParcel
}

// NewLoadBatch returns an empty batch.
func NewLoadBatch() *LoadBatch {
	return &LoadBatch{groups: make(map[partition.Key][]ForestParcel)}
}

// Add appends a parcel to its partition's group.
func (b *LoadBatch) Add(p ForestParcel) {
	if _, ok := b.groups[p.RDLPName]; !ok {
		b.order = append(b.order, p.RDLPName)
	}
	b.groups[p.RDLPName] = append(b.groups[p.RDLPName], p)
}

// Partitions returns the partition keys present in the batch, in the order
// they were first seen.
func (b *LoadBatch) Partitions() []partition.Key {
	return b.order
}

// Records returns the parcels grouped under the given partition.
func (b *LoadBatch) Records(key partition.Key) []ForestParcel {
	return b.groups[key]
}

// Len returns the total number of parcels across all partitions.
func (b *LoadBatch) Len() int {
	n := 0
	for _, g := range b.groups {
		n += len(g)
	}
	return n
}
