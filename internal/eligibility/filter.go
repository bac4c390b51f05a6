// Package eligibility decides whether a discovered source file is worth
// parsing at all. The historical nested-condition filter is expressed as an
// ordered rule list evaluated top to bottom, first match wins, so the policy
// is data that can be tested and audited.
package eligibility

import (
	"path/filepath"
	"strings"
)

// Markers recognized in file names. Matching is case-insensitive.
const (
	compartmentMarker = "g_compartment"
	subareaMarker     = "g_subarea"
	legacySuffix      = "_wydzielenia"
	layerPrefix       = "g_"
)

// geoExtensions are the file extensions accepted by the catch-all rule.
var geoExtensions = []string{".json", ".geojson", ".shp", ".zip"}

// rule is one entry in the filter policy.
type rule struct {
	name    string
	match   func(name string) bool
	process bool
}

// rules is the ordered filter policy. Earlier rules win; the compartment and
// legacy-collection rules must stay above the subarea and generic-layer
// rules, otherwise compartment bundles named "G_COMPARTMENT_*" would be
// skipped by the "g_" prefix rule.
var rules = []rule{
	{
		name:    "compartment-bundle",
		match:   func(name string) bool { return strings.Contains(name, compartmentMarker) },
		process: true,
	},
	{
		name:    "legacy-collection",
		match:   func(name string) bool { return strings.Contains(name, legacySuffix) },
		process: true,
	},
	{
		name:    "subarea-layer",
		match:   func(name string) bool { return strings.Contains(name, subareaMarker) },
		process: false,
	},
	{
		name:    "generic-layer",
		match:   func(name string) bool { return strings.HasPrefix(name, layerPrefix) },
		process: false,
	},
	{
		name:    "geo-extension",
		match:   func(name string) bool { return hasGeoExtension(name) },
		process: true,
	},
}

// Eligible reports whether the named file should be parsed. Only the final
// path segment is considered; matching is case-insensitive. Files matching
// no rule are skipped.
func Eligible(name string) bool {
	base := strings.ToLower(filepath.Base(strings.ReplaceAll(name, "\\", "/")))
	for _, r := range rules {
		if r.match(base) {
			return r.process
		}
	}
	return false
}

func hasGeoExtension(name string) bool {
	ext := filepath.Ext(name)
	for _, allowed := range geoExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
