// Package partition maps source-file hints and feature properties to one of
// the 17 fixed RDLP partition keys. The key set is closed: keys are never
// synthesized, and a failed resolution is a failure, never a default.
package partition

import (
	"errors"
	"path/filepath"
	"strings"
)

// Key identifies one of the 17 Regional Directorates of State Forests
// (RDLP). Each key names the store partition its records belong to.
type Key string

const (
	Bialystok   Key = "bialystok"
	Katowice    Key = "katowice"
	Krakow      Key = "krakow"
	Krosno      Key = "krosno"
	Lublin      Key = "lublin"
	Lodz        Key = "lodz"
	Olsztyn     Key = "olsztyn"
	Pila        Key = "pila"
	Poznan      Key = "poznan"
	Szczecin    Key = "szczecin"
	Szczecinek  Key = "szczecinek"
	Torun       Key = "torun"
	Wroclaw     Key = "wroclaw"
	ZielonaGora Key = "zielona_gora"
	Gdansk      Key = "gdansk"
	Radom       Key = "radom"
	Warszawa    Key = "warszawa"
)

// ErrUnresolved is returned when no resolution strategy produced a key.
// Callers must drop the record; there is no default partition.
var ErrUnresolved = errors.New("partition: no strategy resolved a partition key")

// codeTable maps the official two-digit RDLP region codes to partition
// keys. Closed, fixed-size mapping: exactly 17 entries.
var codeTable = map[string]Key{
	"01": Bialystok,
	"02": Katowice,
	"03": Krakow,
	"04": Krosno,
	"05": Lublin,
	"06": Lodz,
	"07": Olsztyn,
	"08": Pila,
	"09": Poznan,
	"10": Szczecin,
	"11": Szczecinek,
	"12": Torun,
	"13": Wroclaw,
	"14": ZielonaGora,
	"15": Gdansk,
	"16": Radom,
	"17": Warszawa,
}

// legacyTable maps the legacy BDL collection file names (lowercased) to
// partition keys. Closed, fixed-size mapping: exactly 17 entries.
var legacyTable = map[string]Key{
	"rdlp_bialystok_wydzielenia":    Bialystok,
	"rdlp_katowice_wydzielenia":     Katowice,
	"rdlp_krakow_wydzielenia":       Krakow,
	"rdlp_krosno_wydzielenia":       Krosno,
	"rdlp_lublin_wydzielenia":       Lublin,
	"rdlp_lodz_wydzielenia":         Lodz,
	"rdlp_olsztyn_wydzielenia":      Olsztyn,
	"rdlp_pila_wydzielenia":         Pila,
	"rdlp_poznan_wydzielenia":       Poznan,
	"rdlp_szczecin_wydzielenia":     Szczecin,
	"rdlp_szczecinek_wydzielenia":   Szczecinek,
	"rdlp_torun_wydzielenia":        Torun,
	"rdlp_wroclaw_wydzielenia":      Wroclaw,
	"rdlp_zielona_gora_wydzielenia": ZielonaGora,
	"rdlp_gdansk_wydzielenia":       Gdansk,
	"rdlp_radom_wydzielenia":        Radom,
	"rdlp_warszawa_wydzielenia":     Warszawa,
}

// codeOrder lists the region codes in official numbering order, so All
// returns a stable sequence.
var codeOrder = []string{
	"01", "02", "03", "04", "05", "06", "07", "08", "09",
	"10", "11", "12", "13", "14", "15", "16", "17",
}

// regionCodePrefix marks a path segment carrying a two-digit region code,
// e.g. "rdlp_07" in "extracted/rdlp_07/G_COMPARTMENT_07.zip".
const regionCodePrefix = "rdlp_"

// legacySuffix terminates a legacy collection name inside a file name,
// e.g. "RDLP_Olsztyn_wydzielenia_0_1699999999.json".
const legacySuffix = "_wydzielenia"

// propertyKey is the property-bag attribute holding a partition name.
const propertyKey = "rdlp_name"

// All returns the 17 partition keys in region-code order.
func All() []Key {
	keys := make([]Key, 0, len(codeOrder))
	for _, code := range codeOrder {
		keys = append(keys, codeTable[code])
	}
	return keys
}

// Known reports whether s is one of the 17 partition identifiers.
func Known(s string) (Key, bool) {
	for _, k := range codeTable {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Resolve maps a source-file hint and a feature property bag to a partition
// key. Strategies run in a fixed order, first success wins:
//
//  1. two-digit region code in an "rdlp_NN" path segment of the hint,
//  2. legacy collection name embedded in the hint's file name,
//  3. "rdlp_name" value in the property bag, accepted only if it is one of
//     the 17 known identifiers.
//
// File-derived hints are tried before property-derived values; the order is
// load-bearing and must not be collapsed into a trust ranking. When every
// strategy misses, Resolve returns ErrUnresolved and the caller must drop
// the record.
func Resolve(sourceHint string, props map[string]interface{}) (Key, error) {
	if key, ok := fromRegionCode(sourceHint); ok {
		return key, nil
	}
	if key, ok := fromLegacyName(sourceHint); ok {
		return key, nil
	}
	if key, ok := fromProperties(props); ok {
		return key, nil
	}
	return "", ErrUnresolved
}

// fromRegionCode scans the hint's path segments for one shaped like
// "rdlp_NN" and looks the two-digit code up in the region-code table.
func fromRegionCode(sourceHint string) (Key, bool) {
	hint := strings.ToLower(strings.ReplaceAll(sourceHint, "\\", "/"))
	for _, segment := range strings.Split(hint, "/") {
		rest, ok := strings.CutPrefix(segment, regionCodePrefix)
		if !ok || len(rest) < 2 {
			continue
		}
		code := rest[:2]
		if !isDigits(code) {
			continue
		}
		// "rdlp_075" is not a region code; require the code to end the
		// segment or be followed by a separator.
		if len(rest) > 2 && rest[2] >= '0' && rest[2] <= '9' {
			continue
		}
		if key, ok := codeTable[code]; ok {
			return key, true
		}
	}
	return "", false
}

// fromLegacyName matches the base file name of the hint against the legacy
// collection-name table. Page files append offsets and timestamps after the
// collection name, so everything past the legacy suffix is ignored.
func fromLegacyName(sourceHint string) (Key, bool) {
	base := strings.ToLower(filepath.Base(strings.ReplaceAll(sourceHint, "\\", "/")))
	idx := strings.Index(base, legacySuffix)
	if idx < 0 {
		return "", false
	}
	if key, ok := legacyTable[base[:idx+len(legacySuffix)]]; ok {
		return key, true
	}
	return "", false
}

// fromProperties reads the partition name directly from the property bag.
// Accepted only when the value is one of the 17 known identifiers.
func fromProperties(props map[string]interface{}) (Key, bool) {
	if props == nil {
		return "", false
	}
	name, ok := props[propertyKey].(string)
	if !ok {
		return "", false
	}
	return Known(strings.ToLower(strings.TrimSpace(name)))
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
