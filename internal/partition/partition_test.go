package partition

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// regionCodes pairs every official two-digit code with its partition key.
var regionCodes = map[string]Key{
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

// legacyNames pairs every legacy collection name with its partition key.
var legacyNames = map[string]Key{
	"RDLP_Bialystok_wydzielenia":    Bialystok,
	"RDLP_Katowice_wydzielenia":     Katowice,
	"RDLP_Krakow_wydzielenia":       Krakow,
	"RDLP_Krosno_wydzielenia":       Krosno,
	"RDLP_Lublin_wydzielenia":       Lublin,
	"RDLP_Lodz_wydzielenia":         Lodz,
	"RDLP_Olsztyn_wydzielenia":      Olsztyn,
	"RDLP_Pila_wydzielenia":         Pila,
	"RDLP_Poznan_wydzielenia":       Poznan,
	"RDLP_Szczecin_wydzielenia":     Szczecin,
	"RDLP_Szczecinek_wydzielenia":   Szczecinek,
	"RDLP_Torun_wydzielenia":        Torun,
	"RDLP_Wroclaw_wydzielenia":      Wroclaw,
	"RDLP_Zielona_Gora_wydzielenia": ZielonaGora,
	"RDLP_Gdansk_wydzielenia":       Gdansk,
	"RDLP_Radom_wydzielenia":        Radom,
	"RDLP_Warszawa_wydzielenia":     Warszawa,
}

func TestResolve_EveryRegionCode(t *testing.T) {
	for code, want := range regionCodes {
		hint := fmt.Sprintf("extracted/rdlp_%s/G_COMPARTMENT_%s.zip", code, code)
		got, err := Resolve(hint, nil)
		require.NoError(t, err, "code %s", code)
		assert.Equal(t, want, got, "code %s", code)
	}
}

func TestResolve_EveryLegacyFilename(t *testing.T) {
	for name, want := range legacyNames {
		hint := fmt.Sprintf("api_data/%s_2000_1699999999.json", name)
		got, err := Resolve(hint, nil)
		require.NoError(t, err, "name %s", name)
		assert.Equal(t, want, got, "name %s", name)
	}
}

func TestResolve_PropertyFallback(t *testing.T) {
	props := map[string]interface{}{"rdlp_name": "szczecinek"}

	got, err := Resolve("unrelated_file.json", props)

	require.NoError(t, err)
	assert.Equal(t, Szczecinek, got)
}

func TestResolve_PropertyMustBeKnownIdentifier(t *testing.T) {
	props := map[string]interface{}{"rdlp_name": "atlantis"}

	_, err := Resolve("unrelated_file.json", props)

	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestResolve_FileHintsWinOverProperties(t *testing.T) {
	// Ordering is load-bearing: file-derived strategies run before the
	// property fallback, even when both are present.
	props := map[string]interface{}{"rdlp_name": "gdansk"}

	got, err := Resolve("rdlp_07/G_COMPARTMENT_07.zip", props)

	require.NoError(t, err)
	assert.Equal(t, Olsztyn, got)
}

func TestResolve_LegacyNameWinsOverProperties(t *testing.T) {
	props := map[string]interface{}{"rdlp_name": "gdansk"}

	got, err := Resolve("RDLP_Radom_wydzielenia_0_1699999999.json", props)

	require.NoError(t, err)
	assert.Equal(t, Radom, got)
}

func TestResolve_FailureIsNeverDefaulted(t *testing.T) {
	tests := []struct {
		name  string
		hint  string
		props map[string]interface{}
	}{
		{"no hints at all", "mystery.json", nil},
		{"empty property bag", "mystery.json", map[string]interface{}{}},
		{"non-string property", "mystery.json", map[string]interface{}{"rdlp_name": 7}},
		{"code out of range", "rdlp_18/file.json", nil},
		{"code zero", "rdlp_00/file.json", nil},
		{"three-digit segment", "rdlp_075/file.json", nil},
		{"unknown legacy name", "RDLP_Atlantis_wydzielenia.json", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := Resolve(tt.hint, tt.props)
			assert.ErrorIs(t, err, ErrUnresolved)
			assert.Empty(t, key)
		})
	}
}

func TestResolve_WindowsPathSeparators(t *testing.T) {
	got, err := Resolve(`G:\data\rdlp_15\G_COMPARTMENT_15.zip`, nil)

	require.NoError(t, err)
	assert.Equal(t, Gdansk, got)
}

func TestAll_ReturnsSeventeenKeysInCodeOrder(t *testing.T) {
	keys := All()

	require.Len(t, keys, 17)
	assert.Equal(t, Bialystok, keys[0])
	assert.Equal(t, Olsztyn, keys[6])
	assert.Equal(t, Warszawa, keys[16])
}

func TestKnown(t *testing.T) {
	key, ok := Known("zielona_gora")
	assert.True(t, ok)
	assert.Equal(t, ZielonaGora, key)

	_, ok = Known("Olsztyn")
	assert.False(t, ok, "matching is exact; callers lowercase first")
}
