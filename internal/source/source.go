// Package source supplies raw features to the pipeline: it discovers
// candidate files on disk and decodes GeoJSON feature collections. It has no
// opinion on which files are worth parsing; that is the eligibility
// filter's job.
package source

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/pilarzops/rdlp-ingest/internal/models"
)

// Discover walks root recursively and returns the paths of all regular
// files, sorted for a deterministic processing order.
func Discover(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// featureCollection is the wire shape of a GeoJSON FeatureCollection as
// served by the BDL OGC API and produced by shapefile conversion.
type featureCollection struct {
	Type     string              `json:"type"`
	Features []models.RawFeature `json:"features"`
}

// ReadFeatures decodes one GeoJSON file into raw features. Every feature
// carries the file's path as its source hint, which the partition resolver
// consumes.
func ReadFeatures(path string) ([]models.RawFeature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var collection featureCollection
	if err := json.NewDecoder(f).Decode(&collection); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	for i := range collection.Features {
		collection.Features[i].SourceHint = path
	}
	return collection.Features, nil
}
