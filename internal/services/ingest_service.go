// Package services wires the ingestion pipeline together: discovered files
// pass the eligibility filter, eligible files are read into raw features,
// features are normalized into canonical parcels, and per-partition batches
// are loaded concurrently into the store.
package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pilarzops/rdlp-ingest/internal/eligibility"
	"github.com/pilarzops/rdlp-ingest/internal/logger"
	"github.com/pilarzops/rdlp-ingest/internal/models"
	"github.com/pilarzops/rdlp-ingest/internal/normalizer"
	"github.com/pilarzops/rdlp-ingest/internal/repository"
	"github.com/pilarzops/rdlp-ingest/internal/source"
)

// FileReport summarizes one source file's trip through the pipeline.
type FileReport struct {
	File             string
	Features         int
	Normalized       int
	DegradedGeometry int
	Dropped          map[normalizer.DropReason]int
	Results          []repository.LoadResult
}

// RunReport summarizes one ingestion run.
type RunReport struct {
	FilesSeen     int
	FilesSkipped  int
	FilesIngested int
	Files         []FileReport
}

// Inserted sums newly appended rows across the run.
func (r *RunReport) Inserted() int64 {
	var n int64
	for _, f := range r.Files {
		for _, res := range f.Results {
			n += res.Inserted
		}
	}
	return n
}

// PartitionFailures counts partition batches that failed to load.
func (r *RunReport) PartitionFailures() int {
	n := 0
	for _, f := range r.Files {
		for _, res := range f.Results {
			if res.Err != nil {
				n++
			}
		}
	}
	return n
}

// IngestService runs the pipeline end to end.
type IngestService struct {
	writer  repository.ParcelWriter
	norm    *normalizer.Normalizer
	log     *logger.Logger
	workers int
}

// NewIngestService creates an IngestService. workers bounds how many
// partition batches load concurrently.
func NewIngestService(writer repository.ParcelWriter, norm *normalizer.Normalizer, log *logger.Logger, workers int) *IngestService {
	if workers < 1 {
		workers = 1
	}
	return &IngestService{
		writer:  writer,
		norm:    norm,
		log:     log,
		workers: workers,
	}
}

// IngestDir discovers candidate files under dataDir and processes each
// eligible file end to end, one file at a time, so memory stays bounded to
// a single file's records. A file that fails to read is reported and
// skipped; it never aborts the run. Only discovery failure or cancellation
// surfaces as a run-level error.
func (s *IngestService) IngestDir(ctx context.Context, dataDir string) (*RunReport, error) {
	paths, err := source.Discover(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to discover source files: %w", err)
	}

	report := &RunReport{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			// Partially loaded runs are a valid store state: inserts are
			// append-only and replaying converges.
			return report, err
		}

		report.FilesSeen++
		if !eligibility.Eligible(path) {
			report.FilesSkipped++
			s.log.Debug("file ineligible, skipping", map[string]interface{}{
				"file": path,
			})
			continue
		}

		fileReport, err := s.IngestFile(ctx, path)
		if err != nil {
			s.log.Error("failed to ingest file", err, map[string]interface{}{
				"file": path,
			})
			continue
		}
		report.FilesIngested++
		report.Files = append(report.Files, *fileReport)
	}

	s.log.Info("ingestion run finished", map[string]interface{}{
		"files_seen":         report.FilesSeen,
		"files_skipped":      report.FilesSkipped,
		"files_ingested":     report.FilesIngested,
		"rows_inserted":      report.Inserted(),
		"partition_failures": report.PartitionFailures(),
	})

	return report, nil
}

// IngestFile reads one eligible file, normalizes its features, groups the
// surviving records into a per-partition batch, and loads the batch. The
// batch is discarded afterwards.
func (s *IngestService) IngestFile(ctx context.Context, path string) (*FileReport, error) {
	features, err := source.ReadFeatures(path)
	if err != nil {
		return nil, err
	}

	log := s.log.WithFile(path)
	report := &FileReport{
		File:    path,
		Dropped: make(map[normalizer.DropReason]int),
	}

	batch := models.NewLoadBatch()
	for _, feature := range features {
		report.Features++
		outcome := s.norm.Normalize(feature)
		if outcome.Parcel == nil {
			report.Dropped[outcome.Drop]++
			continue
		}
		if outcome.DegradedGeometry {
			report.DegradedGeometry++
		}
		report.Normalized++
		batch.Add(*outcome.Parcel)
	}

	report.Results = s.loadBatch(ctx, batch)

	log.Info("file ingested", map[string]interface{}{
		"features":   report.Features,
		"normalized": report.Normalized,
		"dropped":    report.Features - report.Normalized,
		"partitions": len(report.Results),
	})

	return report, nil
}

// loadBatch appends each partition's group concurrently with a bounded
// worker pool. Partitions are independent write targets: a failure in one
// is recorded in its result and never blocks the siblings.
func (s *IngestService) loadBatch(ctx context.Context, batch *models.LoadBatch) []repository.LoadResult {
	keys := batch.Partitions()
	results := make([]repository.LoadResult, len(keys))

	var g errgroup.Group
	g.SetLimit(s.workers)

	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			records := batch.Records(key)
			inserted, err := s.writer.AppendBatch(ctx, key, records)
			results[i] = repository.LoadResult{
				Partition: key,
				Attempted: len(records),
				Inserted:  inserted,
				Skipped:   int64(len(records)) - inserted,
				Err:       err,
			}

			if err != nil {
				s.log.Error("partition batch failed", err, map[string]interface{}{
					"partition": string(key),
					"attempted": len(records),
				})
				return nil
			}
			s.log.Info("partition batch loaded", map[string]interface{}{
				"partition": string(key),
				"attempted": len(records),
				"inserted":  inserted,
				"skipped":   int64(len(records)) - inserted,
			})
			return nil
		})
	}

	// Goroutines report failures through their results, never as errors.
	_ = g.Wait()

	return results
}
