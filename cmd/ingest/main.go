package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/pilarzops/rdlp-ingest/internal/bdl"
	"github.com/pilarzops/rdlp-ingest/internal/config"
	"github.com/pilarzops/rdlp-ingest/internal/database"
	"github.com/pilarzops/rdlp-ingest/internal/logger"
	"github.com/pilarzops/rdlp-ingest/internal/normalizer"
	"github.com/pilarzops/rdlp-ingest/internal/repository"
	"github.com/pilarzops/rdlp-ingest/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env).WithRunID(uuid.NewString())
	log.Info("Starting RDLP ingestion", map[string]interface{}{
		"environment": cfg.App.Env,
		"data_dir":    cfg.App.DataDir,
		"workers":     cfg.App.Workers,
	})

	// Cancellation mid-run is safe: loads are append-only and idempotent.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	if cfg.App.FetchOnStart {
		client := bdl.NewClient(cfg.BDL, cfg.App.DataDir, log)
		if err := client.FetchAll(ctx); err != nil {
			log.Fatal("Upstream fetch aborted", err, nil)
		}
	}

	writer := repository.NewParcelWriter(db)
	norm := normalizer.New(log)
	ingest := services.NewIngestService(writer, norm, log, cfg.App.Workers)

	report, err := ingest.IngestDir(ctx, cfg.App.DataDir)
	if err != nil {
		log.Error("Ingestion run failed", err, nil)
		os.Exit(1)
	}

	// Partition-level failures were already reported per batch; a run where
	// every batch failed means the store itself was unreachable.
	if report.FilesIngested > 0 && report.PartitionFailures() > 0 && report.Inserted() == 0 {
		log.Error("No partition batch succeeded", nil, map[string]interface{}{
			"partition_failures": report.PartitionFailures(),
		})
		os.Exit(1)
	}
}
