package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pilarzops/rdlp-ingest/internal/database"
	"github.com/pilarzops/rdlp-ingest/internal/models"
	"github.com/pilarzops/rdlp-ingest/internal/partition"
)

// LoadResult describes the outcome of one partition's bulk append.
type LoadResult struct {
	Partition partition.Key
	Attempted int
	// Inserted counts newly appended rows. Skipped rows hit an existing
	// (adr_for, rdlp_name) natural key and were left untouched.
	Inserted int64
	Skipped  int64
	Err      error
}

// ParcelWriter defines the store-facing bulk append operation. The store's
// 17 partitioned tables are provisioned by an external migration authority;
// the writer only ever issues inserts, never DDL, updates, or deletes.
type ParcelWriter interface {
	// AppendBatch issues one bulk append of parcels into the given
	// partition's table with skip-on-conflict semantics: rows whose
	// (adr_for, rdlp_name) natural key already exists are silently left
	// alone. Replaying an identical batch is a no-op. Returns the number
	// of newly inserted rows.
	AppendBatch(ctx context.Context, key partition.Key, parcels []models.ForestParcel) (int64, error)
}

// parcelWriter is the pgx-backed implementation of ParcelWriter.
type parcelWriter struct {
	db *database.Database
}

// NewParcelWriter creates a ParcelWriter backed by the given pool.
func NewParcelWriter(db *database.Database) ParcelWriter {
	return &parcelWriter{db: db}
}

// insertSQL appends one parcel row. Geometry arrives as WKT text and is
// rebuilt by PostGIS with SRID 4326; the store rejects anything that is not
// a MultiPolygon. load_time is omitted; the column defaults on the store
// side.
const insertSQL = `
	INSERT INTO rdlp.%s_wydzielenia (
		id, area_type, a_i_num, silvicult, stand_stru, sub_area,
		species_cd, spec_age, nazwa, adr_for, site_type, forest_fun,
		rotat_age, prot_categ, part_cd, a_year, geometry,
		forest_range_name, rdlp_name
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		$15, $16, ST_GeomFromText($17, 4326), $18, $19
	)
	ON CONFLICT (adr_for, rdlp_name) DO NOTHING`

// AppendBatch queues one insert per parcel in a single pgx batch round trip
// and sums the command tags to learn how many rows were actually new.
func (w *parcelWriter) AppendBatch(ctx context.Context, key partition.Key, parcels []models.ForestParcel) (int64, error) {
	if len(parcels) == 0 {
		return 0, nil
	}

	// The table name interpolation is safe: keys come from the closed
	// 17-entry partition table, never from input data.
	sql := fmt.Sprintf(insertSQL, key)

	batch := &pgx.Batch{}
	for _, p := range parcels {
		batch.Queue(sql,
			p.ID,
			p.AreaType,
			p.AINum,
			p.Silvicult,
			p.StandStru,
			p.SubArea,
			p.SpeciesCd,
			p.SpecAge,
			p.Nazwa,
			p.AdrFor,
			p.SiteType,
			p.ForestFun,
			p.RotatAge,
			p.ProtCateg,
			p.PartCd,
			p.AYear,
			p.Geometry,
			p.ForestRangeName,
			p.RDLPName,
		)
	}

	results := w.db.Pool.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int64
	for range parcels {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("failed to append batch to partition %s: %w", key, err)
		}
		inserted += tag.RowsAffected()
	}

	return inserted, nil
}
