package model

import (
	"time"

	"github.com/google/uuid"
)

// NormalizedRow is the output of normalizing one DateRow. It is written to
// Parquet by convert and COPY-loaded into Postgres by ingest.
type NormalizedRow struct {
	BatchID uuid.UUID `parquet:"-"`

	RowID      int64      `parquet:"row_id"`
	RawDate    string     `parquet:"raw_date"`
	Normalized string     `parquet:"normalized"` // formatted value, or the sentinel
	Instant    *time.Time `parquet:"instant,optional"`
	Family     *string    `parquet:"family,optional"` // nil for the ISO fast path and failures
	Template   *string    `parquet:"template,optional"`
	Stage      string     `parquet:"stage"`
	Valid      bool       `parquet:"valid"`
}

// NormalizedColumns returns the column names for COPY into
// datenorm.normalized_dates, in the order CopyValues uses.
func NormalizedColumns() []string {
	return []string{
		"batch_id",
		"row_id",
		"raw_date",
		"normalized",
		"instant",
		"family",
		"template_key",
		"stage",
		"valid",
	}
}

// CopyValues returns the row values in the same order as NormalizedColumns(),
// suitable for pgx CopyFromSource.
func (r *NormalizedRow) CopyValues() []any {
	return []any{
		r.BatchID,
		r.RowID,
		r.RawDate,
		r.Normalized,
		r.Instant,
		r.Family,
		r.Template,
		r.Stage,
		r.Valid,
	}
}
