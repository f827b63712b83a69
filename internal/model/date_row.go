package model

// DateRow mirrors the Parquet input schema: one raw date string per row.
// RowID is optional in the file; rows without one are numbered by position.
type DateRow struct {
	RowID   *int64 `parquet:"row_id,optional"`
	RawDate string `parquet:"raw_date"`
}

// RequiredColumns lists the input columns a file must carry.
var RequiredColumns = []string{"raw_date"}
