package model

import "time"

// RunSummary captures metrics from a single convert or ingest run.
type RunSummary struct {
	FilePath      string
	FileSHA256    string
	RunID         int64 // zero for convert runs
	BatchID       string
	RowsRead      int64
	RowsValid     int64
	RowsInvalid   int64
	RowsWritten   int64
	RowsByStage   map[string]int64
	DurationRead  time.Duration
	DurationWrite time.Duration
	DurationTotal time.Duration
}
