package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/datenorm/internal/db"
	"github.com/gyeh/datenorm/internal/model"
	"github.com/gyeh/datenorm/internal/parquetio"
	embedsql "github.com/gyeh/datenorm/internal/sql"
)

// StageResult holds metrics from the staging phase.
type StageResult struct {
	RowsRead    int64
	RowsValid   int64
	RowsInvalid int64
	RowsCopied  int64
	RowsByStage map[string]int64
	Duration    time.Duration
}

// Stage streams rows from the Parquet file, normalizes them, and COPY-loads
// them into datenorm.normalized_dates via a channel-backed CopyFromSource.
func Stage(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, pf *PreflightResult, norm *Normalizer, batchSize int) (*StageResult, error) {
	start := time.Now()

	reader, err := parquetio.Open(pf.FilePath)
	if err != nil {
		return nil, fmt.Errorf("stage open: %w", err)
	}
	defer reader.Close()

	// Cancelled once COPY returns so a failed COPY cannot strand the producer.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := make(chan *model.NormalizedRow, batchSize)
	errCh := make(chan error, 1)
	counts := newTally()

	// Producer goroutine: read Parquet → normalize → push to channel
	go func() {
		defer close(ch)
		errCh <- eachRow(ctx, reader, batchSize, func(pos int64, row *model.DateRow) error {
			nr := norm.Row(row, pos, pf.BatchID)
			counts.add(&nr)
			select {
			case ch <- &nr:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()

	// Consumer: COPY from channel into the output table
	source := db.NewChannelSource(ctx, ch)
	rowsCopied, copyErr := pool.CopyFrom(ctx,
		pgx.Identifier{"datenorm", "normalized_dates"},
		model.NormalizedColumns(),
		source,
	)
	cancel()

	// Wait for producer to finish
	prodErr := <-errCh
	if copyErr != nil {
		return nil, fmt.Errorf("stage copy: %w", copyErr)
	}
	if prodErr != nil {
		return nil, fmt.Errorf("stage producer: %w", prodErr)
	}

	dur := time.Since(start)
	log.Info().
		Int64("rows_read", counts.read).
		Int64("rows_sent", source.Sent()).
		Int64("rows_copied", rowsCopied).
		Int64("rows_invalid", counts.invalid).
		Str("duration", dur.String()).
		Float64("rows_per_sec", float64(rowsCopied)/dur.Seconds()).
		Msg("staging complete")

	return &StageResult{
		RowsRead:    counts.read,
		RowsValid:   counts.valid,
		RowsInvalid: counts.invalid,
		RowsCopied:  rowsCopied,
		RowsByStage: counts.byStage,
		Duration:    dur,
	}, nil
}

// UpdateStatus updates the run status.
func UpdateStatus(ctx context.Context, pool *pgxpool.Pool, runID int64, status string) error {
	_, err := pool.Exec(ctx, embedsql.UpdateRunStatus, runID, status)
	return err
}
