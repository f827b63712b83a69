package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/datenorm/internal/config"
	"github.com/gyeh/datenorm/internal/model"
	"github.com/gyeh/datenorm/internal/parquetio"
)

// Convert normalizes the raw_date column of cfg.FilePath into a new Parquet
// file at cfg.OutPath. Invalid dates are kept, rendered as the sentinel.
func Convert(ctx context.Context, log zerolog.Logger, cfg *config.Config) (*model.RunSummary, error) {
	totalStart := time.Now()

	if cfg.OutPath == "" {
		return nil, &PipelineError{Phase: "preflight", Err: fmt.Errorf("--out is required")}
	}
	norm, err := NewNormalizerFromConfig(cfg)
	if err != nil {
		return nil, &PipelineError{Phase: "preflight", Err: err}
	}

	sha, err := FileHash(cfg.FilePath)
	if err != nil {
		return nil, &PipelineError{Phase: "preflight", Err: err}
	}

	reader, err := parquetio.Open(cfg.FilePath)
	if err != nil {
		return nil, &PipelineError{Phase: "preflight", Err: err}
	}
	defer reader.Close()

	writer, err := parquetio.Create(cfg.OutPath)
	if err != nil {
		return nil, &PipelineError{Phase: "convert", Err: err}
	}

	batchID := uuid.New()
	log.Info().
		Str("file", cfg.FilePath).
		Str("out", cfg.OutPath).
		Str("batch_id", batchID.String()).
		Str("output_template", norm.Output().String()).
		Int64("rows", reader.NumRows()).
		Msg("starting convert")

	size := cfg.ReadBatchSize()
	pending := make([]model.NormalizedRow, 0, size)
	counts := newTally()
	var written int64
	var writeDur time.Duration

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		start := time.Now()
		n, err := writer.Write(pending)
		writeDur += time.Since(start)
		written += int64(n)
		pending = pending[:0]
		return err
	}

	err = eachRow(ctx, reader, size, func(pos int64, row *model.DateRow) error {
		nr := norm.Row(row, pos, batchID)
		counts.add(&nr)
		if !nr.Valid {
			log.Debug().Int64("row", nr.RowID).Str("raw_date", nr.RawDate).Msg("date not recognized")
		}
		pending = append(pending, nr)
		if len(pending) == size {
			return flush()
		}
		return nil
	})
	if err == nil {
		err = flush()
	}
	if err != nil {
		writer.Close()
		return nil, &PipelineError{Phase: "convert", Err: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &PipelineError{Phase: "convert", Err: err}
	}

	summary := &model.RunSummary{
		FilePath:      cfg.FilePath,
		FileSHA256:    sha,
		BatchID:       batchID.String(),
		RowsRead:      counts.read,
		RowsValid:     counts.valid,
		RowsInvalid:   counts.invalid,
		RowsWritten:   written,
		RowsByStage:   counts.byStage,
		DurationWrite: writeDur,
		DurationTotal: time.Since(totalStart),
	}
	summary.DurationRead = summary.DurationTotal - writeDur

	log.Info().
		Int64("rows_read", summary.RowsRead).
		Int64("rows_valid", summary.RowsValid).
		Int64("rows_invalid", summary.RowsInvalid).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("convert complete")

	return summary, nil
}
