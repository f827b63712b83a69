package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/datenorm/internal/config"
	"github.com/gyeh/datenorm/internal/model"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Run executes the full ingest pipeline: preflight → cleanup of a replaced
// batch → stage → finalize.
func Run(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, cfg *config.Config) (*model.RunSummary, error) {
	totalStart := time.Now()

	norm, err := NewNormalizerFromConfig(cfg)
	if err != nil {
		return nil, &PipelineError{Phase: "preflight", Err: err}
	}

	// Phase 1: Preflight
	log.Info().Str("file", cfg.FilePath).Msg("starting preflight")
	pf, err := Preflight(ctx, pool, log, cfg.FilePath, norm.Output().String(), cfg.Force)
	if err != nil {
		return nil, &PipelineError{Phase: "preflight", Err: err}
	}

	if pf.AlreadyLoaded {
		log.Info().
			Int64("run_id", pf.RunID).
			Str("sha256", pf.FileSHA256).
			Msg("file already normalized with this template, skipping (use --force to redo)")
		return &model.RunSummary{
			FilePath:      pf.FilePath,
			FileSHA256:    pf.FileSHA256,
			RunID:         pf.RunID,
			BatchID:       pf.BatchID.String(),
			DurationTotal: time.Since(totalStart),
		}, nil
	}

	// Phase 2: Drop rows from the run being replaced
	if pf.StaleBatchID != uuid.Nil && !cfg.KeepRows {
		if err := Cleanup(ctx, pool, log, pf.StaleBatchID); err != nil {
			_ = UpdateStatus(ctx, pool, pf.RunID, "failed")
			return nil, &PipelineError{Phase: "cleanup", Err: err}
		}
	}

	// Phase 3: Stage
	log.Info().Str("batch_id", pf.BatchID.String()).Msg("starting staging")
	if err := UpdateStatus(ctx, pool, pf.RunID, "staging"); err != nil {
		return nil, &PipelineError{Phase: "stage", Err: err}
	}

	stageResult, err := Stage(ctx, pool, log, pf, norm, cfg.ReadBatchSize())
	if err != nil {
		_ = UpdateStatus(ctx, pool, pf.RunID, "failed")
		return nil, &PipelineError{Phase: "stage", Err: err}
	}

	// Phase 4: Finalize
	log.Info().Msg("finalizing")
	finalizeDur, err := Finalize(ctx, pool, log, pf.RunID, stageResult)
	if err != nil {
		_ = UpdateStatus(ctx, pool, pf.RunID, "failed")
		return nil, &PipelineError{Phase: "finalize", Err: err}
	}

	summary := &model.RunSummary{
		FilePath:      pf.FilePath,
		FileSHA256:    pf.FileSHA256,
		RunID:         pf.RunID,
		BatchID:       pf.BatchID.String(),
		RowsRead:      stageResult.RowsRead,
		RowsValid:     stageResult.RowsValid,
		RowsInvalid:   stageResult.RowsInvalid,
		RowsWritten:   stageResult.RowsCopied,
		RowsByStage:   stageResult.RowsByStage,
		DurationRead:  stageResult.Duration,
		DurationWrite: finalizeDur,
		DurationTotal: time.Since(totalStart),
	}

	log.Info().
		Int64("rows_read", summary.RowsRead).
		Int64("rows_valid", summary.RowsValid).
		Int64("rows_invalid", summary.RowsInvalid).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("ingest pipeline complete")

	return summary, nil
}
