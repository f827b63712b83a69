package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	embedsql "github.com/gyeh/datenorm/internal/sql"
)

// Finalize records the row counts on the run, marks it complete and
// refreshes planner statistics on the output table.
func Finalize(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, runID int64, sr *StageResult) (time.Duration, error) {
	start := time.Now()

	if _, err := pool.Exec(ctx, embedsql.FinalizeRun, runID, sr.RowsRead, sr.RowsValid, sr.RowsInvalid); err != nil {
		return 0, fmt.Errorf("finalize run: %w", err)
	}
	log.Info().Int64("run_id", runID).Msg("run marked complete")

	if _, err := pool.Exec(ctx, "ANALYZE datenorm.normalized_dates"); err != nil {
		return 0, fmt.Errorf("analyze normalized_dates: %w", err)
	}
	log.Info().Msg("ANALYZE complete")

	return time.Since(start), nil
}
