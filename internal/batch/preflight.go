package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/datenorm/internal/parquetio"
	embedsql "github.com/gyeh/datenorm/internal/sql"
)

// PreflightResult holds all context resolved during the preflight phase.
type PreflightResult struct {
	// FilePath is the original path passed to Preflight, stored as-is.
	FilePath string
	// FileSHA256 is the hex-encoded SHA-256 digest of the file.
	FileSHA256 string
	FileSize   int64
	NumRows    int64
	// OutputTemplate is the rendered output pattern; a file is only
	// considered loaded for the template it was loaded with.
	OutputTemplate string
	// RunID is the datenorm.runs primary key for this file and template.
	RunID int64
	// BatchID tags every row written by this run.
	BatchID uuid.UUID
	// StaleBatchID is the batch of an earlier, replaced run of the same
	// file, or uuid.Nil.
	StaleBatchID uuid.UUID
	// AlreadyLoaded is true when the file completed before and force mode
	// is off, signaling the pipeline can skip it.
	AlreadyLoaded bool
}

// Preflight hashes and validates the file and registers the run.
func Preflight(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, filePath, outputTemplate string, force bool) (*PreflightResult, error) {
	start := time.Now()

	sha, err := FileHash(filePath)
	if err != nil {
		return nil, fmt.Errorf("preflight hash: %w", err)
	}

	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("preflight stat: %w", err)
	}

	reader, err := parquetio.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("preflight open: %w", err)
	}
	numRows := reader.NumRows()
	reader.Close()

	log.Info().
		Str("file", filepath.Base(filePath)).
		Str("sha256", sha).
		Int64("rows", numRows).
		Dur("duration", time.Since(start)).
		Msg("preflight complete")

	pf := &PreflightResult{
		FilePath:       filePath,
		FileSHA256:     sha,
		FileSize:       stat.Size(),
		NumRows:        numRows,
		OutputTemplate: outputTemplate,
		BatchID:        uuid.New(),
	}
	if err := registerRun(ctx, pool, pf, force); err != nil {
		return nil, fmt.Errorf("preflight register run: %w", err)
	}
	return pf, nil
}

func registerRun(ctx context.Context, pool *pgxpool.Pool, pf *PreflightResult, force bool) error {
	err := pool.QueryRow(ctx, embedsql.RegisterRun,
		pf.BatchID, filepath.Base(pf.FilePath), pf.FileSHA256, pf.OutputTemplate, pf.NumRows,
	).Scan(&pf.RunID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("register run: %w", err)
	}

	// Already registered (ON CONFLICT DO NOTHING returned no rows)
	var prevBatch uuid.UUID
	var status string
	if err := pool.QueryRow(ctx, embedsql.LookupRun, pf.FileSHA256, pf.OutputTemplate).
		Scan(&pf.RunID, &prevBatch, &status); err != nil {
		return fmt.Errorf("lookup existing run: %w", err)
	}

	if !force && status == "complete" {
		pf.AlreadyLoaded = true
		pf.BatchID = prevBatch
		return nil
	}

	if _, err := pool.Exec(ctx, embedsql.RestartRun, pf.RunID, pf.BatchID); err != nil {
		return fmt.Errorf("restart run: %w", err)
	}
	pf.StaleBatchID = prevBatch
	return nil
}
