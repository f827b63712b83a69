package batch

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/gyeh/datenorm/internal/config"
	"github.com/gyeh/datenorm/internal/model"
	"github.com/gyeh/datenorm/internal/normalize"
	"github.com/gyeh/datenorm/internal/parquetio"
)

// Normalizer turns raw DateRows into NormalizedRows with a fixed registry
// and output template. It is safe for concurrent use.
type Normalizer struct {
	resolver *normalize.Resolver
	output   normalize.Output
}

// NewNormalizer builds a Normalizer over reg (Default() when nil).
func NewNormalizer(reg *normalize.Registry, out normalize.Output) *Normalizer {
	return &Normalizer{resolver: normalize.NewResolver(reg), output: out}
}

// NewNormalizerFromConfig builds the registry and output template cfg describes.
func NewNormalizerFromConfig(cfg *config.Config) (*Normalizer, error) {
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	out, err := cfg.Output(reg)
	if err != nil {
		return nil, err
	}
	return NewNormalizer(reg, out), nil
}

// Output returns the output template rows are rendered with.
func (n *Normalizer) Output() normalize.Output {
	return n.output
}

// Row normalizes one input row. pos is the 1-based position in the file,
// used as the row id when the file does not carry one.
func (n *Normalizer) Row(row *model.DateRow, pos int64, batchID uuid.UUID) model.NormalizedRow {
	out := model.NormalizedRow{
		BatchID: batchID,
		RowID:   pos,
		RawDate: row.RawDate,
	}
	if row.RowID != nil {
		out.RowID = *row.RowID
	}

	m, err := n.resolver.Resolve(row.RawDate)
	if err != nil {
		out.Normalized = normalize.Sentinel
		out.Stage = "none"
		return out
	}

	instant := m.Instant
	out.Normalized = n.output.Render(instant)
	out.Instant = &instant
	out.Stage = m.Stage.String()
	out.Valid = true
	if m.Stage != normalize.StageFastPath {
		family := m.Template.Family.String()
		key := m.Template.Key
		out.Family = &family
		out.Template = &key
	}
	return out
}

// tally accumulates row outcomes for a run summary.
type tally struct {
	read    int64
	valid   int64
	invalid int64
	byStage map[string]int64
}

func newTally() *tally {
	return &tally{byStage: make(map[string]int64)}
}

func (t *tally) add(r *model.NormalizedRow) {
	t.read++
	if r.Valid {
		t.valid++
	} else {
		t.invalid++
	}
	t.byStage[r.Stage]++
}

// eachRow reads r in batches of size and calls fn with every row and its
// 1-based position. fn must not retain row.
func eachRow(ctx context.Context, r *parquetio.Reader, size int, fn func(pos int64, row *model.DateRow) error) error {
	buf := make([]model.DateRow, size)
	var pos int64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, readErr := r.Read(buf)
		for i := 0; i < n; i++ {
			pos++
			if err := fn(pos, &buf[i]); err != nil {
				return err
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("read parquet at row %d: %w", pos, readErr)
		}
	}
}
