package batch

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/gyeh/datenorm/internal/model"
	"github.com/gyeh/datenorm/internal/normalize"
	"github.com/gyeh/datenorm/internal/parquetio"
)

// routeAny labels inputs the selector could not classify.
const routeAny = "any"

// PlanReport is the result of a dry run over a sample of a file.
type PlanReport struct {
	FilePath   string
	FileSHA256 string
	FileSize   int64
	NumRows    int64
	Sampled    int64
	Valid      int64
	Invalid    int64
	Routes     map[string]int64 // selector route per sampled row
	Stages     map[string]int64 // resolver stage per sampled row
	Examples   []string         // first few unrecognized inputs
}

var errSampleDone = errors.New("sample complete")

// Plan validates path and normalizes up to sample rows without writing
// anything. A non-positive sample reads the whole file.
func Plan(ctx context.Context, path string, norm *Normalizer, sample int64) (*PlanReport, error) {
	sha, err := FileHash(path)
	if err != nil {
		return nil, err
	}
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	reader, err := parquetio.Open(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	rep := &PlanReport{
		FilePath:   path,
		FileSHA256: sha,
		FileSize:   stat.Size(),
		NumRows:    reader.NumRows(),
		Routes:     make(map[string]int64),
		Stages:     make(map[string]int64),
	}
	if sample <= 0 || sample > rep.NumRows {
		sample = rep.NumRows
	}

	err = eachRow(ctx, reader, 256, func(pos int64, row *model.DateRow) error {
		if rep.Sampled >= sample {
			return errSampleDone
		}
		rep.Sampled++
		rep.Routes[Route(row.RawDate)]++

		nr := norm.Row(row, pos, uuid.Nil)
		rep.Stages[nr.Stage]++
		if nr.Valid {
			rep.Valid++
		} else {
			rep.Invalid++
			if len(rep.Examples) < 5 {
				rep.Examples = append(rep.Examples, row.RawDate)
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, errSampleDone) {
		return nil, err
	}
	return rep, nil
}

// Route names the template family the selector sends raw to, or "any" when
// every family would be tried.
func Route(raw string) string {
	f, ok := normalize.Classify(strings.TrimSpace(raw))
	if !ok {
		return routeAny
	}
	return f.String()
}
