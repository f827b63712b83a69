// mkfixture writes a Parquet file of raw date strings in every known input
// layout, mixed with blanks and junk, for exercising plan/convert/ingest.
// Usage: go run ./cmd/mkfixture --out testdata/dates.parquet --rows 500
package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"sort"
	"time"

	goparquet "github.com/parquet-go/parquet-go"

	"github.com/gyeh/datenorm/internal/batch"
	"github.com/gyeh/datenorm/internal/model"
	"github.com/gyeh/datenorm/internal/normalize"
)

var junk = []string{
	"",
	"   ",
	"not a date",
	"yesterday",
	"31/02/2025",
	"2025-13-01",
	"Nov 2025",
	"13:45",
}

func main() {
	out := flag.String("out", "testdata/dates.parquet", "output parquet")
	maxRows := flag.Int("rows", 500, "rows to write")
	junkPct := flag.Int("junk", 5, "percent of rows that should not parse")
	seed := flag.Uint64("seed", 1, "random seed")
	checkOnly := flag.String("check", "", "only print route stats for this parquet file, don't write")
	flag.Parse()

	if *checkOnly != "" {
		if err := check(*checkOnly); err != nil {
			fmt.Fprintf(os.Stderr, "check: %v\n", err)
			os.Exit(1)
		}
		return
	}

	rng := rand.New(rand.NewPCG(*seed, *seed))
	templates := normalize.Default().All()
	start := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	span := int64(40 * 365 * 24 * time.Hour / time.Second)

	rows := make([]model.DateRow, 0, *maxRows)
	for i := 0; i < *maxRows; i++ {
		id := int64(i + 1)
		row := model.DateRow{RowID: &id}
		switch {
		case rng.IntN(100) < *junkPct:
			row.RawDate = junk[rng.IntN(len(junk))]
		case rng.IntN(10) == 0:
			// ISO 8601 strings take the fast path.
			row.RawDate = randomInstant(rng, start, span).Format(time.RFC3339)
		default:
			tmpl := templates[rng.IntN(len(templates))]
			row.RawDate = tmpl.Format(randomInstant(rng, start, span))
		}
		rows = append(rows, row)
	}

	if err := goparquet.WriteFile(*out, rows); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d rows to %s\n", len(rows), *out)
	printRoutes(rows)
}

func randomInstant(rng *rand.Rand, start time.Time, span int64) time.Time {
	t := start.Add(time.Duration(rng.Int64N(span)) * time.Second)
	if rng.IntN(4) == 0 {
		t = t.In(time.FixedZone("", (rng.IntN(25)-12)*3600))
	}
	return t
}

func check(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		return err
	}
	pf, err := goparquet.OpenFile(f, stat.Size())
	if err != nil {
		return err
	}

	reader := goparquet.NewGenericReader[model.DateRow](pf)
	defer reader.Close()

	var rows []model.DateRow
	buf := make([]model.DateRow, 1024)
	for {
		n, readErr := reader.Read(buf)
		rows = append(rows, buf[:n]...)
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return readErr
		}
	}
	fmt.Printf("Total: %d\n", len(rows))
	printRoutes(rows)
	return nil
}

func printRoutes(rows []model.DateRow) {
	counts := make(map[string]int)
	for _, r := range rows {
		counts[batch.Route(r.RawDate)]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("Route distribution:")
	for _, name := range names {
		fmt.Printf("  %-10s %d\n", name, counts[name])
	}
}
