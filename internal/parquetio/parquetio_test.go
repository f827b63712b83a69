package parquetio

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/datenorm/internal/model"
)

func int64p(v int64) *int64 { return &v }

func TestReader_StreamsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dates.parquet")
	in := []model.DateRow{
		{RowID: int64p(1), RawDate: "21/11/2025 13:45"},
		{RowID: int64p(2), RawDate: "Nov 21, 2025"},
		{RawDate: "garbage"},
	}
	require.NoError(t, parquet.WriteFile(path, in))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, int64(3), r.NumRows())

	buf := make([]model.DateRow, 2)
	var got []model.DateRow
	for {
		n, err := r.Read(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}

	require.Len(t, got, 3)
	assert.Equal(t, "Nov 21, 2025", got[1].RawDate)
	require.NotNil(t, got[0].RowID)
	assert.Equal(t, int64(1), *got[0].RowID)
	assert.Nil(t, got[2].RowID)
}

func TestOpen_RejectsForeignSchema(t *testing.T) {
	type other struct {
		When string `parquet:"when"`
	}
	path := filepath.Join(t.TempDir(), "other.parquet")
	require.NoError(t, parquet.WriteFile(path, []other{{When: "today"}}))

	_, err := Open(path)
	assert.ErrorContains(t, err, "missing required column: raw_date")
}

func TestOpen_RejectsNonStringRawDate(t *testing.T) {
	type numeric struct {
		RawDate int64 `parquet:"raw_date"`
	}
	path := filepath.Join(t.TempDir(), "numeric.parquet")
	require.NoError(t, parquet.WriteFile(path, []numeric{{RawDate: 20251121}}))

	_, err := Open(path)
	assert.ErrorContains(t, err, "must be a string column")
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.parquet"))
	assert.Error(t, err)
}

func TestWriter_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.parquet")
	instant := time.Date(2025, time.November, 21, 13, 45, 0, 0, time.UTC)
	family := "slash"
	key := "slash_dmy_hm"

	w, err := Create(path)
	require.NoError(t, err)
	n, err := w.Write([]model.NormalizedRow{
		{BatchID: uuid.New(), RowID: 1, RawDate: "21/11/2025 13:45", Normalized: "21/11/2025 13:45",
			Instant: &instant, Family: &family, Template: &key, Stage: "targeted", Valid: true},
		{RowID: 2, RawDate: "garbage", Normalized: "Invalid date", Stage: "none"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NoError(t, w.Close())

	rows, err := parquet.ReadFile[model.NormalizedRow](path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.True(t, rows[0].Valid)
	require.NotNil(t, rows[0].Instant)
	assert.True(t, instant.Equal(*rows[0].Instant))
	assert.Equal(t, "slash", *rows[0].Family)
	assert.Equal(t, uuid.Nil, rows[0].BatchID, "batch id is not persisted to parquet")

	assert.False(t, rows[1].Valid)
	assert.Nil(t, rows[1].Instant)
	assert.Equal(t, "Invalid date", rows[1].Normalized)
}
