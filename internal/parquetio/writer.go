package parquetio

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/datenorm/internal/model"
)

// Writer streams NormalizedRow records into a new Parquet file.
type Writer struct {
	file   *os.File
	writer *parquet.GenericWriter[model.NormalizedRow]
}

// Create creates (or truncates) path and returns a Writer for it.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create parquet file: %w", err)
	}
	w := parquet.NewGenericWriter[model.NormalizedRow](f)
	return &Writer{file: f, writer: w}, nil
}

// Write appends rows to the file.
func (w *Writer) Write(rows []model.NormalizedRow) (int, error) {
	n, err := w.writer.Write(rows)
	if err != nil {
		return n, fmt.Errorf("write parquet rows: %w", err)
	}
	return n, nil
}

// Close flushes the footer and closes the file.
func (w *Writer) Close() error {
	if err := w.writer.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return w.file.Close()
}
