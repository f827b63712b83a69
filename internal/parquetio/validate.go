package parquetio

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/datenorm/internal/model"
)

// ValidateSchema checks that the Parquet schema contains every required
// column and that raw_date holds strings.
func ValidateSchema(schema *parquet.Schema) error {
	columns := make(map[string]parquet.Field)
	for _, field := range schema.Fields() {
		columns[strings.ToLower(field.Name())] = field
	}

	for _, col := range model.RequiredColumns {
		if _, ok := columns[col]; !ok {
			return fmt.Errorf("missing required column: %s", col)
		}
	}

	raw := columns["raw_date"]
	if !raw.Leaf() || raw.Type().Kind() != parquet.ByteArray {
		return fmt.Errorf("column raw_date must be a string column, got %s", raw.Type())
	}
	return nil
}
