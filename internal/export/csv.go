// Package export renders flat records as CSV for spreadsheet downloads.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one row keyed by column name.
type Record map[string]any

// Encode writes a header line followed by one line per record. Columns
// default to the sorted keys of the first record. Lines end in CRLF and
// fields holding commas, quotes or line breaks are quoted with inner
// quotes doubled. A field starting with a space is quoted as well, and a
// bare LF inside a quoted field is written as CRLF. No records means no
// output at all.
func Encode(records []Record, columns ...string) (string, error) {
	if len(records) == 0 {
		return "", nil
	}
	if len(columns) == 0 {
		columns = keys(records[0])
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if err := w.Write(columns); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	row := make([]string, len(columns))
	for _, rec := range records {
		for i, col := range columns {
			row[i] = format(rec[col])
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.String(), nil
}

func keys(r Record) []string {
	out := make([]string, 0, len(r))
	for k := range r {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func format(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case *string:
		if val == nil {
			return ""
		}
		return *val
	case decimal.Decimal:
		return val.String()
	case time.Time:
		return val.Format(time.RFC3339)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
