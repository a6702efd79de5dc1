package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Zuo-Peng/fb-quantifier/internal/activity"
	"github.com/Zuo-Peng/fb-quantifier/internal/extract"
	"github.com/Zuo-Peng/fb-quantifier/internal/tally"
)

// FileName is the CSV name for a user's table. The user part is the name
// as message attribution compares it: no whitespace, lower case.
func FileName(user string) string {
	return "facebook_data_" + extract.NormalizeName(user) + ".csv"
}

// Header returns the CSV header for kinds: date, then one label per kind.
func Header(kinds []activity.Kind) []string {
	header := []string{"date"}
	for _, k := range kinds {
		header = append(header, k.Label())
	}
	return header
}

// Record renders one table row as CSV fields matching Header(kinds).
// Kinds with no events that day produce an empty field.
func Record(row tally.Row, kinds []activity.Kind) []string {
	rec := make([]string, 0, len(kinds)+1)
	rec = append(rec, row.Day.String())
	for _, k := range kinds {
		if n := row.Counts[k]; n > 0 {
			rec = append(rec, strconv.Itoa(n))
		} else {
			rec = append(rec, "")
		}
	}
	return rec
}

// WriteCSV writes t as one row per date in ascending order.
func WriteCSV(w io.Writer, t *tally.Table) error {
	cw := csv.NewWriter(w)
	kinds := t.Kinds()
	if err := cw.Write(Header(kinds)); err != nil {
		return err
	}
	for _, row := range t.Rows() {
		if err := cw.Write(Record(row, kinds)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes t to dir/FileName(user) and returns the path.
func WriteFile(dir, user string, t *tally.Table) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, FileName(user))
	return path, WriteTo(path, t)
}

// WriteTo writes t to path, replacing any existing file.
func WriteTo(path string, t *tally.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, t); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
