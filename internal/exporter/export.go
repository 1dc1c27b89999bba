package exporter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shanawarAnsari/intelliplan-sub001/internal/runrate"
)

// Export failures surfaced to users.
var (
	ErrNoData    = errors.New("no data to export")
	ErrNoColumns = errors.New("cannot determine visible columns")
)

// FilenamePrefix is the common stem of export file names.
const FilenamePrefix = "run_rate_export_"

// Filename returns run_rate_export_<YYYY-MM-DD>.csv for the date of now.
func Filename(now time.Time) string {
	return FilenamePrefix + now.Format("2006-01-02") + ".csv"
}

// XLSXFilename returns the workbook counterpart of Filename.
func XLSXFilename(now time.Time) string {
	return FilenamePrefix + now.Format("2006-01-02") + ".xlsx"
}

// Cell is one resolved export value. Num is set when the value is a bare
// number that was not passed through a formatter.
type Cell struct {
	Text string
	Num  *float64
}

// Table is the resolved grid shared by the CSV and XLSX writers.
type Table struct {
	Header []string
	Rows   [][]Cell
}

// Records returns the table body as plain strings.
func (t Table) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make([]string, len(row))
		for j, c := range row {
			rec[j] = c.Text
		}
		out[i] = rec
	}
	return out
}

// BuildTable resolves every visible cell of a snapshot. User input columns
// take the value typed at that display index, or "" when none was typed or
// the inputs belong to another aggregation level. Formatted values have
// currency and percent punctuation stripped.
func BuildTable(cols []runrate.ColumnSpec, snap runrate.Snapshot, inputs runrate.UserInputs) (Table, error) {
	if len(snap.Rows) == 0 {
		return Table{}, ErrNoData
	}
	if len(cols) == 0 {
		return Table{}, ErrNoColumns
	}

	scoped := inputs
	if !inputs.AppliesTo(snap.Level) {
		scoped = runrate.NewUserInputs(snap.Level)
	}

	t := Table{
		Header: make([]string, len(cols)),
		Rows:   make([][]Cell, len(snap.Rows)),
	}
	for i, c := range cols {
		t.Header[i] = c.Label
	}
	for i, row := range snap.Rows {
		cells := make([]Cell, len(cols))
		for j, c := range cols {
			cells[j] = resolveCell(c, i, row, scoped)
		}
		t.Rows[i] = cells
	}
	return t, nil
}

func resolveCell(c runrate.ColumnSpec, index int, row runrate.Row, inputs runrate.UserInputs) Cell {
	if c.IsUserInput {
		v, _ := inputs.Get(index, c.ID)
		return Cell{Text: v}
	}
	if c.Placeholder {
		return Cell{}
	}

	v, _ := row.Value(c.ID)
	if c.Formatted() {
		return Cell{Text: stripPunctuation(c.Format(v))}
	}
	switch n := v.(type) {
	case nil:
		return Cell{}
	case float64:
		return Cell{Text: strconv.FormatFloat(n, 'f', -1, 64), Num: &n}
	case int:
		f := float64(n)
		return Cell{Text: strconv.Itoa(n), Num: &f}
	case string:
		return Cell{Text: n}
	default:
		return Cell{Text: fmt.Sprint(n)}
	}
}

var punctuation = strings.NewReplacer("$", "", ",", "", "%", "")

func stripPunctuation(s string) string {
	return punctuation.Replace(s)
}

// BuildCSV serializes the visible columns of a snapshot. Lines are separated
// by "\n" with no trailing newline.
func BuildCSV(cols []runrate.ColumnSpec, snap runrate.Snapshot, inputs runrate.UserInputs) ([]byte, error) {
	t, err := BuildTable(cols, snap, inputs)
	if err != nil {
		return nil, err
	}
	return EncodeCSV(t.Header, t.Records()), nil
}

// EncodeCSV joins header and records into delimited text.
func EncodeCSV(header []string, records [][]string) []byte {
	var b strings.Builder
	writeLine(&b, header)
	for _, rec := range records {
		b.WriteByte('\n')
		writeLine(&b, rec)
	}
	return []byte(b.String())
}

func writeLine(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(EscapeField(f))
	}
}

// EscapeField wraps s in double quotes when it contains a comma, a double
// quote or a line break, doubling any embedded quotes.
func EscapeField(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
