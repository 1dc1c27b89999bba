package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/shanawarAnsari/intelliplan-sub001/internal/errors"
	"github.com/shanawarAnsari/intelliplan-sub001/internal/runrate"
)

// Format identifies a dataset file encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// ctxCheckEvery is how many records are read between context checks.
const ctxCheckEvery = 1000

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	format Format
	sheet  string
}

// WithFormat forces a format instead of detecting it from the extension.
// An empty format keeps detection.
func WithFormat(f Format) Option {
	return func(o *loadOptions) {
		if f != "" {
			o.format = f
		}
	}
}

// WithSheet selects the worksheet read from xlsx files.
func WithSheet(name string) Option {
	return func(o *loadOptions) {
		o.sheet = name
	}
}

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported dataset extension %q", filepath.Ext(path))
	}
}

// Load reads the dataset at path. Cell values are kept as the raw strings or
// numbers found in the file; numeric coercion happens in the pipeline.
// Open failures are storage errors, malformed content is a parsing error.
func Load(ctx context.Context, path string, opts ...Option) ([]runrate.RawRow, error) {
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format := o.format
	if format == "" {
		detected, err := DetectFormat(path)
		if err != nil {
			return nil, apperrors.NewAppValidationError(err.Error())
		}
		format = detected
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open dataset", err).WithContext("path", path)
	}
	defer f.Close()

	var rows []runrate.RawRow
	switch format {
	case FormatCSV:
		rows, err = ReadCSV(ctx, f)
	case FormatXLSX:
		rows, err = ReadXLSX(ctx, f, o.sheet)
	case FormatJSON:
		rows, err = ReadJSON(f)
	default:
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("unsupported dataset format %q", format))
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperrors.NewParsingError("failed to parse dataset", err).
			WithContext("path", path).
			WithContext("format", string(format))
	}
	return rows, nil
}

// ReadCSV reads a CSV document whose first record names the fields. A
// leading UTF-8 BOM is skipped and short records are allowed.
func ReadCSV(ctx context.Context, r io.Reader) ([]runrate.RawRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return []runrate.RawRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
		if len(records)%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}

	return fromRecords(header, records), nil
}

// ReadXLSX reads a workbook sheet whose first row names the fields. An empty
// sheet name selects the first sheet. Raw cell values are used so number
// formats applied in the workbook do not leak into the data.
func ReadXLSX(ctx context.Context, r io.Reader, sheet string) ([]runrate.RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []runrate.RawRow{}, nil
	}

	return fromRecords(rows[0], rows[1:]), nil
}

// ReadJSON reads an array of objects. Keys are folded like CSV headers and
// numbers are kept as json.Number.
func ReadJSON(r io.Reader) ([]runrate.RawRow, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var objects []map[string]any
	if err := dec.Decode(&objects); err != nil {
		return nil, fmt.Errorf("expected an array of objects: %w", err)
	}

	rows := make([]runrate.RawRow, 0, len(objects))
	for _, obj := range objects {
		if obj == nil {
			continue
		}
		row := make(runrate.RawRow, len(obj))
		for k, v := range obj {
			name := canonicalName(k)
			if _, dup := row[name]; dup && name != k {
				continue
			}
			row[name] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// sourceColumns are the fields the pipeline reads from a raw row.
var sourceColumns = []runrate.ColumnID{
	runrate.ColCountry,
	runrate.ColBusinessUnit,
	runrate.ColCategory,
	runrate.ColSubCategory,
	runrate.ColTotalForecast,
	runrate.ColAvg13WeeksWeekdays,
	runrate.ColAvg13WeeksWeekends,
	runrate.ColAvg8WeeksWeekdays,
	runrate.ColAvg8WeeksWeekends,
	runrate.ColActualTillDate,
}

// canonicalName trims a header and folds it onto a known column id ignoring
// case. Unknown headers are kept as trimmed.
func canonicalName(header string) string {
	name := strings.TrimSpace(header)
	for _, col := range sourceColumns {
		if strings.EqualFold(name, string(col)) {
			return string(col)
		}
	}
	return name
}

// fromRecords keys each record by the canonical header names. Blank header
// cells and fully blank records are skipped.
func fromRecords(header []string, records [][]string) []runrate.RawRow {
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = canonicalName(h)
	}

	rows := make([]runrate.RawRow, 0, len(records))
	for _, record := range records {
		if isBlank(record) {
			continue
		}
		row := make(runrate.RawRow, len(names))
		for i, name := range names {
			if name == "" || i >= len(record) {
				continue
			}
			if _, dup := row[name]; dup {
				continue
			}
			row[name] = record[i]
		}
		rows = append(rows, row)
	}
	return rows
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
