// Package exporter turns run-rate snapshots into downloadable files.
//
// BuildTable resolves the visible cells of a snapshot once; BuildCSV and
// ExportXLSX render that table as delimited text or as a workbook. CSVWriter
// saves either payload under the reports directory.
//
// Example usage:
//
//	cols, _ := runrate.ResolveColumns(ids)
//	data, err := exporter.BuildCSV(cols, snap, inputs)
//	if errors.Is(err, exporter.ErrNoData) {
//		// nothing on screen
//	}
//	path, err := exporter.NewCSVWriter(paths, logger).
//		WriteFile(exporter.Filename(time.Now()), data, exporter.WriteOptions{BOMPrefix: true})
package exporter
