// Package dataset reads forecast rows from CSV, XLSX or JSON files.
//
// The first CSV record or worksheet row names the fields; JSON files hold an
// array of objects. Values are passed through untouched so blanks and
// non-numeric cells reach the pipeline, which treats them as zero.
package dataset
