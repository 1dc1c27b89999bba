package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shanawarAnsari/intelliplan-sub001/internal/config"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter saves export payloads under the configured reports directory.
type CSVWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewCSVWriter creates a new export file writer
func NewCSVWriter(paths *config.Paths, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{
		paths:  paths,
		logger: logger.With(slog.String("component", "exporter")),
	}
}

// WriteOptions configures file writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteFile writes content to name and returns the full path written. Relative
// names are placed in the reports directory.
func (w *CSVWriter) WriteFile(name string, content []byte, options WriteOptions) (string, error) {
	fullPath := w.resolvePath(name)

	w.logger.Info("Writing export file",
		slog.String("file_name", name),
		slog.String("full_path", fullPath),
		slog.Int("bytes", len(content)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write(utf8BOM); err != nil {
			return "", fmt.Errorf("failed to write BOM: %w", err)
		}
	}
	if _, err := file.Write(content); err != nil {
		return "", fmt.Errorf("failed to write content: %w", err)
	}
	return fullPath, file.Close()
}

// resolvePath resolves a path to the reports directory
func (w *CSVWriter) resolvePath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return w.paths.GetReportPath(name)
}
