package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved, absolute directories used by the service.
type Paths struct {
	BaseDir    string
	DataDir    string
	ReportsDir string
	LogsDir    string
}

// ExecutableDir returns the directory containing the running binary with
// symlinks resolved.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return filepath.Dir(exe), nil
}

// ResolvePaths turns the configured directories into absolute paths.
func (c *Config) ResolvePaths() (*Paths, error) {
	base := c.Paths.BaseDir
	if base == "" {
		dir, err := ExecutableDir()
		if err != nil {
			return nil, err
		}
		base = dir
	}

	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base dir: %w", err)
	}

	return &Paths{
		BaseDir:    base,
		DataDir:    resolveAgainst(base, c.Paths.DataDir),
		ReportsDir: resolveAgainst(base, c.Paths.ReportsDir),
		LogsDir:    resolveAgainst(base, c.Paths.LogsDir),
	}, nil
}

func resolveAgainst(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetDataPath returns the path for a file in the data directory. Absolute
// names are returned unchanged.
func (p *Paths) GetDataPath(filename string) string {
	return resolveAgainst(p.DataDir, filename)
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the path for a log file. Absolute names are returned
// unchanged; relative ones are resolved against the base directory.
func (p *Paths) GetLogPath(filename string) string {
	return resolveAgainst(p.BaseDir, filename)
}

// DatasetPath resolves the configured dataset file.
func (c *Config) DatasetPath(p *Paths) string {
	return p.GetDataPath(c.Dataset.Path)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogValue groups the directories for structured logging.
func (p *Paths) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("base", p.BaseDir),
		slog.String("data", p.DataDir),
		slog.String("reports", p.ReportsDir),
		slog.String("logs", p.LogsDir),
	)
}
