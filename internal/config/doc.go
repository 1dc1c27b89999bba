// Package config loads and validates the forecast service configuration.
//
// # Configuration Sources
//
// Configuration is layered, later sources overriding earlier ones:
//
//  1. Default values
//  2. A YAML file (RUNRATE_CONFIG_FILE, or config.yaml / configs/config.yaml)
//  3. Environment variables
//
// # Environment Variables
//
// Variables use the RUNRATE prefix followed by the section and field:
//
//	RUNRATE_SERVER_PORT=8080
//	RUNRATE_LOGGING_LEVEL=debug
//	RUNRATE_DATASET_PATH=/srv/forecast/latest.xlsx
//	RUNRATE_DATASET_RELOAD_INTERVAL=5m
//	RUNRATE_FORECAST_DEFAULT_WINDOW=8weeks
//	RUNRATE_FORECAST_TIMEZONE=America/New_York
//
// # Path Management
//
// Relative directories resolve against paths.base_dir, or the executable
// directory when unset:
//
//	paths, err := cfg.ResolvePaths()
//	dataset := cfg.DatasetPath(paths)
//	report := paths.GetReportPath("run_rate_export_2024-06-15.csv")
//
// # Validation
//
// Load rejects out-of-range ports, non-positive timeouts, unknown log levels,
// unsupported dataset formats, invalid default windows or levels and
// unknown timezones.
package config
