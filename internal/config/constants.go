package config

import "time"

// Application constants
const (
	// Application Info
	AppName   = "runrate-forecast"
	EnvPrefix = "RUNRATE"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Timeouts
	DefaultRequestTimeout = 30 * time.Second
	DatasetLoadTimeout    = 2 * time.Minute

	// File Paths (relative to the base directory)
	DefaultDataDir     = "data"
	DefaultReportsDir  = "data/reports"
	DefaultLogsDir     = "logs"
	DefaultLogFile     = "logs/app.log"
	DefaultDatasetFile = "forecast.csv"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// API Endpoints
	ForecastBasePath = "/api/forecast"
	HealthBasePath   = "/api/health"
	VersionEndpoint  = "/api/version"
	MetricsEndpoint  = "/metrics"
)
