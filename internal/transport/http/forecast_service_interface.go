package http

import (
	"context"
	"time"

	"github.com/shanawarAnsari/intelliplan-sub001/internal/runrate"
	"github.com/shanawarAnsari/intelliplan-sub001/internal/services"
)

// ForecastServiceInterface defines the interface for forecast operations
type ForecastServiceInterface interface {
	Compute(ctx context.Context, q services.ForecastQuery) (runrate.Snapshot, error)
	Export(ctx context.Context, q services.ForecastQuery) (services.ExportResult, error)
	ExportXLSX(ctx context.Context, q services.ForecastQuery) (services.ExportResult, error)
	Options(ctx context.Context, filters runrate.Filters) (runrate.FilterOptions, error)
	Columns() []runrate.ColumnSpec
	Calendar(at time.Time) runrate.CalendarCounts

	// Dataset management
	Reload(ctx context.Context) (services.DatasetStatus, error)
}

// HealthServiceInterface defines the interface for health endpoints
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
}
