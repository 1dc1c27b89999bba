// Package services implements the business logic layer of the run-rate
// forecast service. It sits between the HTTP handlers and the pure pipeline
// in internal/runrate.
//
// # Forecast Service
//
// ForecastService holds the dataset in memory and runs one pipeline pass
// per request:
//
//	source := dataset.NewFileSource(path, logger)
//	svc := services.NewForecastService(source,
//	    services.WithForecastDefaults(cfg.Forecast),
//	    services.WithMetrics(metrics),
//	    services.WithTracer(providers.Tracer),
//	)
//	if _, err := svc.Reload(ctx); err != nil {
//	    // serve anyway; readiness reports not_ready
//	}
//	snap, err := svc.Compute(ctx, services.ForecastQuery{Selection: sel})
//
// Passes read the dataset under a read lock and never modify it. Reload
// swaps the rows wholesale; concurrent reloads share a single load.
//
// # Health Service
//
// HealthService answers the health, readiness, liveness and version
// endpoints. Readiness requires a loaded dataset.
//
// # Testing
//
// Services are tested by mocking the dataset source:
//
//	source := new(mockSource)
//	source.On("Load", mock.Anything).Return(rows, nil)
//	svc := NewForecastService(source, WithServiceClock(testutil.FixedClock()))
package services
