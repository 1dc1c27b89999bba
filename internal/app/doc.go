// Package app wires the run rate forecast service together and manages its
// lifecycle.
//
// # Initialization Flow
//
//  1. Resolve and create the data, reports and logs directories
//  2. Initialize the slog logger and OpenTelemetry providers
//  3. Build the dataset source and the forecast and health services
//  4. Load the dataset once; a failure is logged, not fatal
//  5. Set up the chi router and the HTTP server
//
// # Middleware
//
// API routes run behind, in order: RequestID, RealIP, OTel, StructuredLogger,
// Recoverer, SecurityHeaders, RateLimiter and Timeout. Forecast routes add
// a JSON content type check followed by body validation. The Prometheus endpoint is
// registered outside the group.
//
// # Graceful Shutdown
//
// Serve runs the HTTP server and the dataset watcher in an errgroup. When the
// context is cancelled the server drains in-flight requests within
// ShutdownTimeout and telemetry is flushed. The package never calls
// os.Exit; errors are returned to main.
package app
