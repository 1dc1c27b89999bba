// Package http implements the HTTP request handlers for the run rate forecast
// service. Handlers stay thin: they decode and validate the wire contracts in
// pkg/contracts/api/v1, convert them to runrate types, call the service layer
// and render the result.
//
// # Routes
//
// ForecastHandler.Routes is mounted under /api/forecast:
//
//	POST /compute         run one pass and return the snapshot
//	POST /export          the selected rows as CSV
//	POST /export.xlsx     the selected rows as an XLSX workbook
//	POST /options         cascading filter options
//	GET  /columns         the column catalog
//	GET  /calendar        remaining weekdays and weekend days, ?date=YYYY-MM-DD
//	POST /dataset/reload  re-read the dataset file
//
// HealthHandler.Routes is mounted under /api/health and serves "/", "/ready"
// and "/live". Version is registered separately at /api/version.
//
// # Error Handling
//
// Every failure is rendered as RFC 7807 Problem Details by
// errors.ErrorHandler. Service sentinels are mapped onto API errors first:
//
//	services.ErrDatasetNotLoaded   503 /errors/dataset/unavailable
//	exporter.ErrNoData             422 /errors/export/no-data
//	exporter.ErrNoColumns          422 /errors/export/columns-unresolved
//	runrate.UnknownColumnError     400 /errors/validation
//
// # Testing
//
// Handlers are tested with httptest against a chi router and testify mocks
// of the service interfaces.
package http
