// Package shared holds helpers used across the forecast service packages.
//
// The testutil subpackage provides:
//
//   - a buffered slog handler with assertions over captured records
//   - forecast dataset fixtures (raw rows, CSV text, a fixed clock)
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//		logger, logs := testutil.NewTestLogger(t)
//		svc := services.NewForecastService(source,
//			services.WithForecastLogger(logger),
//			services.WithServiceClock(testutil.FixedClock()))
//		// ...
//		testutil.AssertNoErrors(t, logs)
//	}
//
// Nothing here may import the service or transport layers.
package shared
