// Package runrate computes shipment run-rate forecasts.
//
// A pass takes raw source rows and a selection and produces an immutable
// Snapshot:
//
//	raw rows -> Filters.Apply -> Derive (uses Remaining) -> Aggregate -> Overlay -> Totals
//
// Every stage is a pure function over its inputs. Numeric source fields are
// parsed with ParseNumeric, so malformed values read as 0 and no stage
// produces NaN or infinite values. Ratios of aggregated rows are derived
// again from the summed fields rather than averaged across members.
//
// What-if inputs are keyed by display index and are bound to the aggregation
// level they were entered at; inputs from another level are ignored.
package runrate
