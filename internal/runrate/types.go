package runrate

import (
	"time"
)

// ColumnID names a field of a row. The values double as the wire names used by
// the data source, the JSON snapshot and the export header lookup.
type ColumnID string

// Dimension columns
const (
	ColCountry      ColumnID = "COUNTRY"
	ColBusinessUnit ColumnID = "BUSINESS_UNIT"
	ColCategory     ColumnID = "CATEGORY"
	ColSubCategory  ColumnID = "SUB_CATEGORY"
)

// Source numeric columns
const (
	ColTotalForecast      ColumnID = "TOTAL_FORECAST_GROSS_SALES_CURRENT_MONTH"
	ColAvg13WeeksWeekdays ColumnID = "AVG_ACTUAL_SHIPMENTS_13WEEKS_WEEKDAYS"
	ColAvg13WeeksWeekends ColumnID = "AVG_ACTUAL_SHIPMENTS_13WEEKS_WEEKENDS"
	ColAvg8WeeksWeekdays  ColumnID = "AVG_ACTUAL_SHIPMENTS_8WEEKS_WEEKDAYS"
	ColAvg8WeeksWeekends  ColumnID = "AVG_ACTUAL_SHIPMENTS_8WEEKS_WEEKENDS"
	ColActualTillDate     ColumnID = "TOTAL_ACTUAL_SHIPMENTS_CURRENT_MONTH"
)

// Derived numeric columns
const (
	ColShipmentsRemainingDays ColumnID = "SHIPMENTS_REMAINING_DAYS"
	ColActualPlusRemaining    ColumnID = "ACTUAL_SHIPMENTS_TILL_DATE_PLUS_REMAINING"
	ColRunRateForecast        ColumnID = "RUN_RATE_FORECAST"
	ColRunRateVsForecast      ColumnID = "RUN_RATE_VS_FORECAST_MO"
	ColLowSideGS              ColumnID = "LOW_SIDE_GS"
	ColHighSideGS             ColumnID = "HIGH_SIDE_GS"
	ColMemberCount            ColumnID = "MEMBER_COUNT"
)

// User input columns
const (
	ColLowSidePercent  ColumnID = "LOW_SIDE_PERCENT"
	ColHighSidePercent ColumnID = "HIGH_SIDE_PERCENT"
)

// Placeholder labels for dimensions collapsed by aggregation.
const (
	AllCountries     = "All Countries"
	AllBusinessUnits = "All Business Units"
	AllCategories    = "All Categories"
	AllSubCategories = "All Sub Categories"
)

// RawRow is a record as delivered by the data source. Numeric fields may be
// strings, numbers, nil or missing altogether.
type RawRow map[string]any

// Dimension returns the string value of a dimension field, or "" when absent.
func (r RawRow) Dimension(col ColumnID) string {
	return toText(r[string(col)])
}

// Number returns a numeric field using the zero-fallback parsing rule.
func (r RawRow) Number(col ColumnID) float64 {
	return ParseNumeric(r[string(col)])
}

// Row is a computed row of a snapshot. Aggregated rows share the shape; their
// collapsed dimensions hold placeholder labels and MemberCount is set.
type Row struct {
	Country      string `json:"COUNTRY"`
	BusinessUnit string `json:"BUSINESS_UNIT"`
	Category     string `json:"CATEGORY"`
	SubCategory  string `json:"SUB_CATEGORY"`

	TotalForecast      float64 `json:"TOTAL_FORECAST_GROSS_SALES_CURRENT_MONTH"`
	Avg13WeeksWeekdays float64 `json:"AVG_ACTUAL_SHIPMENTS_13WEEKS_WEEKDAYS"`
	Avg13WeeksWeekends float64 `json:"AVG_ACTUAL_SHIPMENTS_13WEEKS_WEEKENDS"`
	Avg8WeeksWeekdays  float64 `json:"AVG_ACTUAL_SHIPMENTS_8WEEKS_WEEKDAYS"`
	Avg8WeeksWeekends  float64 `json:"AVG_ACTUAL_SHIPMENTS_8WEEKS_WEEKENDS"`
	ActualTillDate     float64 `json:"TOTAL_ACTUAL_SHIPMENTS_CURRENT_MONTH"`

	ShipmentsRemainingDays float64  `json:"SHIPMENTS_REMAINING_DAYS"`
	ActualPlusRemaining    float64  `json:"ACTUAL_SHIPMENTS_TILL_DATE_PLUS_REMAINING"`
	RunRateForecast        float64  `json:"RUN_RATE_FORECAST"`
	RunRateVsForecastPct   float64  `json:"RUN_RATE_VS_FORECAST_MO"`
	LowSideGS              *float64 `json:"LOW_SIDE_GS"`
	HighSideGS             *float64 `json:"HIGH_SIDE_GS"`

	MemberCount int `json:"MEMBER_COUNT,omitempty"`
}

// Value returns the field addressed by a column id. Unset what-if fields and
// unknown columns return nil; ok reports whether the column exists on Row.
func (r Row) Value(col ColumnID) (v any, ok bool) {
	switch col {
	case ColCountry:
		return r.Country, true
	case ColBusinessUnit:
		return r.BusinessUnit, true
	case ColCategory:
		return r.Category, true
	case ColSubCategory:
		return r.SubCategory, true
	case ColTotalForecast:
		return r.TotalForecast, true
	case ColAvg13WeeksWeekdays:
		return r.Avg13WeeksWeekdays, true
	case ColAvg13WeeksWeekends:
		return r.Avg13WeeksWeekends, true
	case ColAvg8WeeksWeekdays:
		return r.Avg8WeeksWeekdays, true
	case ColAvg8WeeksWeekends:
		return r.Avg8WeeksWeekends, true
	case ColActualTillDate:
		return r.ActualTillDate, true
	case ColShipmentsRemainingDays:
		return r.ShipmentsRemainingDays, true
	case ColActualPlusRemaining:
		return r.ActualPlusRemaining, true
	case ColRunRateForecast:
		return r.RunRateForecast, true
	case ColRunRateVsForecast:
		return r.RunRateVsForecastPct, true
	case ColLowSideGS:
		if r.LowSideGS == nil {
			return nil, true
		}
		return *r.LowSideGS, true
	case ColHighSideGS:
		if r.HighSideGS == nil {
			return nil, true
		}
		return *r.HighSideGS, true
	case ColMemberCount:
		return r.MemberCount, true
	default:
		return nil, false
	}
}

// RateWindow selects the historical lookback used as the run rate.
type RateWindow string

const (
	Window13Weeks RateWindow = "13weeks"
	Window8Weeks  RateWindow = "8weeks"
)

// Valid reports whether w is a known window.
func (w RateWindow) Valid() bool {
	return w == Window13Weeks || w == Window8Weeks
}

// Level is the organizational granularity rows are grouped at.
type Level string

const (
	LevelSubCategory  Level = "SUB_CATEGORY"
	LevelBusinessUnit Level = "BUSINESS_UNIT"
	LevelCategory     Level = "CATEGORY"
)

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	switch l {
	case LevelSubCategory, LevelBusinessUnit, LevelCategory:
		return true
	}
	return false
}

// orDefault maps unknown or empty levels to the identity level.
func (l Level) orDefault() Level {
	if l.Valid() {
		return l
	}
	return LevelSubCategory
}

// CalendarCounts holds the number of days left in the month after today.
type CalendarCounts struct {
	RemainingWeekdays int `json:"remainingWeekdays"`
	RemainingWeekends int `json:"remainingWeekends"`
}

// Selection is the full UI-state input of one pass.
type Selection struct {
	Filters Filters    `json:"filters"`
	Window  RateWindow `json:"rateWindow"`
	Level   Level      `json:"level"`
}

// Snapshot is the immutable result of one pipeline pass.
type Snapshot struct {
	Rows          []Row          `json:"rows"`
	Totals        Row            `json:"totals"`
	Level         Level          `json:"level"`
	Window        RateWindow     `json:"rateWindow"`
	Calendar      CalendarCounts `json:"calendar"`
	SourceCount   int            `json:"sourceCount"`
	FilteredCount int            `json:"filteredCount"`
	ComputedAt    time.Time      `json:"computedAt"`
}
