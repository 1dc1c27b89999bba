package runrate

import (
	"testing"
	"time"
)

// sourceRow builds a raw row with the four dimensions set.
func sourceRow(country, unit, category, sub string, numbers map[ColumnID]any) RawRow {
	r := RawRow{
		string(ColCountry):      country,
		string(ColBusinessUnit): unit,
		string(ColCategory):     category,
		string(ColSubCategory):  sub,
	}
	for k, v := range numbers {
		r[string(k)] = v
	}
	return r
}

// fixedClock returns a clock pinned to 2024-06-15, a Saturday with 10
// weekdays and 5 weekend days left in the month.
func fixedClock(t *testing.T) func() time.Time {
	t.Helper()
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func ptr(f float64) *float64 { return &f }

func sampleRows() []RawRow {
	return []RawRow{
		sourceRow("US", "Beverages", "Soda", "Cola", map[ColumnID]any{ColTotalForecast: "100"}),
		sourceRow("US", "Beverages", "Soda", "Lemon", map[ColumnID]any{ColTotalForecast: "200"}),
		sourceRow("US", "Snacks", "Chips", "Salted", map[ColumnID]any{ColTotalForecast: "300"}),
		sourceRow("CA", "Beverages", "Juice", "Apple", map[ColumnID]any{ColTotalForecast: "400"}),
		sourceRow("CA", "Snacks", "Chips", "BBQ", map[ColumnID]any{ColTotalForecast: "500"}),
		sourceRow("MX", "Beverages", "Soda", "Cola", map[ColumnID]any{ColTotalForecast: ""}),
	}
}

func subCategories(rows []RawRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Dimension(ColCountry) + "/" + r.Dimension(ColSubCategory)
	}
	return out
}
