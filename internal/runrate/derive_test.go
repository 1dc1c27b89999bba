package runrate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive(t *testing.T) {
	cal := CalendarCounts{RemainingWeekdays: 10, RemainingWeekends: 5}
	raw := sourceRow("US", "BU1", "C1", "S1", map[ColumnID]any{
		ColTotalForecast:      "1000",
		ColAvg13WeeksWeekdays: "10",
		ColAvg13WeeksWeekends: "5",
		ColAvg8WeeksWeekdays:  20.0,
		ColAvg8WeeksWeekends:  "2",
		ColActualTillDate:     "500",
	})

	tests := []struct {
		name          string
		window        RateWindow
		wantRemaining float64
	}{
		{"13 weeks", Window13Weeks, 10*10 + 5*5},
		{"8 weeks", Window8Weeks, 10*20 + 5*2},
		{"unknown window uses 13 weeks", RateWindow("52weeks"), 10*10 + 5*5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := Derive([]RawRow{raw}, tt.window, cal)
			require.Len(t, rows, 1)
			r := rows[0]

			assert.Equal(t, tt.wantRemaining, r.ShipmentsRemainingDays)
			assert.Equal(t, 500+tt.wantRemaining, r.ActualPlusRemaining)
			assert.Equal(t, r.ActualPlusRemaining, r.RunRateForecast)
			assert.InDelta(t, (500+tt.wantRemaining)/1000*100, r.RunRateVsForecastPct, 1e-9)
			assert.Nil(t, r.LowSideGS)
			assert.Nil(t, r.HighSideGS)
			assert.Equal(t, "US", r.Country)
			assert.Equal(t, "S1", r.SubCategory)
		})
	}
}

func TestDeriveZeroForecast(t *testing.T) {
	cal := CalendarCounts{RemainingWeekdays: 3, RemainingWeekends: 2}

	tests := []struct {
		name     string
		forecast any
	}{
		{"zero", "0"},
		{"negative", "-50"},
		{"empty", ""},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := sourceRow("US", "BU1", "C1", "S1", map[ColumnID]any{
				ColTotalForecast:      tt.forecast,
				ColActualTillDate:     "750",
				ColAvg13WeeksWeekdays: "1",
			})
			r := Derive([]RawRow{raw}, Window13Weeks, cal)[0]

			assert.Equal(t, 0.0, r.RunRateVsForecastPct)
			assert.False(t, math.IsNaN(r.RunRateVsForecastPct))
			assert.Equal(t, 753.0, r.ActualPlusRemaining)
		})
	}
}

func TestDeriveMalformedNumerics(t *testing.T) {
	raw := sourceRow("US", "BU1", "C1", "S1", map[ColumnID]any{
		ColTotalForecast:      "n/a",
		ColAvg13WeeksWeekdays: "",
		ColAvg13WeeksWeekends: "--",
		ColActualTillDate:     math.Inf(1),
	})
	r := Derive([]RawRow{raw}, Window13Weeks, CalendarCounts{RemainingWeekdays: 5, RemainingWeekends: 2})[0]

	assert.Equal(t, Row{Country: "US", BusinessUnit: "BU1", Category: "C1", SubCategory: "S1"}, r)
}

func TestDeriveEmpty(t *testing.T) {
	assert.Empty(t, Derive(nil, Window13Weeks, CalendarCounts{}))
}
