package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shanawarAnsari/intelliplan-sub001/internal/runrate"
)

// FixtureNow is the reference time used by forecast fixtures: Saturday
// 2024-06-15, leaving 10 weekdays and 5 weekend days in June.
var FixtureNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

// FixedClock returns a clock pinned to FixtureNow.
func FixedClock() func() time.Time {
	return func() time.Time { return FixtureNow }
}

// ForecastRows returns a small dataset covering two countries, two business
// units and a row with blank numerics.
func ForecastRows() []runrate.RawRow {
	return []runrate.RawRow{
		fixtureRow("US", "Beverages", "Soda", "Cola", "1000", "10", "5", "12", "4", "500"),
		fixtureRow("US", "Beverages", "Soda", "Lemon", "200", "2", "1", "3", "1", "150"),
		fixtureRow("US", "Snacks", "Chips", "Salted", "800", "20", "10", "18", "9", "300"),
		fixtureRow("CA", "Beverages", "Juice", "Apple", "400", "4", "2", "5", "2", "100"),
		fixtureRow("CA", "Snacks", "Chips", "BBQ", "", "", "", "", "", ""),
	}
}

func fixtureRow(country, unit, category, sub, forecast, wd13, we13, wd8, we8, actual string) runrate.RawRow {
	return runrate.RawRow{
		string(runrate.ColCountry):            country,
		string(runrate.ColBusinessUnit):       unit,
		string(runrate.ColCategory):           category,
		string(runrate.ColSubCategory):        sub,
		string(runrate.ColTotalForecast):      forecast,
		string(runrate.ColAvg13WeeksWeekdays): wd13,
		string(runrate.ColAvg13WeeksWeekends): we13,
		string(runrate.ColAvg8WeeksWeekdays):  wd8,
		string(runrate.ColAvg8WeeksWeekends):  we8,
		string(runrate.ColActualTillDate):     actual,
	}
}

// ForecastCSV renders ForecastRows as a CSV document with a header row.
func ForecastCSV() string {
	cols := []runrate.ColumnID{
		runrate.ColCountry, runrate.ColBusinessUnit, runrate.ColCategory, runrate.ColSubCategory,
		runrate.ColTotalForecast, runrate.ColAvg13WeeksWeekdays, runrate.ColAvg13WeeksWeekends,
		runrate.ColAvg8WeeksWeekdays, runrate.ColAvg8WeeksWeekends, runrate.ColActualTillDate,
	}

	var b strings.Builder
	for i, c := range cols {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(string(c))
	}
	for _, row := range ForecastRows() {
		b.WriteByte('\n')
		for i, c := range cols {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(row.Dimension(c))
		}
	}
	b.WriteByte('\n')
	return b.String()
}

// WriteFixtureFile writes content under a fresh temp dir and returns its path.
func WriteFixtureFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}
