package runrate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func derivedRow(country, unit, category, sub string, forecast, runRate float64) Row {
	return Row{
		Country:                country,
		BusinessUnit:           unit,
		Category:               category,
		SubCategory:            sub,
		TotalForecast:          forecast,
		ActualPlusRemaining:    runRate,
		RunRateForecast:        runRate,
		RunRateVsForecastPct:   ratioPct(runRate, forecast),
		ShipmentsRemainingDays: runRate / 2,
		ActualTillDate:         runRate / 2,
	}
}

func TestAggregateRatioFromSums(t *testing.T) {
	rows := []Row{
		derivedRow("US", "BU1", "C1", "S1", 100, 50),
		derivedRow("US", "BU1", "C1", "S2", 200, 300),
	}

	got := Aggregate(rows, LevelCategory)
	require.Len(t, got, 1)

	g := got[0]
	assert.InDelta(t, 116.67, g.RunRateVsForecastPct, 0.01)
	assert.InDelta(t, 350.0/300.0*100, g.RunRateVsForecastPct, 1e-9)
	assert.NotEqual(t, (50.0+150.0)/2, g.RunRateVsForecastPct)
	assert.Equal(t, 300.0, g.TotalForecast)
	assert.Equal(t, 350.0, g.RunRateForecast)
	assert.Equal(t, 350.0, g.ActualPlusRemaining)
	assert.Equal(t, 175.0, g.ShipmentsRemainingDays)
	assert.Equal(t, 175.0, g.ActualTillDate)
	assert.Equal(t, 2, g.MemberCount)
}

func TestAggregateLevels(t *testing.T) {
	rows := []Row{
		derivedRow("US", "BU1", "C1", "S1", 100, 100),
		derivedRow("US", "BU2", "C3", "S4", 10, 10),
		derivedRow("US", "BU1", "C2", "S2", 100, 100),
		derivedRow("CA", "BU1", "C1", "S1", 50, 25),
		derivedRow("US", "BU1", "C1", "S3", 100, 100),
	}

	t.Run("business unit", func(t *testing.T) {
		got := Aggregate(rows, LevelBusinessUnit)
		require.Len(t, got, 3)

		type key struct{ country, unit, category, sub string }
		var keys []key
		for _, r := range got {
			keys = append(keys, key{r.Country, r.BusinessUnit, r.Category, r.SubCategory})
		}
		want := []key{
			{"US", "BU1", AllCategories, AllSubCategories},
			{"US", "BU2", AllCategories, AllSubCategories},
			{"CA", "BU1", AllCategories, AllSubCategories},
		}
		if diff := cmp.Diff(want, keys, cmp.AllowUnexported(key{})); diff != "" {
			t.Errorf("group order mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, 3, got[0].MemberCount)
		assert.Equal(t, 300.0, got[0].TotalForecast)
		assert.Equal(t, 50.0, got[2].RunRateVsForecastPct)
	})

	t.Run("category", func(t *testing.T) {
		got := Aggregate(rows, LevelCategory)
		require.Len(t, got, 4)
		assert.Equal(t, "C1", got[0].Category)
		assert.Equal(t, AllSubCategories, got[0].SubCategory)
		assert.Equal(t, 2, got[0].MemberCount)
		assert.Equal(t, "C3", got[1].Category)
		assert.Equal(t, "C2", got[2].Category)
		assert.Equal(t, "CA", got[3].Country)
	})

	t.Run("sub category is identity", func(t *testing.T) {
		got := Aggregate(rows, LevelSubCategory)
		if diff := cmp.Diff(rows, got); diff != "" {
			t.Errorf("identity mismatch (-want +got):\n%s", diff)
		}
		got[0].Country = "changed"
		assert.Equal(t, "US", rows[0].Country)
	})

	t.Run("unknown level is identity", func(t *testing.T) {
		assert.Equal(t, rows, Aggregate(rows, Level("REGION")))
	})
}

func TestAggregateKeysDoNotCollide(t *testing.T) {
	rows := []Row{
		derivedRow("AB", "C", "X", "S1", 10, 10),
		derivedRow("A", "BC", "X", "S2", 10, 10),
	}
	assert.Len(t, Aggregate(rows, LevelBusinessUnit), 2)
}

func TestAggregateRatesAreAveraged(t *testing.T) {
	rows := []Row{
		{Country: "US", BusinessUnit: "BU1", Avg13WeeksWeekdays: 10, Avg13WeeksWeekends: 4, Avg8WeeksWeekdays: 1, Avg8WeeksWeekends: 0},
		{Country: "US", BusinessUnit: "BU1", Avg13WeeksWeekdays: 20, Avg13WeeksWeekends: 2, Avg8WeeksWeekdays: 3, Avg8WeeksWeekends: 5},
	}
	g := Aggregate(rows, LevelBusinessUnit)[0]

	assert.Equal(t, 15.0, g.Avg13WeeksWeekdays)
	assert.Equal(t, 3.0, g.Avg13WeeksWeekends)
	assert.Equal(t, 2.0, g.Avg8WeeksWeekdays)
	assert.Equal(t, 2.5, g.Avg8WeeksWeekends)
}

func TestAggregateWhatIfSums(t *testing.T) {
	t.Run("unset members stay unset", func(t *testing.T) {
		rows := []Row{derivedRow("US", "BU1", "C1", "S1", 1, 1), derivedRow("US", "BU1", "C1", "S2", 1, 1)}
		g := Aggregate(rows, LevelCategory)[0]
		assert.Nil(t, g.LowSideGS)
		assert.Nil(t, g.HighSideGS)
	})

	t.Run("set members are summed", func(t *testing.T) {
		a := derivedRow("US", "BU1", "C1", "S1", 1, 1)
		a.LowSideGS = ptr(-100)
		b := derivedRow("US", "BU1", "C1", "S2", 1, 1)
		b.LowSideGS = ptr(-50)
		b.HighSideGS = ptr(20)

		g := Aggregate([]Row{a, b}, LevelCategory)[0]
		require.NotNil(t, g.LowSideGS)
		require.NotNil(t, g.HighSideGS)
		assert.Equal(t, -150.0, *g.LowSideGS)
		assert.Equal(t, 20.0, *g.HighSideGS)
	})
}

func TestAggregateEmpty(t *testing.T) {
	assert.Empty(t, Aggregate(nil, LevelCategory))
	assert.Empty(t, Aggregate([]Row{}, LevelBusinessUnit))
}

func TestTotals(t *testing.T) {
	rows := []Row{
		derivedRow("US", "BU1", "C1", "S1", 100, 50),
		derivedRow("CA", "BU2", "C2", "S2", 200, 300),
	}
	rows[0].LowSideGS = ptr(-10)
	rows[1].LowSideGS = ptr(0)

	tot := Totals(rows)
	assert.Equal(t, AllCountries, tot.Country)
	assert.Equal(t, AllBusinessUnits, tot.BusinessUnit)
	assert.Equal(t, AllCategories, tot.Category)
	assert.Equal(t, AllSubCategories, tot.SubCategory)
	assert.Equal(t, 300.0, tot.TotalForecast)
	assert.InDelta(t, 116.67, tot.RunRateVsForecastPct, 0.01)
	require.NotNil(t, tot.LowSideGS)
	assert.Equal(t, -10.0, *tot.LowSideGS)
	assert.Nil(t, tot.HighSideGS)
	assert.Equal(t, 2, tot.MemberCount)

	empty := Totals(nil)
	assert.Equal(t, AllCountries, empty.Country)
	assert.Zero(t, empty.TotalForecast)
	assert.Zero(t, empty.MemberCount)
}

func TestTotalsSameAtEveryLevel(t *testing.T) {
	rate := func(r Row, v float64) Row {
		r.Avg13WeeksWeekdays = v
		r.Avg13WeeksWeekends = v / 2
		r.Avg8WeeksWeekdays = v * 2
		r.Avg8WeeksWeekends = v
		return r
	}
	rows := []Row{
		rate(derivedRow("US", "BU1", "C1", "S1", 100, 50), 10),
		rate(derivedRow("US", "BU1", "C1", "S2", 100, 50), 10),
		rate(derivedRow("US", "BU1", "C1", "S3", 100, 50), 10),
		rate(derivedRow("US", "BU1", "C2", "S4", 100, 50), 40),
	}

	base := Totals(Aggregate(rows, LevelSubCategory))
	assert.InDelta(t, 17.5, base.Avg13WeeksWeekdays, 1e-9)
	assert.Equal(t, 4, base.MemberCount)

	for _, level := range []Level{LevelBusinessUnit, LevelCategory} {
		t.Run(string(level), func(t *testing.T) {
			got := Totals(Aggregate(rows, level))
			if diff := cmp.Diff(base, got); diff != "" {
				t.Errorf("totals differ from sub category totals (-want +got):\n%s", diff)
			}
		})
	}
}
