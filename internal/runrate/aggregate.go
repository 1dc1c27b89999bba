package runrate

// groupKey identifies an aggregation group. Dimensions collapsed at the
// current level stay empty.
type groupKey struct {
	country  string
	unit     string
	category string
}

func keyFor(r Row, level Level) groupKey {
	k := groupKey{country: r.Country, unit: r.BusinessUnit}
	if level == LevelCategory {
		k.category = r.Category
	}
	return k
}

// accumulator sums the members of one group. An aggregated row counts as
// MemberCount source rows so averages stay the same at every level.
type accumulator struct {
	row     Row
	members int
	low     *float64
	high    *float64
}

func (a *accumulator) add(r Row) {
	weight := max(r.MemberCount, 1)
	w := float64(weight)
	a.members += weight
	a.row.TotalForecast += r.TotalForecast
	a.row.ActualTillDate += r.ActualTillDate
	a.row.ShipmentsRemainingDays += r.ShipmentsRemainingDays
	a.row.ActualPlusRemaining += r.ActualPlusRemaining
	a.row.RunRateForecast += r.RunRateForecast
	a.row.Avg13WeeksWeekdays += r.Avg13WeeksWeekdays * w
	a.row.Avg13WeeksWeekends += r.Avg13WeeksWeekends * w
	a.row.Avg8WeeksWeekdays += r.Avg8WeeksWeekdays * w
	a.row.Avg8WeeksWeekends += r.Avg8WeeksWeekends * w
	a.low = addOptional(a.low, r.LowSideGS)
	a.high = addOptional(a.high, r.HighSideGS)
}

// result finalizes the group: rates become member averages and the forecast
// ratio is derived again from the summed fields.
func (a *accumulator) result() Row {
	r := a.row
	n := float64(a.members)
	r.Avg13WeeksWeekdays = finite(r.Avg13WeeksWeekdays / n)
	r.Avg13WeeksWeekends = finite(r.Avg13WeeksWeekends / n)
	r.Avg8WeeksWeekdays = finite(r.Avg8WeeksWeekdays / n)
	r.Avg8WeeksWeekends = finite(r.Avg8WeeksWeekends / n)
	r.RunRateVsForecastPct = ratioPct(r.ActualPlusRemaining, r.TotalForecast)
	r.LowSideGS = a.low
	r.HighSideGS = a.high
	r.MemberCount = a.members
	return r
}

// addOptional sums two optional values; the result is unset only when both
// inputs are unset.
func addOptional(sum, v *float64) *float64 {
	if v == nil {
		return sum
	}
	total := *v
	if sum != nil {
		total += *sum
	}
	return &total
}

// Aggregate groups rows at the given level. SUB_CATEGORY, and any unknown
// level, returns a copy of rows unchanged. BUSINESS_UNIT groups by country and
// business unit; CATEGORY groups by country, business unit and category.
// Groups appear in first-seen order.
func Aggregate(rows []Row, level Level) []Row {
	level = level.orDefault()
	if level == LevelSubCategory {
		out := make([]Row, len(rows))
		copy(out, rows)
		return out
	}

	index := make(map[groupKey]int)
	var groups []*accumulator
	for _, r := range rows {
		k := keyFor(r, level)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, &accumulator{row: placeholderRow(r, level)})
		}
		groups[i].add(r)
	}

	out := make([]Row, len(groups))
	for i, g := range groups {
		out[i] = g.result()
	}
	return out
}

// placeholderRow carries the grouping dimensions of r and fills the collapsed
// ones with their placeholder labels.
func placeholderRow(r Row, level Level) Row {
	g := Row{
		Country:      r.Country,
		BusinessUnit: r.BusinessUnit,
		Category:     r.Category,
		SubCategory:  AllSubCategories,
	}
	if level == LevelBusinessUnit {
		g.Category = AllCategories
	}
	return g
}

// Totals collapses every row into a single summary row. All dimensions carry
// placeholder labels. Aggregated rows are weighted by their member count, so
// the totals of one data set do not depend on the level.
func Totals(rows []Row) Row {
	acc := &accumulator{row: Row{
		Country:      AllCountries,
		BusinessUnit: AllBusinessUnits,
		Category:     AllCategories,
		SubCategory:  AllSubCategories,
	}}
	if len(rows) == 0 {
		return acc.row
	}
	for _, r := range rows {
		acc.add(r)
	}
	return acc.result()
}
