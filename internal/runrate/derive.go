package runrate

// rates returns the weekday and weekend shipment rates for a window. Unknown
// windows use the 13 week averages.
func (r Row) rates(w RateWindow) (weekday, weekend float64) {
	if w == Window8Weeks {
		return r.Avg8WeeksWeekdays, r.Avg8WeeksWeekends
	}
	return r.Avg13WeeksWeekdays, r.Avg13WeeksWeekends
}

// Derive normalizes the source numerics of each row and computes the
// projection fields for the given window. The calendar counts are shared by
// the whole pass. LOW_SIDE_GS and HIGH_SIDE_GS are left unset.
func Derive(rows []RawRow, w RateWindow, cal CalendarCounts) []Row {
	out := make([]Row, len(rows))
	for i, raw := range rows {
		out[i] = deriveRow(raw, w, cal)
	}
	return out
}

func deriveRow(raw RawRow, w RateWindow, cal CalendarCounts) Row {
	r := Row{
		Country:      raw.Dimension(ColCountry),
		BusinessUnit: raw.Dimension(ColBusinessUnit),
		Category:     raw.Dimension(ColCategory),
		SubCategory:  raw.Dimension(ColSubCategory),

		TotalForecast:      raw.Number(ColTotalForecast),
		Avg13WeeksWeekdays: raw.Number(ColAvg13WeeksWeekdays),
		Avg13WeeksWeekends: raw.Number(ColAvg13WeeksWeekends),
		Avg8WeeksWeekdays:  raw.Number(ColAvg8WeeksWeekdays),
		Avg8WeeksWeekends:  raw.Number(ColAvg8WeeksWeekends),
		ActualTillDate:     raw.Number(ColActualTillDate),
	}

	weekday, weekend := r.rates(w)
	r.ShipmentsRemainingDays = finite(float64(cal.RemainingWeekdays)*weekday +
		float64(cal.RemainingWeekends)*weekend)
	r.ActualPlusRemaining = finite(r.ActualTillDate + r.ShipmentsRemainingDays)
	r.RunRateForecast = r.ActualPlusRemaining
	r.RunRateVsForecastPct = ratioPct(r.ActualPlusRemaining, r.TotalForecast)
	return r
}

// ratioPct returns num/den*100, or 0 when den is not positive.
func ratioPct(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return finite(num / den * 100)
}
