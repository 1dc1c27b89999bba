package runrate

import (
	"log/slog"
	"strings"
)

// UserInputs holds sparse what-if entries keyed by display index and column.
// Indexes refer to positions in the snapshot that was on screen when the
// values were typed, so the inputs are bound to the aggregation level they
// were entered at. An empty Level means SUB_CATEGORY.
type UserInputs struct {
	Level  Level                       `json:"level,omitempty"`
	Values map[int]map[ColumnID]string `json:"values,omitempty"`
}

// NewUserInputs returns an empty input set bound to level.
func NewUserInputs(level Level) UserInputs {
	return UserInputs{Level: level, Values: make(map[int]map[ColumnID]string)}
}

// Set stores a raw value. The receiver's map is allocated on first use.
func (u *UserInputs) Set(index int, col ColumnID, value string) {
	if u.Values == nil {
		u.Values = make(map[int]map[ColumnID]string)
	}
	row, ok := u.Values[index]
	if !ok {
		row = make(map[ColumnID]string)
		u.Values[index] = row
	}
	row[col] = value
}

// Get returns the raw value stored for (index, col).
func (u UserInputs) Get(index int, col ColumnID) (string, bool) {
	v, ok := u.Values[index][col]
	return v, ok
}

// Len returns the number of stored values.
func (u UserInputs) Len() int {
	n := 0
	for _, row := range u.Values {
		n += len(row)
	}
	return n
}

// AppliesTo reports whether the inputs were entered against a snapshot at
// level.
func (u UserInputs) AppliesTo(level Level) bool {
	return u.Level.orDefault() == level.orDefault()
}

// ScopedTo returns u when it applies to level and an empty set otherwise.
func (u UserInputs) ScopedTo(level Level, logger *slog.Logger) UserInputs {
	if u.AppliesTo(level) {
		return u
	}
	if logger != nil && u.Len() > 0 {
		logger.Debug("ignoring user inputs entered at another level",
			slog.String("inputs_level", string(u.Level.orDefault())),
			slog.String("view_level", string(level.orDefault())),
			slog.Int("values", u.Len()))
	}
	return NewUserInputs(level)
}

// percent parses the stored percentage for (index, col); absent or malformed
// values are 0.
func (u UserInputs) percent(index int, col ColumnID) float64 {
	v, ok := u.Get(index, col)
	if !ok {
		return 0
	}
	return ParseNumeric(strings.TrimSpace(v))
}

// Overlay computes LOW_SIDE_GS and HIGH_SIDE_GS for each row from the user
// percentages stored at that row's display index. A side is forecast*pct/100
// minus forecast when both forecast and pct are positive, and 0 otherwise.
// Callers scope inputs to the rows' level first; see UserInputs.ScopedTo.
func Overlay(rows []Row, inputs UserInputs) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		low := gap(r.TotalForecast, inputs.percent(i, ColLowSidePercent))
		high := gap(r.TotalForecast, inputs.percent(i, ColHighSidePercent))
		r.LowSideGS = &low
		r.HighSideGS = &high
		out[i] = r
	}
	return out
}

func gap(forecast, pct float64) float64 {
	if forecast <= 0 || pct <= 0 {
		return 0
	}
	return finite(forecast*pct/100 - forecast)
}
