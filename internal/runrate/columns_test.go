package runrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatters(t *testing.T) {
	tests := []struct {
		name   string
		format Formatter
		input  any
		want   string
	}{
		{"currency grouped", FormatCurrency, 1234.56, "$1,234.56"},
		{"currency negative", FormatCurrency, -1500.0, "-$1,500.00"},
		{"currency from string", FormatCurrency, "42", "$42.00"},
		{"currency nil", FormatCurrency, nil, ""},
		{"percent", FormatPercent, 350.0 / 300.0 * 100, "116.67%"},
		{"percent zero", FormatPercent, 0.0, "0.00%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.format(tt.input))
		})
	}
}

func TestDefaultColumns(t *testing.T) {
	cols := DefaultColumns()
	require.NotEmpty(t, cols)

	seen := make(map[ColumnID]bool)
	for _, c := range cols {
		assert.False(t, seen[c.ID], "duplicate column %s", c.ID)
		seen[c.ID] = true
		assert.NotEmpty(t, c.Label)

		if c.IsUserInput {
			assert.Nil(t, c.Format, "user input column %s has a formatter", c.ID)
			continue
		}
		_, ok := Row{}.Value(c.ID)
		assert.True(t, ok, "column %s is not a row field", c.ID)
	}
	assert.True(t, seen[ColLowSidePercent])
	assert.True(t, seen[ColHighSidePercent])

	cols[0].Label = "changed"
	assert.Equal(t, "Country", DefaultColumns()[0].Label)
}

func TestResolveColumns(t *testing.T) {
	cols, err := ResolveColumns([]ColumnID{ColRunRateForecast, ColCountry})
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, ColRunRateForecast, cols[0].ID)
	assert.Equal(t, ColCountry, cols[1].ID)

	all, err := ResolveColumns(nil)
	require.NoError(t, err)
	assert.Len(t, all, len(DefaultColumns()))

	_, err = ResolveColumns([]ColumnID{"NOPE"})
	var unknown *UnknownColumnError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, ColumnID("NOPE"), unknown.ID)
}

func TestRowValue(t *testing.T) {
	r := Row{Country: "US", TotalForecast: 10, HighSideGS: ptr(5)}

	v, ok := r.Value(ColCountry)
	assert.True(t, ok)
	assert.Equal(t, "US", v)

	v, ok = r.Value(ColLowSideGS)
	assert.True(t, ok)
	assert.Nil(t, v)

	v, _ = r.Value(ColHighSideGS)
	assert.Equal(t, 5.0, v)

	_, ok = r.Value(ColLowSidePercent)
	assert.False(t, ok)
}
