package runrate

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlay(t *testing.T) {
	tests := []struct {
		name     string
		forecast float64
		low      string
		high     string
		wantLow  float64
		wantHigh float64
	}{
		{name: "low side below forecast", forecast: 1000, low: "90", wantLow: -100},
		{name: "low side zero percent", forecast: 1000, low: "0", wantLow: 0},
		{name: "high side above forecast", forecast: 1000, high: "110", wantHigh: 100},
		{name: "both sides", forecast: 200, low: "50", high: "150", wantLow: -100, wantHigh: 100},
		{name: "zero forecast", forecast: 0, low: "90", high: "110"},
		{name: "negative forecast", forecast: -10, low: "90", high: "110"},
		{name: "negative percent", forecast: 1000, low: "-5"},
		{name: "malformed percent", forecast: 1000, low: "abc", high: ""},
		{name: "percent with sign", forecast: 1000, low: "95%", wantLow: -50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inputs := NewUserInputs(LevelSubCategory)
			if tt.low != "" {
				inputs.Set(0, ColLowSidePercent, tt.low)
			}
			if tt.high != "" {
				inputs.Set(0, ColHighSidePercent, tt.high)
			}

			got := Overlay([]Row{{TotalForecast: tt.forecast}}, inputs)
			require.Len(t, got, 1)
			require.NotNil(t, got[0].LowSideGS)
			require.NotNil(t, got[0].HighSideGS)
			assert.InDelta(t, tt.wantLow, *got[0].LowSideGS, 1e-9)
			assert.InDelta(t, tt.wantHigh, *got[0].HighSideGS, 1e-9)
		})
	}
}

func TestOverlayUsesDisplayIndex(t *testing.T) {
	rows := []Row{{TotalForecast: 100}, {TotalForecast: 200}, {TotalForecast: 300}}
	inputs := NewUserInputs(LevelSubCategory)
	inputs.Set(2, ColLowSidePercent, "50")
	inputs.Set(7, ColLowSidePercent, "50")

	got := Overlay(rows, inputs)

	assert.Equal(t, 0.0, *got[0].LowSideGS)
	assert.Equal(t, 0.0, *got[1].LowSideGS)
	assert.Equal(t, -150.0, *got[2].LowSideGS)
	assert.Nil(t, rows[2].LowSideGS, "input rows must not be modified")
}

func TestUserInputsScoping(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	inputs := NewUserInputs(LevelSubCategory)
	inputs.Set(0, ColLowSidePercent, "90")

	assert.True(t, inputs.AppliesTo(LevelSubCategory))
	assert.True(t, inputs.AppliesTo(""))
	assert.False(t, inputs.AppliesTo(LevelCategory))

	scoped := inputs.ScopedTo(LevelCategory, logger)
	assert.Equal(t, 0, scoped.Len())
	assert.Equal(t, LevelCategory, scoped.Level)
	assert.Contains(t, buf.String(), "ignoring user inputs entered at another level")

	same := inputs.ScopedTo(LevelSubCategory, logger)
	assert.Equal(t, 1, same.Len())

	var unleveled UserInputs
	unleveled.Set(0, ColHighSidePercent, "120")
	assert.True(t, unleveled.AppliesTo(LevelSubCategory))
	assert.False(t, unleveled.AppliesTo(LevelBusinessUnit))
}

func TestUserInputsJSON(t *testing.T) {
	var u UserInputs
	err := json.Unmarshal([]byte(`{"level":"CATEGORY","values":{"3":{"LOW_SIDE_PERCENT":"85","HIGH_SIDE_PERCENT":"120"}}}`), &u)
	require.NoError(t, err)

	assert.Equal(t, LevelCategory, u.Level)
	v, ok := u.Get(3, ColHighSidePercent)
	assert.True(t, ok)
	assert.Equal(t, "120", v)
	_, ok = u.Get(0, ColHighSidePercent)
	assert.False(t, ok)
	assert.Equal(t, 2, u.Len())
}
