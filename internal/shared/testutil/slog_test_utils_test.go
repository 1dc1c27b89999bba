package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shanawarAnsari/intelliplan-sub001/internal/runrate"
)

func TestBufferedSlogHandler(t *testing.T) {
	t.Run("captures log records", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Info("test message", slog.String("key", "value"))
		logger.Error("error message", slog.Int("code", 500))

		assert.Len(t, handler.GetRecords(), 2)
		assert.True(t, handler.ContainsMessage("test message"))
		assert.True(t, handler.ContainsAttr("key", "value"))
	})

	t.Run("filters by level", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.Debug("debug msg")
		logger.Info("info msg")
		logger.Warn("warn msg")
		logger.Error("error msg")

		assert.Len(t, handler.GetRecordsByLevel(slog.LevelInfo), 1)
		assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
		assert.Equal(t, 4, handler.Count())
	})

	t.Run("derived loggers share records and keep attrs", func(t *testing.T) {
		logger, handler := NewTestLogger(t)

		logger.With(slog.String("component", "forecast")).Info("pass complete")

		assert.Equal(t, 1, handler.Count())
		assert.True(t, handler.ContainsAttr("component", "forecast"))
	})
}

func TestForecastFixtures(t *testing.T) {
	rows := ForecastRows()
	assert.Len(t, rows, 5)
	assert.Equal(t, "US", rows[0].Dimension(runrate.ColCountry))

	csv := ForecastCSV()
	assert.Contains(t, csv, "COUNTRY,BUSINESS_UNIT,CATEGORY,SUB_CATEGORY")
	assert.Contains(t, csv, "CA,Snacks,Chips,BBQ,,,,,,")

	assert.Equal(t, runrate.CalendarCounts{RemainingWeekdays: 10, RemainingWeekends: 5}, runrate.Remaining(FixedClock()()))
}
