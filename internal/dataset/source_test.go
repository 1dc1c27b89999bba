package dataset

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanawarAnsari/intelliplan-sub001/internal/shared/testutil"
)

func TestFileSource(t *testing.T) {
	t.Run("loads and logs", func(t *testing.T) {
		logger, logs := testutil.NewTestLogger(t)
		path := testutil.WriteFixtureFile(t, "forecast.csv", testutil.ForecastCSV())

		src := NewFileSource(path, logger)
		rows, err := src.Load(context.Background())
		require.NoError(t, err)

		assert.Len(t, rows, 5)
		assert.Equal(t, path, src.Describe())
		testutil.AssertLogContains(t, logs, slog.LevelInfo, "dataset loaded")
		assert.True(t, logs.ContainsAttr("component", "dataset"))
		assert.True(t, logs.ContainsAttr("rows", int64(5)))

		mod, err := src.ModTime()
		require.NoError(t, err)
		assert.False(t, mod.IsZero())
	})

	t.Run("logs failures", func(t *testing.T) {
		logger, logs := testutil.NewTestLogger(t)

		src := NewFileSource(filepath.Join(t.TempDir(), "gone.csv"), logger)
		_, err := src.Load(context.Background())
		require.Error(t, err)

		testutil.AssertLogContains(t, logs, slog.LevelError, "dataset load failed")

		_, err = src.ModTime()
		assert.Error(t, err)
	})
}
