package runrate

import (
	"io"
	"log/slog"
	"time"
)

// Option configures a pipeline pass.
type Option func(*config)

type config struct {
	now    func() time.Time
	logger *slog.Logger
}

// WithClock fixes the reference time used for calendar projection.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger used for debug notes about fallbacks.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func applyOptions(opts []Option) *config {
	cfg := &config{
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Run executes one full pass: filter, derive, aggregate, overlay and totals.
// raw is never modified and the returned snapshot shares no mutable state
// with earlier passes. Unknown windows fall back to 13 weeks and unknown
// levels to SUB_CATEGORY.
func Run(raw []RawRow, sel Selection, inputs UserInputs, opts ...Option) Snapshot {
	cfg := applyOptions(opts)
	now := cfg.now()

	window := sel.Window
	if !window.Valid() {
		if window != "" {
			cfg.logger.Debug("unknown rate window, using 13 weeks", slog.String("window", string(window)))
		}
		window = Window13Weeks
	}
	level := sel.Level
	if !level.Valid() {
		if level != "" {
			cfg.logger.Debug("unknown aggregation level, rows are not grouped", slog.String("level", string(level)))
		}
		level = LevelSubCategory
	}

	cal := Remaining(now)
	filtered := sel.Filters.Apply(raw)
	derived := Derive(filtered, window, cal)
	grouped := Aggregate(derived, level)
	rows := Overlay(grouped, inputs.ScopedTo(level, cfg.logger))

	return Snapshot{
		Rows:          rows,
		Totals:        Totals(rows),
		Level:         level,
		Window:        window,
		Calendar:      cal,
		SourceCount:   len(raw),
		FilteredCount: len(filtered),
		ComputedAt:    now,
	}
}
