package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/singleflight"

	"github.com/shanawarAnsari/intelliplan-sub001/internal/config"
	apperrors "github.com/shanawarAnsari/intelliplan-sub001/internal/errors"
	"github.com/shanawarAnsari/intelliplan-sub001/internal/exporter"
	"github.com/shanawarAnsari/intelliplan-sub001/internal/infrastructure"
	"github.com/shanawarAnsari/intelliplan-sub001/internal/runrate"
)

// Export content types
const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// DatasetSource supplies the raw forecast rows.
type DatasetSource interface {
	Load(ctx context.Context) ([]runrate.RawRow, error)
	Describe() string
}

// modTimer is implemented by sources that can tell whether they changed.
type modTimer interface {
	ModTime() (time.Time, error)
}

// ForecastQuery is one forecast request after decoding.
type ForecastQuery struct {
	Selection runrate.Selection
	Inputs    runrate.UserInputs
	// Columns limits exports to these ids in order; empty means all.
	Columns []runrate.ColumnID
}

// ExportResult is a rendered export file.
type ExportResult struct {
	ID          string
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
}

// DatasetStatus describes the rows currently held by the service.
type DatasetStatus struct {
	Source    string    `json:"source"`
	Loaded    bool      `json:"loaded"`
	Rows      int       `json:"rows"`
	LoadedAt  time.Time `json:"loaded_at,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

// ForecastService runs forecast passes over an in-memory dataset. Passes may
// run concurrently; a reload replaces the dataset wholesale.
type ForecastService struct {
	source  DatasetSource
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.BusinessMetrics
	now     func() time.Time
	loc     *time.Location

	defaultWindow runrate.RateWindow
	defaultLevel  runrate.Level

	mu       sync.RWMutex
	rows     []runrate.RawRow
	loaded   bool
	loadedAt time.Time
	modTime  time.Time
	lastErr  error

	reloads singleflight.Group
}

// ForecastOption configures a ForecastService.
type ForecastOption func(*ForecastService)

// WithForecastLogger sets the service logger.
func WithForecastLogger(logger *slog.Logger) ForecastOption {
	return func(s *ForecastService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracer sets the tracer used for pass spans.
func WithTracer(tracer trace.Tracer) ForecastOption {
	return func(s *ForecastService) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithMetrics sets the instruments passes and exports are recorded on.
func WithMetrics(m *infrastructure.BusinessMetrics) ForecastOption {
	return func(s *ForecastService) {
		s.metrics = m
	}
}

// WithServiceClock fixes the reference time of every pass.
func WithServiceClock(now func() time.Time) ForecastOption {
	return func(s *ForecastService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithForecastDefaults applies the configured default window, level and
// timezone. Invalid values are left at the built-in defaults.
func WithForecastDefaults(cfg config.ForecastConfig) ForecastOption {
	return func(s *ForecastService) {
		if w := cfg.Window(); w.Valid() {
			s.defaultWindow = w
		}
		if l := cfg.Level(); l.Valid() {
			s.defaultLevel = l
		}
		if loc, err := cfg.Location(); err == nil {
			s.loc = loc
		}
	}
}

// NewForecastService creates a forecast service over source. No rows are
// held until Reload succeeds.
func NewForecastService(source DatasetSource, opts ...ForecastOption) *ForecastService {
	s := &ForecastService{
		source:        source,
		logger:        slog.Default(),
		tracer:        noop.NewTracerProvider().Tracer(""),
		now:           time.Now,
		loc:           time.Local,
		defaultWindow: runrate.Window13Weeks,
		defaultLevel:  runrate.LevelSubCategory,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = infrastructure.WithComponent(s.logger, "forecast_service")
	return s
}

// clock returns the current time in the configured timezone.
func (s *ForecastService) clock() time.Time {
	return s.now().In(s.loc)
}

// Reload reads the dataset from its source and swaps it in. Concurrent
// calls share one load. A failed load keeps the previous rows.
func (s *ForecastService) Reload(ctx context.Context) (DatasetStatus, error) {
	ch := s.reloads.DoChan("reload", func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.DatasetLoadTimeout)
		defer cancel()
		return nil, s.load(loadCtx)
	})

	select {
	case res := <-ch:
		return s.Status(), res.Err
	case <-ctx.Done():
		return s.Status(), ctx.Err()
	}
}

func (s *ForecastService) load(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "forecast.dataset.load",
		trace.WithAttributes(attribute.String("dataset.source", s.source.Describe())))
	defer span.End()

	var modTime time.Time
	if mt, ok := s.source.(modTimer); ok {
		modTime, _ = mt.ModTime()
	}

	rows, err := s.source.Load(ctx)
	infrastructure.RecordDatasetLoad(ctx, s.metrics, len(rows), err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.rows = rows
	s.loaded = true
	s.loadedAt = s.now()
	s.modTime = modTime
	s.lastErr = nil
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "dataset swapped in",
		slog.String("source", s.source.Describe()),
		slog.Int("rows", len(rows)))
	return nil
}

// Watch reloads the dataset every interval until ctx is done. Sources that
// report a modification time are only re-read when it changed.
func (s *ForecastService) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !s.changed() {
				continue
			}
			if _, err := s.Reload(ctx); err != nil && ctx.Err() == nil {
				infrastructure.WithError(s.logger, err).WarnContext(ctx, "scheduled dataset reload failed")
			}
		}
	}
}

func (s *ForecastService) changed() bool {
	mt, ok := s.source.(modTimer)
	if !ok {
		return true
	}
	current, err := mt.ModTime()
	if err != nil {
		return true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.loaded || !current.Equal(s.modTime)
}

// Status reports the dataset currently held.
func (s *ForecastService) Status() DatasetStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := DatasetStatus{
		Source:   s.source.Describe(),
		Loaded:   s.loaded,
		Rows:     len(s.rows),
		LoadedAt: s.loadedAt,
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

// dataset returns the current rows. The slice is shared and must not be
// modified.
func (s *ForecastService) dataset() ([]runrate.RawRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, ErrDatasetNotLoaded
	}
	return s.rows, nil
}

// withDefaults fills an empty window or level from configuration.
func (s *ForecastService) withDefaults(sel runrate.Selection) runrate.Selection {
	if sel.Window == "" {
		sel.Window = s.defaultWindow
	}
	if sel.Level == "" {
		sel.Level = s.defaultLevel
	}
	return sel
}

// Compute runs one pipeline pass.
func (s *ForecastService) Compute(ctx context.Context, q ForecastQuery) (runrate.Snapshot, error) {
	rows, err := s.dataset()
	if err != nil {
		return runrate.Snapshot{}, err
	}
	return s.run(ctx, rows, q), nil
}

func (s *ForecastService) run(ctx context.Context, rows []runrate.RawRow, q ForecastQuery) runrate.Snapshot {
	sel := s.withDefaults(q.Selection)
	inputs := q.Inputs
	if inputs.Level == "" {
		inputs.Level = sel.Level
	}

	ctx, span := s.tracer.Start(ctx, "forecast.pass",
		trace.WithAttributes(
			attribute.Int("runrate.source_rows", len(rows)),
			attribute.Int("runrate.inputs", inputs.Len()),
		))
	defer span.End()

	start := time.Now()
	snap := runrate.Run(rows, sel, inputs,
		runrate.WithClock(s.clock),
		runrate.WithLogger(s.logger),
	)
	duration := time.Since(start)

	infrastructure.RecordPass(ctx, s.metrics, string(snap.Level), string(snap.Window), len(snap.Rows), duration)
	s.logger.DebugContext(ctx, "forecast pass completed",
		slog.String("level", string(snap.Level)),
		slog.String("window", string(snap.Window)),
		slog.Int("source_rows", snap.SourceCount),
		slog.Int("filtered_rows", snap.FilteredCount),
		slog.Int("output_rows", len(snap.Rows)),
		slog.Duration("duration", duration))
	return snap
}

// Export runs a pass and renders the visible columns as CSV.
func (s *ForecastService) Export(ctx context.Context, q ForecastQuery) (ExportResult, error) {
	return s.export(ctx, q, "csv", exporter.BuildCSV, exporter.Filename, ContentTypeCSV)
}

// ExportXLSX runs a pass and renders the visible columns as a workbook.
func (s *ForecastService) ExportXLSX(ctx context.Context, q ForecastQuery) (ExportResult, error) {
	return s.export(ctx, q, "xlsx", exporter.ExportXLSX, exporter.XLSXFilename, ContentTypeXLSX)
}

type renderFunc func([]runrate.ColumnSpec, runrate.Snapshot, runrate.UserInputs) ([]byte, error)

func (s *ForecastService) export(ctx context.Context, q ForecastQuery, format string, render renderFunc, filename func(time.Time) string, contentType string) (ExportResult, error) {
	exportID := uuid.New().String()
	logger := s.logger.With(slog.String("export_id", exportID), slog.String("format", format))

	cols, err := runrate.ResolveColumns(q.Columns)
	if err != nil {
		infrastructure.RecordExport(ctx, s.metrics, format, infrastructure.OutcomeBadRequest)
		return ExportResult{}, err
	}

	rows, err := s.dataset()
	if err != nil {
		infrastructure.RecordExport(ctx, s.metrics, format, infrastructure.OutcomeError)
		return ExportResult{}, err
	}

	snap := s.run(ctx, rows, q)
	inputs := q.Inputs
	if inputs.Level == "" {
		inputs.Level = snap.Level
	}

	data, err := render(cols, snap, inputs)
	if err != nil {
		infrastructure.RecordExport(ctx, s.metrics, format, exportOutcome(err))
		infrastructure.WithError(logger, err).WarnContext(ctx, "export failed")
		return ExportResult{}, renderError(err, exportID, format)
	}

	infrastructure.RecordExport(ctx, s.metrics, format, infrastructure.OutcomeSuccess)
	result := ExportResult{
		ID:          exportID,
		Filename:    filename(s.clock()),
		ContentType: contentType,
		Data:        data,
		Rows:        len(snap.Rows),
	}
	logger.InfoContext(ctx, "export completed",
		slog.String("filename", result.Filename),
		slog.Int("rows", result.Rows),
		slog.Int("columns", len(cols)),
		slog.Int("bytes", len(data)))
	return result, nil
}

func exportOutcome(err error) string {
	switch {
	case errors.Is(err, exporter.ErrNoData):
		return infrastructure.OutcomeNoData
	case errors.Is(err, exporter.ErrNoColumns):
		return infrastructure.OutcomeNoColumns
	default:
		return infrastructure.OutcomeError
	}
}

// renderError keeps the no-data and no-columns sentinels as they are and
// wraps anything else as an export error.
func renderError(err error, exportID, format string) error {
	if exportOutcome(err) != infrastructure.OutcomeError {
		return err
	}
	return apperrors.NewExportError("failed to render export", err).
		WithContext("export_id", exportID).
		WithContext("format", format)
}

// Options returns the cascading filter values for the current dataset.
func (s *ForecastService) Options(ctx context.Context, filters runrate.Filters) (runrate.FilterOptions, error) {
	rows, err := s.dataset()
	if err != nil {
		return runrate.FilterOptions{}, err
	}
	return runrate.Options(rows, filters), nil
}

// Columns returns the column catalog in display order.
func (s *ForecastService) Columns() []runrate.ColumnSpec {
	return runrate.DefaultColumns()
}

// Calendar returns the remaining weekday and weekend counts for the month
// of at, or of the current date when at is zero.
func (s *ForecastService) Calendar(at time.Time) runrate.CalendarCounts {
	if at.IsZero() {
		at = s.clock()
	}
	return runrate.Remaining(at)
}
