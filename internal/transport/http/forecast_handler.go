package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/shanawarAnsari/intelliplan-sub001/internal/errors"
	"github.com/shanawarAnsari/intelliplan-sub001/internal/exporter"
	"github.com/shanawarAnsari/intelliplan-sub001/internal/middleware"
	"github.com/shanawarAnsari/intelliplan-sub001/internal/runrate"
	"github.com/shanawarAnsari/intelliplan-sub001/internal/services"
	api "github.com/shanawarAnsari/intelliplan-sub001/pkg/contracts/api/v1"
)

// ExportIDHeader carries the id logged with each export.
const ExportIDHeader = "X-Export-ID"

// ForecastHandler handles forecast HTTP requests with RFC 7807 errors
type ForecastHandler struct {
	service      ForecastServiceInterface
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewForecastHandler creates a new forecast handler
func NewForecastHandler(service ForecastServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ForecastHandler {
	return &ForecastHandler{
		service:      service,
		validate:     middleware.NewValidator(),
		logger:       logger.With(slog.String("component", "forecast_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the forecast routes, mounted under /api/forecast
func (h *ForecastHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/compute", h.Compute)
	r.Post("/export", h.ExportCSV)
	r.Post("/export.xlsx", h.ExportXLSX)
	r.Post("/options", h.Options)
	r.Get("/columns", h.Columns)
	r.Get("/calendar", h.Calendar)
	r.Post("/dataset/reload", h.ReloadDataset)

	return r
}

// decode reads an optional JSON body into v and validates it. An empty body
// leaves v at its zero value.
func (h *ForecastHandler) decode(r *http.Request, v interface{}) error {
	if r.Body != nil {
		if err := render.DecodeJSON(r.Body, v); err != nil && !errors.Is(err, io.EOF) {
			return apierrors.InvalidRequestWithError(err)
		}
	}
	return middleware.ValidateStruct(h.validate, v)
}

// Compute handles POST /api/forecast/compute
func (h *ForecastHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req api.ComputeRequest
	if err := h.decode(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	snap, err := h.service.Compute(r.Context(), services.QueryFromRequest(req, nil))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, snap)
}

// ExportCSV handles POST /api/forecast/export
func (h *ForecastHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, h.service.Export)
}

// ExportXLSX handles POST /api/forecast/export.xlsx
func (h *ForecastHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, h.service.ExportXLSX)
}

type exportFunc func(ctx context.Context, q services.ForecastQuery) (services.ExportResult, error)

func (h *ForecastHandler) export(w http.ResponseWriter, r *http.Request, run exportFunc) {
	var req api.ExportRequest
	if err := h.decode(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	res, err := run(r.Context(), services.QueryFromRequest(req.ComputeRequest, req.Columns))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.Header().Set(ExportIDHeader, res.ID)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export body",
			slog.String("export_id", res.ID),
			slog.String("error", err.Error()))
	}
}

// Options handles POST /api/forecast/options
func (h *ForecastHandler) Options(w http.ResponseWriter, r *http.Request) {
	var req api.OptionsRequest
	if err := h.decode(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	opts, err := h.service.Options(r.Context(), services.FiltersFromRequest(req.Filters))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, opts)
}

// Columns handles GET /api/forecast/columns
func (h *ForecastHandler) Columns(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"columns": h.service.Columns(),
	})
}

// Calendar handles GET /api/forecast/calendar?date=YYYY-MM-DD
func (h *ForecastHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	req := api.CalendarRequest{Date: r.URL.Query().Get("date")}
	if err := middleware.ValidateStruct(h.validate, req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var at time.Time
	if req.Date != "" {
		// Validated above; noon keeps the date stable across zones.
		d, _ := time.Parse(time.DateOnly, req.Date)
		at = d.Add(12 * time.Hour)
	}

	render.JSON(w, r, h.service.Calendar(at))
}

// ReloadDataset handles POST /api/forecast/dataset/reload
func (h *ForecastHandler) ReloadDataset(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Reload(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "dataset reloaded via API",
		slog.Int("rows", status.Rows),
		slog.String("source", status.Source))
	render.JSON(w, r, status)
}

// handleServiceError maps service errors onto API errors.
func (h *ForecastHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var unknown *runrate.UnknownColumnError
	switch {
	case errors.Is(err, services.ErrDatasetNotLoaded):
		err = apierrors.ErrDatasetUnavailable
	case errors.Is(err, exporter.ErrNoData):
		err = apierrors.ErrNoDataToExport
	case errors.Is(err, exporter.ErrNoColumns):
		err = apierrors.ErrColumnsUnresolved
	case errors.As(err, &unknown):
		err = apierrors.UnknownColumnError(string(unknown.ID))
	}
	h.errorHandler.HandleError(w, r, err)
}
