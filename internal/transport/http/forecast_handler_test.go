package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "github.com/shanawarAnsari/intelliplan-sub001/internal/errors"
	"github.com/shanawarAnsari/intelliplan-sub001/internal/exporter"
	"github.com/shanawarAnsari/intelliplan-sub001/internal/runrate"
	"github.com/shanawarAnsari/intelliplan-sub001/internal/services"
)

// MockForecastService is a mock implementation of ForecastServiceInterface
type MockForecastService struct {
	mock.Mock
}

func (m *MockForecastService) Compute(ctx context.Context, q services.ForecastQuery) (runrate.Snapshot, error) {
	args := m.Called(q)
	return args.Get(0).(runrate.Snapshot), args.Error(1)
}

func (m *MockForecastService) Export(ctx context.Context, q services.ForecastQuery) (services.ExportResult, error) {
	args := m.Called(q)
	return args.Get(0).(services.ExportResult), args.Error(1)
}

func (m *MockForecastService) ExportXLSX(ctx context.Context, q services.ForecastQuery) (services.ExportResult, error) {
	args := m.Called(q)
	return args.Get(0).(services.ExportResult), args.Error(1)
}

func (m *MockForecastService) Options(ctx context.Context, filters runrate.Filters) (runrate.FilterOptions, error) {
	args := m.Called(filters)
	return args.Get(0).(runrate.FilterOptions), args.Error(1)
}

func (m *MockForecastService) Columns() []runrate.ColumnSpec {
	return m.Called().Get(0).([]runrate.ColumnSpec)
}

func (m *MockForecastService) Calendar(at time.Time) runrate.CalendarCounts {
	return m.Called(at).Get(0).(runrate.CalendarCounts)
}

func (m *MockForecastService) Reload(ctx context.Context) (services.DatasetStatus, error) {
	args := m.Called()
	return args.Get(0).(services.DatasetStatus), args.Error(1)
}

func newTestRouter(svc ForecastServiceInterface) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewForecastHandler(svc, logger, apierrors.NewErrorHandler(logger, false))

	r := chi.NewRouter()
	r.Mount("/api/forecast", h.Routes())
	return r
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestForecastHandler_Compute(t *testing.T) {
	svc := new(MockForecastService)
	router := newTestRouter(svc)

	wantInputs := runrate.NewUserInputs(runrate.LevelCategory)
	wantInputs.Set(1, runrate.ColLowSidePercent, "95")
	wantQuery := services.ForecastQuery{
		Selection: runrate.Selection{
			Filters: runrate.Filters{
				Country:  runrate.NewValues("US"),
				Category: runrate.NewValues("Soda", "Chips"),
				Search:   "co",
			},
			Window: runrate.Window8Weeks,
			Level:  runrate.LevelCategory,
		},
		Inputs: wantInputs,
	}

	var gotQuery services.ForecastQuery
	svc.On("Compute", mock.Anything).
		Run(func(args mock.Arguments) { gotQuery = args.Get(0).(services.ForecastQuery) }).
		Return(runrate.Snapshot{
			Rows:  []runrate.Row{{Country: "US", Category: "Soda", SubCategory: runrate.AllSubCategories, MemberCount: 2}},
			Level: runrate.LevelCategory,
		}, nil)

	body := `{
		"filters": {"country": "US", "category": ["Soda", "Chips"], "search": "co"},
		"rateWindow": "8weeks",
		"level": "CATEGORY",
		"inputsLevel": "CATEGORY",
		"inputs": [{"row": 1, "column": "LOW_SIDE_PERCENT", "value": "95"}]
	}`
	w := doRequest(t, router, http.MethodPost, "/api/forecast/compute", body)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	if diff := cmp.Diff(wantQuery, gotQuery); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}

	resp := decodeBody(t, w)
	assert.Equal(t, "CATEGORY", resp["level"])
	rows := resp["rows"].([]interface{})
	require.Len(t, rows, 1)
	assert.Equal(t, runrate.AllSubCategories, rows[0].(map[string]interface{})["SUB_CATEGORY"])
}

func TestForecastHandler_ComputeEmptyBody(t *testing.T) {
	svc := new(MockForecastService)
	router := newTestRouter(svc)

	svc.On("Compute", mock.Anything).Return(runrate.Snapshot{}, nil)

	w := doRequest(t, router, http.MethodPost, "/api/forecast/compute", "")
	assert.Equal(t, http.StatusOK, w.Code)

	q := svc.Calls[0].Arguments.Get(0).(services.ForecastQuery)
	assert.Equal(t, runrate.Selection{}, q.Selection)
	assert.Zero(t, q.Inputs.Len())
}

func TestForecastHandler_ComputeErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantType   string
		wantField  string
	}{
		{
			name:       "malformed json",
			body:       `{"level": 3}`,
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeValidation,
		},
		{
			name:       "invalid window",
			body:       `{"rateWindow": "4weeks"}`,
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeValidation,
			wantField:  "rateWindow",
		},
		{
			name:       "input on a computed column",
			body:       `{"inputs": [{"row": 0, "column": "RUN_RATE_FORECAST", "value": "1"}]}`,
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeValidation,
			wantField:  "inputs[0].column",
		},
		{
			name:       "dataset not loaded",
			body:       `{}`,
			serviceErr: services.ErrDatasetNotLoaded,
			wantStatus: http.StatusServiceUnavailable,
			wantType:   apierrors.TypeDatasetUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockForecastService)
			if tt.serviceErr != nil {
				svc.On("Compute", mock.Anything).Return(runrate.Snapshot{}, tt.serviceErr)
			}
			router := newTestRouter(svc)

			w := doRequest(t, router, http.MethodPost, "/api/forecast/compute", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)

			problem := decodeBody(t, w)
			assert.Equal(t, tt.wantType, problem["type"])
			if tt.wantField != "" {
				details := problem["details"].(map[string]interface{})
				errs := details["errors"].([]interface{})
				require.NotEmpty(t, errs)
				assert.Equal(t, tt.wantField, errs[0].(map[string]interface{})["field"])
			}
			if tt.serviceErr == nil {
				svc.AssertNotCalled(t, "Compute", mock.Anything)
			}
		})
	}
}

func TestForecastHandler_ExportCSV(t *testing.T) {
	svc := new(MockForecastService)
	router := newTestRouter(svc)

	svc.On("Export", mock.MatchedBy(func(q services.ForecastQuery) bool {
		return cmp.Equal(q.Columns, []runrate.ColumnID{runrate.ColCountry, runrate.ColRunRateForecast})
	})).Return(services.ExportResult{
		ID:          "export-1",
		Filename:    "run_rate_export_2024-06-15.csv",
		ContentType: services.ContentTypeCSV,
		Data:        []byte("Country,Run Rate Forecast\nUS,1500.00"),
		Rows:        1,
	}, nil)

	w := doRequest(t, router, http.MethodPost, "/api/forecast/export",
		`{"columns": ["COUNTRY", "RUN_RATE_FORECAST"]}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, services.ContentTypeCSV, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="run_rate_export_2024-06-15.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "export-1", w.Header().Get(ExportIDHeader))
	assert.Equal(t, "Country,Run Rate Forecast\nUS,1500.00", w.Body.String())
	svc.AssertExpectations(t)
}

func TestForecastHandler_ExportXLSX(t *testing.T) {
	svc := new(MockForecastService)
	router := newTestRouter(svc)

	svc.On("ExportXLSX", mock.Anything).Return(services.ExportResult{
		ID:          "export-2",
		Filename:    "run_rate_export_2024-06-15.xlsx",
		ContentType: services.ContentTypeXLSX,
		Data:        []byte("PK"),
	}, nil)

	w := doRequest(t, router, http.MethodPost, "/api/forecast/export.xlsx", `{}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.ContentTypeXLSX, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.Equal(t, "2", w.Header().Get("Content-Length"))
}

func TestForecastHandler_ExportErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{name: "no data", body: `{}`, serviceErr: exporter.ErrNoData, wantStatus: http.StatusUnprocessableEntity, wantCode: apierrors.CodeNoDataToExport},
		{name: "no columns", body: `{}`, serviceErr: exporter.ErrNoColumns, wantStatus: http.StatusUnprocessableEntity, wantCode: apierrors.CodeColumnsUnresolved},
		{name: "unknown column from service", body: `{}`, serviceErr: &runrate.UnknownColumnError{ID: "X"}, wantStatus: http.StatusBadRequest, wantCode: apierrors.CodeUnknownColumn},
		{name: "unknown column rejected by validation", body: `{"columns": ["X"]}`, wantStatus: http.StatusBadRequest, wantCode: apierrors.CodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockForecastService)
			if tt.serviceErr != nil {
				svc.On("Export", mock.Anything).Return(services.ExportResult{}, tt.serviceErr)
			}
			router := newTestRouter(svc)

			w := doRequest(t, router, http.MethodPost, "/api/forecast/export", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decodeBody(t, w)["error_code"])
			assert.Empty(t, w.Header().Get("Content-Disposition"))
		})
	}
}

func TestForecastHandler_Options(t *testing.T) {
	svc := new(MockForecastService)
	router := newTestRouter(svc)

	svc.On("Options", runrate.Filters{Country: runrate.NewValues("CA")}).Return(runrate.FilterOptions{
		Countries:     []string{"US", "CA"},
		BusinessUnits: []string{"Beverages"},
		Categories:    []string{},
		SubCategories: []string{},
	}, nil)

	w := doRequest(t, router, http.MethodPost, "/api/forecast/options", `{"filters": {"country": ["CA"]}}`)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, []interface{}{"US", "CA"}, resp["countries"])
	assert.Equal(t, []interface{}{"Beverages"}, resp["businessUnits"])
	svc.AssertExpectations(t)
}

func TestForecastHandler_Columns(t *testing.T) {
	svc := new(MockForecastService)
	router := newTestRouter(svc)
	svc.On("Columns").Return(runrate.DefaultColumns())

	w := doRequest(t, router, http.MethodGet, "/api/forecast/columns", "")

	require.Equal(t, http.StatusOK, w.Code)
	cols := decodeBody(t, w)["columns"].([]interface{})
	require.Len(t, cols, len(runrate.DefaultColumns()))
	first := cols[0].(map[string]interface{})
	assert.Equal(t, "COUNTRY", first["id"])
	assert.Equal(t, "Country", first["label"])
}

func TestForecastHandler_Calendar(t *testing.T) {
	svc := new(MockForecastService)
	router := newTestRouter(svc)

	svc.On("Calendar", time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)).
		Return(runrate.CalendarCounts{RemainingWeekdays: 10, RemainingWeekends: 5})
	svc.On("Calendar", time.Time{}).
		Return(runrate.CalendarCounts{RemainingWeekdays: 1})

	w := doRequest(t, router, http.MethodGet, "/api/forecast/calendar?date=2024-06-15", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody(t, w)
	assert.EqualValues(t, 10, resp["remainingWeekdays"])
	assert.EqualValues(t, 5, resp["remainingWeekends"])

	w = doRequest(t, router, http.MethodGet, "/api/forecast/calendar", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decodeBody(t, w)["remainingWeekdays"])

	w = doRequest(t, router, http.MethodGet, "/api/forecast/calendar?date=15-06-2024", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestForecastHandler_ReloadDataset(t *testing.T) {
	svc := new(MockForecastService)
	router := newTestRouter(svc)

	svc.On("Reload").Return(services.DatasetStatus{Source: "forecast.csv", Loaded: true, Rows: 5}, nil).Once()
	svc.On("Reload").Return(services.DatasetStatus{Source: "forecast.csv"},
		apierrors.NewStorageError("failed to open dataset", assert.AnError)).Once()

	w := doRequest(t, router, http.MethodPost, "/api/forecast/dataset/reload", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 5, decodeBody(t, w)["rows"])

	w = doRequest(t, router, http.MethodPost, "/api/forecast/dataset/reload", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, apierrors.TypeDatasetUnavailable, decodeBody(t, w)["type"])
}
