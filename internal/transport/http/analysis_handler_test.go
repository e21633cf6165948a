package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/EbinDavis252/Analysis-of-Bakery/internal/config"
	"github.com/EbinDavis252/Analysis-of-Bakery/internal/dataprocessing"
	apierrors "github.com/EbinDavis252/Analysis-of-Bakery/internal/errors"
	"github.com/EbinDavis252/Analysis-of-Bakery/internal/middleware"
	"github.com/EbinDavis252/Analysis-of-Bakery/internal/services"
	"github.com/EbinDavis252/Analysis-of-Bakery/internal/shared/testutil"
	"github.com/EbinDavis252/Analysis-of-Bakery/internal/validation"
	"github.com/EbinDavis252/Analysis-of-Bakery/pkg/contracts/domain"
)

// MockAnalysisService is a mock implementation of AnalysisServiceInterface
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) DefaultHeaderRow() int {
	return testutil.SalesHeaderRow
}

func (m *MockAnalysisService) Analyze(ctx context.Context, r io.Reader, filename string, headerRow int) (*domain.AnalysisReport, error) {
	args := m.Called(ctx, r, filename, headerRow)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalysisReport), args.Error(1)
}

func (m *MockAnalysisService) Preview(ctx context.Context, r io.Reader, filename string, rows int) (*domain.SheetPreview, error) {
	args := m.Called(ctx, r, filename, rows)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SheetPreview), args.Error(1)
}

func (m *MockAnalysisService) Export(ctx context.Context, r io.Reader, filename string, headerRow int, format, view string) (*services.ExportResult, error) {
	args := m.Called(ctx, r, filename, headerRow, format, view)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ExportResult), args.Error(1)
}

func setupAnalysisRouter(t *testing.T, svc AnalysisServiceInterface, maxBytes int64) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	h := NewAnalysisHandler(
		svc,
		validation.NewFileValidator(maxBytes, logger),
		middleware.NewRequestValidator(logger),
		logger,
		apierrors.NewErrorHandler(logger, false),
	)

	r := chi.NewRouter()
	r.Mount("/api/analysis", h.Routes())
	return r
}

// uploadRequest builds a multipart request carrying data as the file field
func uploadRequest(t *testing.T, target, filename string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		part, err := mw.CreateFormFile(FileField, filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func problemOf(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func invalidFields(t *testing.T, problem map[string]interface{}) []string {
	t.Helper()
	list, ok := problem["errors"].([]interface{})
	require.True(t, ok, "problem has no errors member: %v", problem)
	var fields []string
	for _, item := range list {
		fields = append(fields, item.(map[string]interface{})["field"].(string))
	}
	return fields
}

func TestAnalysisHandler_Analyze(t *testing.T) {
	workbook := testutil.DefaultWorkbook(t)

	t.Run("success with default header row", func(t *testing.T) {
		svc := new(MockAnalysisService)
		svc.On("Analyze", mock.Anything, mock.Anything, "sales.xlsx", testutil.SalesHeaderRow).
			Return(&domain.AnalysisReport{RunID: "run-1", RecordCount: 35}, nil)

		rec := serve(setupAnalysisRouter(t, svc, config.DefaultMaxUploadBytes),
			uploadRequest(t, "/api/analysis", "sales.xlsx", workbook, nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var report domain.AnalysisReport
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		assert.Equal(t, "run-1", report.RunID)
		assert.Equal(t, 35, report.RecordCount)
		svc.AssertExpectations(t)
	})

	t.Run("explicit header row", func(t *testing.T) {
		svc := new(MockAnalysisService)
		svc.On("Analyze", mock.Anything, mock.Anything, "sales.xlsx", 0).
			Return(&domain.AnalysisReport{}, nil)

		rec := serve(setupAnalysisRouter(t, svc, config.DefaultMaxUploadBytes),
			uploadRequest(t, "/api/analysis", "sales.xlsx", workbook, map[string]string{"header_row": "0"}))

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})
}

func TestAnalysisHandler_RejectedRequests(t *testing.T) {
	workbook := testutil.DefaultWorkbook(t)

	tests := []struct {
		name       string
		req        func(t *testing.T) *http.Request
		maxBytes   int64
		wantStatus int
		wantType   string
		wantFields []string
	}{
		{
			name: "missing file",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/api/analysis", "", nil, map[string]string{"header_row": "3"})
			},
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeValidation,
			wantFields: []string{FileField},
		},
		{
			name: "unsupported extension",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/api/analysis", "sales.pdf", []byte("%PDF"), nil)
			},
			wantStatus: http.StatusUnsupportedMediaType,
			wantType:   apierrors.TypeUnsupportedFile,
		},
		{
			name: "empty file",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/api/analysis", "sales.csv", nil, nil)
			},
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeValidation,
			wantFields: []string{FileField},
		},
		{
			name: "file above the limit",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/api/analysis", "sales.csv", bytes.Repeat([]byte("x"), 2048), nil)
			},
			maxBytes:   1024,
			wantStatus: http.StatusRequestEntityTooLarge,
			wantType:   apierrors.TypePayloadTooLarge,
		},
		{
			name: "header row not an integer",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/api/analysis", "sales.xlsx", workbook, map[string]string{"header_row": "three"})
			},
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeValidation,
			wantFields: []string{"header_row"},
		},
		{
			name: "negative header row",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/api/analysis", "sales.xlsx", workbook, map[string]string{"header_row": "-1"})
			},
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeValidation,
			wantFields: []string{"header_row"},
		},
		{
			name: "not a multipart body",
			req: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/api/analysis", strings.NewReader(`{"file":"x"}`))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
			wantStatus: http.StatusUnsupportedMediaType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAnalysisService)
			maxBytes := tt.maxBytes
			if maxBytes == 0 {
				maxBytes = config.DefaultMaxUploadBytes
			}

			rec := serve(setupAnalysisRouter(t, svc, maxBytes), tt.req(t))

			assert.Equal(t, tt.wantStatus, rec.Code)
			problem := problemOf(t, rec)
			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, problem["type"])
			}
			if tt.wantFields != nil {
				assert.Equal(t, tt.wantFields, invalidFields(t, problem))
			}
			svc.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestAnalysisHandler_PipelineErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		check      func(t *testing.T, problem map[string]interface{})
	}{
		{
			name:       "unreadable spreadsheet",
			err:        &dataprocessing.ParseError{Source: "sales.xlsx", Reason: "not a valid xlsx workbook"},
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeSpreadsheetUnreadable,
		},
		{
			name:       "missing product column",
			err:        &dataprocessing.SchemaError{Missing: []string{"Coffee"}},
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   apierrors.TypeSpreadsheetSchema,
			check: func(t *testing.T, problem map[string]interface{}) {
				assert.Equal(t, []interface{}{"Coffee"}, problem["missing_columns"])
				assert.Contains(t, problem["detail"], "Coffee")
			},
		},
		{
			name:       "bad product value",
			err:        &dataprocessing.ValueError{Column: "Pies", Row: 9, Value: "lots", Reason: "not a number"},
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   apierrors.TypeSpreadsheetValue,
			check: func(t *testing.T, problem map[string]interface{}) {
				assert.Equal(t, "Pies", problem["column"])
				assert.Equal(t, float64(9), problem["row"])
				assert.Equal(t, "lots", problem["value"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAnalysisService)
			svc.On("Analyze", mock.Anything, mock.Anything, "sales.xlsx", testutil.SalesHeaderRow).Return(nil, tt.err)

			rec := serve(setupAnalysisRouter(t, svc, config.DefaultMaxUploadBytes),
				uploadRequest(t, "/api/analysis", "sales.xlsx", []byte("not a workbook"), nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			problem := problemOf(t, rec)
			assert.Equal(t, tt.wantType, problem["type"])
			assert.Equal(t, "/api/analysis", problem["instance"])
			if tt.check != nil {
				tt.check(t, problem)
			}
		})
	}
}

func TestAnalysisHandler_Preview(t *testing.T) {
	tests := []struct {
		name       string
		fields     map[string]string
		wantRows   int
		wantStatus int
	}{
		{name: "default rows", fields: nil, wantRows: 0, wantStatus: http.StatusOK},
		{name: "explicit rows", fields: map[string]string{"rows": "5"}, wantRows: 5, wantStatus: http.StatusOK},
		{name: "too many rows", fields: map[string]string{"rows": "501"}, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAnalysisService)
			svc.On("Preview", mock.Anything, mock.Anything, "sales.csv", tt.wantRows).
				Return(&domain.SheetPreview{SourceFile: "sales.csv", SheetName: "sales", Rows: [][]string{{"a"}}, TotalRows: 1}, nil)

			rec := serve(setupAnalysisRouter(t, svc, config.DefaultMaxUploadBytes),
				uploadRequest(t, "/api/analysis/preview", "sales.csv", []byte("a\n"), tt.fields))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				var preview domain.SheetPreview
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &preview))
				assert.Equal(t, "sales", preview.SheetName)
				svc.AssertExpectations(t)
			} else {
				svc.AssertNotCalled(t, "Preview", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestAnalysisHandler_Export(t *testing.T) {
	workbook := testutil.DefaultWorkbook(t)

	t.Run("csv view attachment", func(t *testing.T) {
		svc := new(MockAnalysisService)
		svc.On("Export", mock.Anything, mock.Anything, "sales.xlsx", testutil.SalesHeaderRow, services.FormatCSV, "trend").
			Return(&services.ExportResult{
				Filename:    "sales_trend.csv",
				ContentType: services.ContentTypeCSV,
				Data:        []byte("date,total_sales\n"),
				Report:      &domain.AnalysisReport{RunID: "run-7"},
			}, nil)

		rec := serve(setupAnalysisRouter(t, svc, config.DefaultMaxUploadBytes),
			uploadRequest(t, "/api/analysis/export", "sales.xlsx", workbook, map[string]string{"format": "CSV", "view": "trend"}))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, services.ContentTypeCSV, rec.Header().Get("Content-Type"))
		assert.Equal(t, "attachment; filename=sales_trend.csv", rec.Header().Get("Content-Disposition"))
		assert.Equal(t, "run-7", rec.Header().Get("X-Run-ID"))
		assert.Equal(t, "date,total_sales\n", rec.Body.String())
		svc.AssertExpectations(t)
	})

	invalid := []struct {
		name       string
		fields     map[string]string
		wantFields []string
	}{
		{name: "missing format", fields: map[string]string{}, wantFields: []string{"format"}},
		{name: "unknown format", fields: map[string]string{"format": "pdf"}, wantFields: []string{"format"}},
		{name: "csv without view", fields: map[string]string{"format": "csv"}, wantFields: []string{"view"}},
		{name: "unknown view", fields: map[string]string{"format": "csv", "view": "forecast"}, wantFields: []string{"view"}},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAnalysisService)

			rec := serve(setupAnalysisRouter(t, svc, config.DefaultMaxUploadBytes),
				uploadRequest(t, "/api/analysis/export", "sales.xlsx", workbook, tt.fields))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantFields, invalidFields(t, problemOf(t, rec)))
			svc.AssertNotCalled(t, "Export", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

// The handler over the real service, end to end
func TestAnalysisHandler_WithService(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	cfg := config.Default().Analysis
	svc := services.NewAnalysisService(
		dataprocessing.NewPipeline(logger),
		validation.NewFileValidator(cfg.MaxUploadBytes, logger),
		cfg,
		logger,
	)
	router := setupAnalysisRouter(t, svc, cfg.MaxUploadBytes)

	t.Run("full report", func(t *testing.T) {
		rec := serve(router, uploadRequest(t, "/api/analysis", "sales.xlsx", testutil.DefaultWorkbook(t), nil))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var report domain.AnalysisReport
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		assert.Equal(t, 35, report.RecordCount)
		assert.Len(t, report.WeekdayAverage, 7)
		assert.Len(t, report.MonthlySeasonality.Months, 12)
		assert.Len(t, report.Trend.Points, 35)
		assert.True(t, report.PromotionEffect.Available)
	})

	t.Run("missing Coffee column", func(t *testing.T) {
		header, rows := testutil.DropColumn(testutil.SalesHeader, testutil.SalesRows(testutil.SalesStart, 35), "Coffee ")
		data := testutil.SalesWorkbook(t, header, rows)

		rec := serve(router, uploadRequest(t, "/api/analysis", "sales.xlsx", data, nil))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		problem := problemOf(t, rec)
		assert.Equal(t, apierrors.TypeSpreadsheetSchema, problem["type"])
		assert.Equal(t, []interface{}{"Coffee"}, problem["missing_columns"])
	})

	t.Run("xlsx export", func(t *testing.T) {
		rec := serve(router, uploadRequest(t, "/api/analysis/export", "sales.xlsx", testutil.DefaultWorkbook(t), map[string]string{"format": "xlsx"}))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, services.ContentTypeXLSX, rec.Header().Get("Content-Type"))
		assert.Equal(t, "attachment; filename=sales_analysis.xlsx", rec.Header().Get("Content-Disposition"))
		assert.NotEmpty(t, rec.Header().Get("X-Run-ID"))
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
	})
}
