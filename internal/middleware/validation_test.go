package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/EbinDavis252/Analysis-of-Bakery/internal/errors"
	"github.com/EbinDavis252/Analysis-of-Bakery/internal/shared/testutil"
)

type exportParams struct {
	HeaderRow int    `form:"header_row" validate:"min=0"`
	Format    string `form:"format" validate:"required,oneof=xlsx csv"`
	View      string `form:"view" validate:"required_if=Format csv"`
}

func TestRequestValidator_ValidateStruct(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewRequestValidator(logger)

	tests := []struct {
		name       string
		params     exportParams
		wantFields []string
	}{
		{name: "valid xlsx", params: exportParams{HeaderRow: 3, Format: "xlsx"}},
		{name: "valid csv", params: exportParams{Format: "csv", View: "trend"}},
		{name: "negative header row", params: exportParams{HeaderRow: -1, Format: "xlsx"}, wantFields: []string{"header_row"}},
		{name: "unknown format", params: exportParams{Format: "pdf"}, wantFields: []string{"format"}},
		{name: "csv without view", params: exportParams{Format: "csv"}, wantFields: []string{"view"}},
		{name: "several failures", params: exportParams{HeaderRow: -2}, wantFields: []string{"header_row", "format"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(tt.params)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var apiErr *apierrors.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			assert.Equal(t, apierrors.CodeValidationFailed, apiErr.ErrorCode)

			details, ok := apiErr.Details.(apierrors.ValidationErrors)
			require.True(t, ok)
			var fields []string
			for _, fe := range details.Errors {
				fields = append(fields, fe.Field)
				assert.NotEmpty(t, fe.Message)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestRequestValidator_Messages(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewRequestValidator(logger)

	err := v.ValidateStruct(exportParams{Format: "pdf"})
	var apiErr *apierrors.APIError
	require.True(t, errors.As(err, &apiErr))
	details := apiErr.Details.(apierrors.ValidationErrors)
	require.Len(t, details.Errors, 1)
	assert.Equal(t, "format must be one of: xlsx, csv", details.Errors[0].Message)
}

func TestContentTypeValidator(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	eh := apierrors.NewErrorHandler(logger, false)
	h := ContentTypeValidator(eh, "multipart/form-data")(http.HandlerFunc(okHandler))

	tests := []struct {
		name        string
		method      string
		contentType string
		wantStatus  int
	}{
		{"multipart with boundary", http.MethodPost, "multipart/form-data; boundary=abc", http.StatusOK},
		{"missing content type", http.MethodPost, "", http.StatusBadRequest},
		{"json body", http.MethodPost, "application/json", http.StatusUnsupportedMediaType},
		{"get skips check", http.MethodGet, "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/analysis", strings.NewReader(""))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
