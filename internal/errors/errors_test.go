package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	err := New(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format")
	assert.Equal(t, "Invalid request format", err.Error())
}

func TestSpreadsheetErrors(t *testing.T) {
	tests := []struct {
		name        string
		err         *APIError
		wantStatus  int
		wantCode    string
		wantDetails map[string]interface{}
	}{
		{
			name:       "unreadable",
			err:        SpreadsheetUnreadable("cannot read sales.xlsx: not a valid xlsx workbook"),
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeSpreadsheetUnreadable,
		},
		{
			name:        "schema with missing columns only",
			err:         SpreadsheetSchema("missing required column(s): Coffee", []string{"Coffee"}, nil),
			wantStatus:  http.StatusUnprocessableEntity,
			wantCode:    CodeSpreadsheetSchema,
			wantDetails: map[string]interface{}{"missing_columns": []string{"Coffee"}},
		},
		{
			name:       "schema with duplicates",
			err:        SpreadsheetSchema("duplicate column(s): Pies", nil, []string{"Pies"}),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   CodeSpreadsheetSchema,
			wantDetails: map[string]interface{}{
				"duplicate_columns": []string{"Pies"},
			},
		},
		{
			name:       "value",
			err:        SpreadsheetValue("bad cell", "Cakes", 9, "n/a"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   CodeSpreadsheetValue,
			wantDetails: map[string]interface{}{
				"column": "Cakes", "row": 9, "value": "n/a",
			},
		},
		{
			name:       "payload too large",
			err:        PayloadTooLarge(1024),
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   CodePayloadTooLarge,
			wantDetails: map[string]interface{}{
				"limit_bytes": int64(1024),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
			if tt.wantDetails != nil {
				assert.Equal(t, tt.wantDetails, tt.err.Details)
			}
		})
	}
}

func TestUnsupportedFile(t *testing.T) {
	err := UnsupportedFile("notes.txt", []string{".xlsx", ".csv"})

	assert.Equal(t, http.StatusUnsupportedMediaType, err.StatusCode)
	assert.Contains(t, err.Message, "notes.txt")
	details := err.Details.(map[string]interface{})
	assert.Equal(t, []string{".xlsx", ".csv"}, details["supported"])
}

func TestNewValidationErrors(t *testing.T) {
	err := NewValidationErrors([]ValidationError{
		{Field: "header_row", Message: "must be 0 or greater"},
		{Field: "format", Message: "must be one of xlsx csv"},
	})

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, CodeValidationFailed, err.ErrorCode)
	require.IsType(t, ValidationErrors{}, err.Details)
	assert.Len(t, err.Details.(ValidationErrors).Errors, 2)

	single := ErrValidation("rows", "must be at most 500")
	assert.Equal(t, "rows", single.Details.(ValidationErrors).Errors[0].Field)
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, ErrRateLimitExceeded)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, CodeRateLimitExceeded, resp.Error.ErrorCode)
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusUnprocessableEntity, TypeSpreadsheetSchema, "Unprocessable Entity",
		"missing required column(s): Coffee", "/api/analysis").
		WithExtension("missing_columns", []string{"Coffee"}).
		WithExtension("status", 999)

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, TypeSpreadsheetSchema, got["type"])
	assert.Equal(t, float64(http.StatusUnprocessableEntity), got["status"], "extensions must not overwrite standard members")
	assert.Equal(t, "/api/analysis", got["instance"])
	assert.Equal(t, []interface{}{"Coffee"}, got["missing_columns"])
}

func TestProblemDetails_OmitsEmptyMembers(t *testing.T) {
	pd := &ProblemDetails{Type: TypeInternal, Title: "Internal Server Error", Status: 500}

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.NotContains(t, got, "detail")
	assert.NotContains(t, got, "instance")

	pd.WithExtension("trace_id", "abc")
	assert.Equal(t, "abc", pd.Extensions["trace_id"])
}
