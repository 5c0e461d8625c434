package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growlab/internal/dataprocessing"
	"growlab/internal/files"
	"growlab/internal/services"
)

func TestErrorToProblemMapping(t *testing.T) {
	h := NewErrorHandler(slog.Default())
	req := httptest.NewRequest(http.MethodGet, "/api/data/growth", nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "missing dataset file",
			err:        &dataprocessing.FileNotFoundError{School: "동산고", Name: "동산고_환경데이터.csv"},
			wantStatus: http.StatusNotFound,
			wantType:   TypeDataMissing,
		},
		{
			name:       "unresolvable file",
			err:        fmt.Errorf("resolve: %w", files.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantType:   TypeDataMissing,
		},
		{
			name:       "malformed timestamp",
			err:        &dataprocessing.TimestampError{File: "x.csv", Row: 3, Value: "yesterday"},
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeDataInvalid,
		},
		{
			name:       "empty workbook",
			err:        dataprocessing.ErrEmptyWorkbook,
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeDataInvalid,
		},
		{
			name:       "nothing to aggregate",
			err:        dataprocessing.ErrNoData,
			wantStatus: http.StatusNotFound,
			wantType:   TypeDataEmpty,
		},
		{
			name:       "unknown metric",
			err:        fmt.Errorf("%w: %q", services.ErrUnknownMetric, "root_depth"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "no usable data",
			err:        services.ErrNoUsableData,
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeDataEmpty,
		},
		{
			name:       "timeout",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "unexpected",
			err:        fmt.Errorf("disk on fire"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := h.ErrorToProblem(tt.err, req)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/api/data/growth", problem.Instance)
		})
	}
}

func TestHandleErrorWritesProblemJSON(t *testing.T) {
	h := NewErrorHandler(slog.Default())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/data/growth/optimal-ec", nil)
	h.HandleError(rec, req, dataprocessing.ErrNoData)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeDataEmpty, body["type"])
	assert.Equal(t, float64(http.StatusNotFound), body["status"])
	assert.Contains(t, body, "trace_id")
}

func TestProblemDetailsMarshalFlattensExtensions(t *testing.T) {
	problem := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", "bad metric", "/x").
		WithExtension("error_code", "VALIDATION_FAILED")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "VALIDATION_FAILED", body["error_code"])
	assert.Equal(t, "bad metric", body["detail"])
}

func TestAPIErrorToProblem(t *testing.T) {
	h := NewErrorHandler(slog.Default())
	req := httptest.NewRequest(http.MethodGet, "/api/data/download/everything.zip", nil)

	problem := h.ErrorToProblem(ErrValidation("kind", "unsupported download kind"), req)
	assert.Equal(t, http.StatusBadRequest, problem.Status)
	assert.Equal(t, TypeValidation, problem.Type)
	assert.Equal(t, "VALIDATION_FAILED", problem.Extensions["error_code"])
}
