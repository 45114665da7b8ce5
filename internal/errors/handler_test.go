package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studentlens/internal/shared/testutil"
)

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestNewErrorHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	handler := NewErrorHandler(logger, true)
	assert.True(t, handler.includeStack)
	assert.NotNil(t, handler.logger)

	assert.NotNil(t, NewErrorHandler(nil, false).logger)
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantTitle  string
	}{
		{
			name:       "invalid name",
			err:        InvalidName("A1"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeInvalidName,
			wantTitle:  "Invalid Name",
		},
		{
			name:       "unsupported format",
			err:        UnsupportedFormat("data.txt"),
			wantStatus: http.StatusUnsupportedMediaType,
			wantType:   TypeUnsupportedFormat,
			wantTitle:  "Unsupported File Format",
		},
		{
			name:       "malformed dataset",
			err:        MalformedDataset("a.csv", fmt.Errorf("record on line 3: wrong number of fields")),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeMalformedDataset,
			wantTitle:  "Malformed Dataset",
		},
		{
			name:       "missing column",
			err:        MissingColumn("Age"),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeMissingColumn,
			wantTitle:  "Missing Column",
		},
		{
			name:       "invalid column",
			err:        InvalidColumn("Gender", "is not numeric"),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeInvalidColumn,
			wantTitle:  "Invalid Column",
		},
		{
			name:       "empty statistics input",
			err:        fmt.Errorf("statistics: %w", EmptyStatisticsInput("Final_Score")),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeEmptyStatisticsInput,
			wantTitle:  "Empty Statistics Input",
		},
		{
			name:       "session not found",
			err:        fmt.Errorf("%w: abc", ErrSessionNotFound),
			wantStatus: http.StatusNotFound,
			wantType:   TypeSessionNotFound,
			wantTitle:  "Session Not Found",
		},
		{
			name:       "no dataset",
			err:        ErrNoDataset,
			wantStatus: http.StatusConflict,
			wantType:   TypeSessionConflict,
			wantTitle:  "No Dataset",
		},
		{
			name:       "not cleaned",
			err:        ErrNotCleaned,
			wantStatus: http.StatusConflict,
			wantType:   TypeSessionConflict,
			wantTitle:  "Dataset Not Cleaned",
		},
		{
			name:       "unknown chart",
			err:        fmt.Errorf("%w: pie", ErrUnknownChart),
			wantStatus: http.StatusNotFound,
			wantType:   TypeUnknownChart,
			wantTitle:  "Unknown Chart",
		},
		{
			name:       "request validation",
			err:        ErrValidation("column", "is required"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			wantTitle:  "Bad Request",
		},
		{
			name:       "context deadline",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
			wantTitle:  "Request Timeout",
		},
		{
			name:       "unknown error",
			err:        fmt.Errorf("disk on fire"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
			wantTitle:  "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logHandler := testutil.NewTestLogger(t)
			handler := NewErrorHandler(logger, false)

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/session/statistics", nil)

			handler.HandleError(w, r, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeProblem(t, w)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, tt.wantTitle, body["title"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "/api/session/statistics", body["instance"])
			assert.NotContains(t, body, "stack")

			assert.True(t, logHandler.ContainsMessage("request failed"))
		})
	}
}

func TestErrorHandler_HandleError_Nil(t *testing.T) {
	logger, logHandler := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	w := httptest.NewRecorder()
	handler.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, 0, w.Body.Len())
	assert.Equal(t, 0, logHandler.Count())
}

func TestErrorHandler_ContextExtensions(t *testing.T) {
	handler := NewErrorHandler(nil, false)
	r := httptest.NewRequest(http.MethodPost, "/api/session/upload", nil)

	problem := handler.ErrorToProblem(MissingColumn("Parent_Education_Level"), r)

	assert.Equal(t, "Parent_Education_Level", problem.Extensions["column"])
}

func TestErrorHandler_LogLevels(t *testing.T) {
	logger, logHandler := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	handler.HandleError(httptest.NewRecorder(), r, ErrNotCleaned)
	handler.HandleError(httptest.NewRecorder(), r, fmt.Errorf("boom"))

	assert.Len(t, logHandler.GetRecordsByLevel(slog.LevelWarn), 1)
	assert.Len(t, logHandler.GetRecordsByLevel(slog.LevelError), 1)
}

func TestErrorHandler_IncludeStack(t *testing.T) {
	handler := NewErrorHandler(nil, true)

	w := httptest.NewRecorder()
	handler.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), fmt.Errorf("boom"))

	body := decodeProblem(t, w)
	assert.Contains(t, body, "stack")
}

func TestErrorHandler_TraceID(t *testing.T) {
	handler := NewErrorHandler(nil, false)

	r := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	r = r.WithContext(context.WithValue(r.Context(), middleware.RequestIDKey, "req-42"))
	w := httptest.NewRecorder()

	handler.HandleError(w, r, ErrSessionNotFound)

	assert.Equal(t, "req-42", decodeProblem(t, w)["trace_id"])
}

func TestErrorHandler_HandlePanic(t *testing.T) {
	logger, logHandler := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, true)

	w := httptest.NewRecorder()
	handler.HandlePanic(w, httptest.NewRequest(http.MethodGet, "/api/session/clean", nil), "nil map")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeProblem(t, w)
	assert.Equal(t, TypeInternal, body["type"])
	assert.Equal(t, "nil map", body["panic"])
	testutil.AssertLogContains(t, logHandler, slog.LevelError, "panic recovered")
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	handler := NewErrorHandler(nil, false)

	w := httptest.NewRecorder()
	handler.NotFound(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, TypeNotFound, decodeProblem(t, w)["type"])

	w = httptest.NewRecorder()
	handler.MethodNotAllowed(w, httptest.NewRequest(http.MethodDelete, "/api/session/clean", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, decodeProblem(t, w)["detail"], "DELETE")
}

func TestErrorHandlerConcurrency(t *testing.T) {
	handler := NewErrorHandler(nil, false)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			handler.HandleError(w, httptest.NewRequest(http.MethodGet, "/", nil), ErrNoDataset)
			assert.Equal(t, http.StatusConflict, w.Code)
		}()
	}
	wg.Wait()
}
