package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"todoService/internal/logger"
	"todoService/internal/middleware"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestRequestID тестирует генерацию и проброс X-Request-ID
func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
	}{
		{name: "success - generated", incoming: ""},
		{name: "success - echoed", incoming: "req-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = middleware.GetRequestID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			if tt.incoming != "" {
				req.Header.Set(middleware.RequestIDHeader, tt.incoming)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, seen, w.Header().Get(middleware.RequestIDHeader))
			if tt.incoming != "" {
				assert.Equal(t, tt.incoming, seen)
			} else {
				_, err := uuid.Parse(seen)
				assert.NoError(t, err)
			}
		})
	}
}

// TestLogging уровень записи HTTP_OUT зависит от класса статуса
func TestLogging(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		expectedLevel zapcore.Level
	}{
		{"success - 200", http.StatusOK, zapcore.InfoLevel},
		{"success - 204", http.StatusNoContent, zapcore.InfoLevel},
		{"client error - 404", http.StatusNotFound, zapcore.WarnLevel},
		{"server error - 500", http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			logger.Set(zap.New(core))
			t.Cleanup(func() { logger.Set(nil) })

			handler := middleware.RequestID(middleware.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("ok"))
			})))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil))
			assert.Equal(t, tt.status, w.Code)

			out := logs.FilterMessage("HTTP_OUT: Завершение запроса").All()
			require.Len(t, out, 1)
			assert.Equal(t, tt.expectedLevel, out[0].Level)

			fields := out[0].ContextMap()
			assert.Equal(t, int64(tt.status), fields["status"])
			assert.Equal(t, int64(2), fields["bytes_written"])
			assert.NotEmpty(t, fields["request_id"])

			assert.Equal(t, 1, logs.FilterMessage("HTTP_IN: Начало запроса").Len())
		})
	}
}

func TestLogging_ImplicitStatus(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(nil) })

	handler := middleware.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{}"))
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	out := logs.FilterMessage("HTTP_OUT: Завершение запроса").All()
	require.Len(t, out, 1)
	assert.Equal(t, int64(http.StatusOK), out[0].ContextMap()["status"])
}
