package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/nDmitry/rssposter/internal/app"
)

// Probe endpoints are logged at debug level only
var quietPaths = map[string]bool{
	"/healthz": true,
	"/metrics": true,
}

// Logger wraps an http.Handler with response logging
func Logger(next http.Handler) http.Handler {
	logger := app.Logger()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response wrapper to capture the status code
		lrw := &loggingResponseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK, // Default to 200 OK
		}

		next.ServeHTTP(lrw, r)

		level := slog.LevelInfo
		if quietPaths[r.URL.Path] && lrw.statusCode < http.StatusBadRequest {
			level = slog.LevelDebug
		}

		logger.Log(r.Context(), level, "HTTP response",
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"remoteAddr", r.RemoteAddr,
			"status", lrw.statusCode,
			"durationMs", time.Since(start).Milliseconds(),
			"bytes", lrw.bytesWritten,
		)
	})
}

// loggingResponseWriter is a wrapper for http.ResponseWriter that captures status code and response size
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

// WriteHeader captures the status code
func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// Write captures the response size
func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	n, err := lrw.ResponseWriter.Write(b)
	lrw.bytesWritten += int64(n)
	return n, err
}

// Unwrap returns the original ResponseWriter
func (lrw *loggingResponseWriter) Unwrap() http.ResponseWriter {
	return lrw.ResponseWriter
}
