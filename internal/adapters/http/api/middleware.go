package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/pulso/pkg/logger"
	"github.com/okian/pulso/pkg/metrics"
)

// Error classes reported on the error metrics.
const (
	errorClassServer     = "server_error"
	errorClassNotReady   = "not_ready"
	errorClassNotFound   = "not_found"
	errorClassMethod     = "method_not_allowed"
	errorClassClient     = "client_error"
	severityHigh         = "high"
	severityMedium       = "medium"
	severityLow          = "low"
	microsPerMillisecond = 1000.0
)

// MetricsMiddleware records request counts and latency per endpoint, plus the
// error metrics for 4xx and 5xx responses.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		durationMs := float64(time.Since(start).Microseconds()) / microsPerMillisecond
		status := strconv.Itoa(wrapped.statusCode)
		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, durationMs)

		if wrapped.statusCode < http.StatusBadRequest {
			return
		}
		class := errorClass(wrapped.statusCode)
		metrics.RecordErrorByEndpoint(endpoint, r.Method, class)
		metrics.RecordErrorByType(class, errorSeverity(wrapped.statusCode))
		logger.Named("http").Debug(r.Context(), "request failed",
			logger.String("endpoint", endpoint),
			logger.String("method", r.Method),
			logger.Int("status", wrapped.statusCode),
			logger.Float64("durationMs", durationMs),
		)
	}
}

func errorClass(statusCode int) string {
	switch {
	case statusCode == http.StatusServiceUnavailable:
		return errorClassNotReady
	case statusCode >= http.StatusInternalServerError:
		return errorClassServer
	case statusCode == http.StatusNotFound:
		return errorClassNotFound
	case statusCode == http.StatusMethodNotAllowed:
		return errorClassMethod
	default:
		return errorClassClient
	}
}

func errorSeverity(statusCode int) string {
	switch {
	case statusCode == http.StatusServiceUnavailable:
		return severityMedium
	case statusCode >= http.StatusInternalServerError:
		return severityHigh
	default:
		return severityLow
	}
}

// responseWriter captures the status code written by the handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}
