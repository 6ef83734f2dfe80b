package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"waflens/internal/httputil"
	"waflens/internal/telemetry"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// MaxRequestIDLength is the maximum accepted length of a client X-Request-ID.
const MaxRequestIDLength = 128

// validRequestID matches alphanumeric characters, dashes, underscores, and periods.
var validRequestID = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// RequestID assigns every request an id and echoes it as X-Request-ID.
// A client-supplied id is kept only when it is short and plain; otherwise
// chi generates one.
func RequestID(next http.Handler) http.Handler {
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(chimw.RequestIDHeader, chimw.GetReqID(r.Context()))
		next.ServeHTTP(w, r)
	})
	withID := chimw.RequestID(echo)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(chimw.RequestIDHeader); id != "" && !isValidRequestID(id) {
			r.Header.Del(chimw.RequestIDHeader)
		}
		withID.ServeHTTP(w, r)
	})
}

func isValidRequestID(id string) bool {
	return len(id) <= MaxRequestIDLength && validRequestID.MatchString(id)
}

// Logger writes one access log line per request and, when metrics is not
// nil, records latency and failure kind. Successful health probes are not
// logged.
func Logger(logger *slog.Logger, metrics *telemetry.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			r, info := httputil.WithRequestInfo(r)
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			route := info.Route
			if route == "" {
				route = "unmatched"
			}

			if metrics != nil {
				metrics.ObserveRequest(r.Method, route, strconv.Itoa(wrapped.statusCode), duration.Seconds())
				if info.FailureKind != "" {
					metrics.IncFailure(info.FailureKind)
				}
			}

			if r.URL.Path == "/health" && wrapped.statusCode < http.StatusInternalServerError {
				return
			}

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"route", route,
				"status", wrapped.statusCode,
				"duration_ms", duration.Milliseconds(),
				"request_id", httputil.GetRequestID(r),
			}
			if subject := httputil.GetSubjectID(r); subject != "" {
				attrs = append(attrs, "subject_id", subject)
			}
			if info.FailureKind != "" {
				attrs = append(attrs, "kind", info.FailureKind)
			}
			logger.InfoContext(r.Context(), "http request", attrs...)
		})
	}
}

// CaptureRoute records the pattern the mux matched. It must wrap the mux
// directly: ServeMux sets Request.Pattern on the request it is handed.
func CaptureRoute(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, r)
		if info := httputil.GetRequestInfo(r); info != nil {
			info.Route = r.Pattern
		}
	})
}

// Timeout puts a deadline on the request context. The handler keeps the
// response writer, so a call that runs out of time fails through the normal
// error path instead of a canned reply.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}
