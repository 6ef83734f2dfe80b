package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"waflens/internal/domain"
	"waflens/internal/httputil"
)

// Recovery middleware recovers from panics and returns a 500 error
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					requestID := httputil.GetRequestID(r)
					logger.ErrorContext(r.Context(), "panic recovered",
						"error", err,
						"path", r.URL.Path,
						"method", r.Method,
						"request_id", requestID,
						"subject_id", httputil.GetSubjectID(r),
						"stack", string(debug.Stack()),
					)

					if info := httputil.GetRequestInfo(r); info != nil {
						info.FailureKind = string(domain.KindInternal)
					}
					problem := httputil.NewProblem(http.StatusInternalServerError, "internal server error")
					problem.Kind = string(domain.KindInternal)
					problem.RequestID = requestID
					httputil.WriteProblem(w, problem)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
