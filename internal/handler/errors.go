package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"waflens/internal/domain"
	"waflens/internal/httputil"
)

// kindStatus is the only place a failure kind becomes an HTTP status.
var kindStatus = map[domain.Kind]int{
	domain.KindInvalidInput:        http.StatusUnprocessableEntity,
	domain.KindUnauthorized:        http.StatusUnauthorized,
	domain.KindForbidden:           http.StatusForbidden,
	domain.KindNotFound:            http.StatusNotFound,
	domain.KindUpstreamUnavailable: http.StatusBadGateway,
	domain.KindInternal:            http.StatusInternalServerError,
}

// Client-facing details. Only validation failures echo the error text.
var kindDetail = map[domain.Kind]string{
	domain.KindUnauthorized:        "a valid bearer token is required",
	domain.KindForbidden:           "you do not have access to this resource",
	domain.KindNotFound:            "resource not found",
	domain.KindUpstreamUnavailable: "the AI service is unavailable, try again later",
	domain.KindInternal:            "internal server error",
}

// StatusFor returns the HTTP status of a failure kind.
func StatusFor(kind domain.Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorResponder returns the function that answers every failed request,
// handlers and the auth middleware alike.
func ErrorResponder(logger *slog.Logger) func(http.ResponseWriter, *http.Request, error) {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		handleError(w, r, logger, err)
	}
}

// handleError converts domain errors to problem+json responses
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	kind := domain.KindOf(err)
	status := StatusFor(kind)
	requestID := httputil.GetRequestID(r)

	if info := httputil.GetRequestInfo(r); info != nil {
		info.FailureKind = string(kind)
	}

	switch kind {
	case domain.KindInternal:
		logger.ErrorContext(r.Context(), "unhandled error",
			"error", err,
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"resource_id", r.PathValue("id"),
			"subject_id", httputil.GetSubjectID(r),
		)
	case domain.KindUpstreamUnavailable:
		logger.WarnContext(r.Context(), "upstream unavailable",
			"error", err,
			"request_id", requestID,
			"path", r.URL.Path,
		)
	}

	detail := kindDetail[kind]
	if kind == domain.KindInvalidInput {
		detail = validationDetail(err)
	}

	problem := httputil.NewProblem(status, detail)
	problem.Kind = string(kind)
	problem.RequestID = requestID
	httputil.WriteProblem(w, problem)
}

// validationDetail drops the sentinel prefix so clients see only the
// field-level message.
func validationDetail(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, domain.ErrValidation.Error()+": "); i >= 0 {
		return msg[i+len(domain.ErrValidation.Error())+2:]
	}
	return msg
}
