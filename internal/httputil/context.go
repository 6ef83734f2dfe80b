package httputil

import (
	"context"
	"net/http"

	"waflens/internal/domain/models"

	"github.com/go-chi/chi/v5/middleware"
)

// Context key type to avoid collisions
type contextKey string

const (
	identityKey contextKey = "identity"
)

// WithIdentity adds the authenticated caller to the request context
func WithIdentity(r *http.Request, identity *models.Identity) *http.Request {
	ctx := context.WithValue(r.Context(), identityKey, identity)
	return r.WithContext(ctx)
}

// GetIdentity retrieves the caller from context, returns nil if not found
func GetIdentity(r *http.Request) *models.Identity {
	identity, _ := r.Context().Value(identityKey).(*models.Identity)
	return identity
}

// GetSubjectID returns the caller's subject id, or "" for anonymous requests
func GetSubjectID(r *http.Request) string {
	if identity := GetIdentity(r); identity != nil {
		return identity.SubjectID
	}
	return ""
}

// GetRequestID returns the id assigned by the request id middleware
func GetRequestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}

const requestInfoKey contextKey = "requestInfo"

// RequestInfo is filled in while a request is served and read back by the
// access log after the handler returns.
type RequestInfo struct {
	Route       string // matched mux pattern, "" when nothing matched
	FailureKind string // failure kind of an error response, "" on success
}

// WithRequestInfo attaches a fresh RequestInfo to the context
func WithRequestInfo(r *http.Request) (*http.Request, *RequestInfo) {
	info := &RequestInfo{}
	return r.WithContext(context.WithValue(r.Context(), requestInfoKey, info)), info
}

// GetRequestInfo returns the RequestInfo attached to the request, or nil
func GetRequestInfo(r *http.Request) *RequestInfo {
	info, _ := r.Context().Value(requestInfoKey).(*RequestInfo)
	return info
}
