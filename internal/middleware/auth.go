package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"waflens/internal/domain"
	"waflens/internal/domain/services"
	"waflens/internal/httputil"
)

// ErrorResponder writes an error through the central failure table.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, err error)

// PublicRoute reports whether a request may be served without a credential.
type PublicRoute func(r *http.Request) bool

// PublicRoutes allows CORS pre-flights, the service probes and the pillar
// listing. Pillar controls stay protected.
func PublicRoutes(apiPrefix string) PublicRoute {
	pillars := apiPrefix + "/pillars"
	return func(r *http.Request) bool {
		if r.Method == http.MethodOptions {
			return true
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			return false
		}

		path := strings.TrimSuffix(r.URL.Path, "/")
		switch path {
		case "", "/health", pillars:
			return true
		}

		// {prefix}/pillars/{id} but not {prefix}/pillars/{id}/controls
		if rest, ok := strings.CutPrefix(path, pillars+"/"); ok {
			return rest != "" && !strings.Contains(rest, "/")
		}
		return false
	}
}

// Auth verifies the bearer credential of every non-public request and puts
// the resolved identity in the request context. Failures are answered
// through respond, which maps them to 401.
func Auth(resolver services.IdentityResolver, public PublicRoute, respond ErrorResponder, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if public(r) {
				next.ServeHTTP(w, r)
				return
			}

			token, err := bearerToken(r)
			if err != nil {
				logAuthFailure(logger, r, err)
				respond(w, r, err)
				return
			}

			identity, err := resolver.Authenticate(r.Context(), token)
			if err != nil {
				logAuthFailure(logger, r, err)
				respond(w, r, err)
				return
			}

			next.ServeHTTP(w, httputil.WithIdentity(r, identity))
		})
	}
}

// bearerToken extracts the credential from "Authorization: Bearer <token>".
// The scheme is case-insensitive.
func bearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", domain.NewAuthError(domain.ReasonMissingCredential, errors.New("missing authorization header"))
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", domain.NewAuthError(domain.ReasonMalformed, errors.New("authorization header must use the Bearer scheme"))
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.NewAuthError(domain.ReasonMissingCredential, errors.New("empty bearer token"))
	}
	return token, nil
}

func logAuthFailure(logger *slog.Logger, r *http.Request, err error) {
	reason, _ := domain.AuthReasonOf(err)
	logger.WarnContext(r.Context(), "unauthorized request",
		"reason", reason,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", httputil.GetRequestID(r),
	)
}
