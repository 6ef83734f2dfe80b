package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"waflens/internal/domain"
	"waflens/internal/domain/models"
	"waflens/internal/httputil"
)

// caller returns the identity put in context by the auth middleware. A
// protected route reached without one is a wiring bug, but it is still
// answered as 401 rather than served anonymously.
func caller(r *http.Request) (*models.Identity, error) {
	identity := httputil.GetIdentity(r)
	if identity == nil || identity.SubjectID == "" {
		return nil, domain.NewAuthError(domain.ReasonMissingSubject, errors.New("no identity in request context"))
	}
	return identity, nil
}

// pathID reads the {id} wildcard of the matched route.
func pathID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		return "", fmt.Errorf("%w: id is required", domain.ErrValidation)
	}
	return id, nil
}
