package domain

import (
	"errors"
	"fmt"
)

// Kind is the failure category surfaced at the HTTP boundary.
// Every error returned by a service maps to exactly one Kind.
type Kind string

const (
	KindUnauthorized        Kind = "Unauthorized"
	KindForbidden           Kind = "Forbidden"
	KindNotFound            Kind = "NotFound"
	KindInvalidInput        Kind = "InvalidInput"
	KindUpstreamUnavailable Kind = "UpstreamUnavailable"
	KindInternal            Kind = "Internal"
)

// Sentinel errors - use with errors.Is()
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation failed")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// KindOf classifies err. Anything not wrapping a sentinel is KindInternal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrValidation):
		return KindInvalidInput
	case errors.Is(err, ErrUpstreamUnavailable):
		return KindUpstreamUnavailable
	default:
		return KindInternal
	}
}

// AuthReason explains why a credential was rejected.
type AuthReason string

const (
	ReasonInvalidSignature    AuthReason = "InvalidSignature"
	ReasonExpired             AuthReason = "Expired"
	ReasonMalformed           AuthReason = "Malformed"
	ReasonProviderUnavailable AuthReason = "ProviderUnavailable"
	ReasonMissingSubject      AuthReason = "MissingSubject"
	ReasonMissingCredential   AuthReason = "MissingCredential"
)

// AuthError is a rejected credential. It always matches ErrUnauthorized,
// including ProviderUnavailable: clients get 401 for every reason.
type AuthError struct {
	Reason AuthReason
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unauthorized (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("unauthorized (%s)", e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Is allows errors.Is() to match against ErrUnauthorized
func (e *AuthError) Is(target error) bool {
	return target == ErrUnauthorized
}

// NewAuthError builds an AuthError for reason, wrapping the underlying cause.
func NewAuthError(reason AuthReason, cause error) *AuthError {
	return &AuthError{Reason: reason, Err: cause}
}

// AuthReasonOf returns the AuthReason carried by err, if any.
func AuthReasonOf(err error) (AuthReason, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Reason, true
	}
	return "", false
}

// DenyReason explains why the access guard refused an action.
type DenyReason string

const (
	DenyNotOwner DenyReason = "NotOwner"
)

// AccessError is a denied access decision. It matches ErrForbidden.
type AccessError struct {
	Reason       DenyReason
	ResourceType string
	ResourceID   string
	Action       string
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("%s %s on %s %s denied", e.Reason, e.Action, e.ResourceType, e.ResourceID)
}

// Is allows errors.Is() to match against ErrForbidden
func (e *AccessError) Is(target error) bool {
	return target == ErrForbidden
}
