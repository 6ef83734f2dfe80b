package models

import "waflens/internal/domain"

// Action is an operation a caller attempts on an owned resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
)

// OwnedResource is anything tagged with the subject id of its creator.
type OwnedResource interface {
	ResourceType() string
	ResourceID() string
	OwnerID() string
}

// Decision is the outcome of an access check. It is computed per request
// and never stored.
type Decision struct {
	Allowed bool
	Reason  domain.DenyReason
}

// Allow returns a permitting decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a refusing decision with the given reason.
func Deny(reason domain.DenyReason) Decision {
	return Decision{Reason: reason}
}
