package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"

	"waflens/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// IsPgNoRowsError checks if error is a "no rows" error
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsPgCheckViolation checks if error is a CHECK constraint violation
func IsPgCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23514 = check_violation
		return pgErr.Code == "23514"
	}
	return false
}

// unavailableClasses are SQLSTATE classes that mean the database could not
// serve the request, as opposed to a bug in the statement.
var unavailableClasses = map[string]bool{
	"08": true, // connection exception
	"40": true, // transaction rollback (serialization, deadlock)
	"53": true, // insufficient resources
	"57": true, // operator intervention (shutdown, statement timeout)
	"58": true, // system error
}

// IsStoreUnavailable reports whether err means the database was unreachable,
// overloaded or timed out.
func IsStoreUnavailable(err error) bool {
	if err == nil {
		return false
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) || pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return len(pgErr.Code) >= 2 && unavailableClasses[pgErr.Code[:2]]
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// wrapStoreError annotates err with op and tags database outages with
// domain.ErrUpstreamUnavailable so they surface as 502 rather than 500.
func wrapStoreError(op string, err error) error {
	if IsStoreUnavailable(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrUpstreamUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
