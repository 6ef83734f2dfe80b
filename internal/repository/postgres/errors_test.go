package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"waflens/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsStoreUnavailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"too many connections", &pgconn.PgError{Code: "53300"}, true},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, true},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, false},
		{"check violation", &pgconn.PgError{Code: "23514"}, false},
		{"deadline", fmt.Errorf("acquire: %w", context.DeadlineExceeded), true},
		{"network", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, true},
		{"no rows", pgx.ErrNoRows, false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsStoreUnavailable(tt.err))
		})
	}
}

func TestWrapStoreError(t *testing.T) {
	t.Run("outage is upstream unavailable", func(t *testing.T) {
		cause := &pgconn.PgError{Code: "08006"}
		err := wrapStoreError("get assessment", cause)
		assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
		assert.ErrorAs(t, err, &cause)
		assert.Equal(t, domain.KindUpstreamUnavailable, domain.KindOf(err))
	})

	t.Run("statement bug stays internal", func(t *testing.T) {
		err := wrapStoreError("get assessment", &pgconn.PgError{Code: "42P01"})
		assert.NotErrorIs(t, err, domain.ErrUpstreamUnavailable)
		assert.Equal(t, domain.KindInternal, domain.KindOf(err))
		assert.Contains(t, err.Error(), "get assessment")
	})
}
