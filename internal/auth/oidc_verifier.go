package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"waflens/internal/domain"
	"waflens/internal/domain/models"
	"waflens/internal/telemetry"

	"github.com/coreos/go-oidc/v3/oidc"
)

// OIDCVerifier implements TokenVerifier through OpenID Connect discovery.
// Keys are located and cached by go-oidc from the issuer's discovery document.
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
	logger   *slog.Logger
}

// NewOIDCVerifier discovers the issuer and builds an ID token verifier bound
// to the audience.
func NewOIDCVerifier(ctx context.Context, issuer, audience string, logger *slog.Logger) (*OIDCVerifier, error) {
	if issuer == "" || audience == "" {
		return nil, errors.New("oidc verifier requires issuer and audience")
	}

	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init oidc provider: %w", err)
	}

	logger.Info("OIDC verifier initialized", "issuer", issuer, "audience", audience)

	return &OIDCVerifier{
		verifier: provider.Verifier(&oidc.Config{
			ClientID:             audience,
			SupportedSigningAlgs: allowedAlgorithms,
		}),
		logger: logger,
	}, nil
}

// VerifyToken validates the ID token and decodes its claims.
func (v *OIDCVerifier) VerifyToken(ctx context.Context, rawToken string) (*models.Claims, error) {
	ctx, span := telemetry.StartSpan(ctx, "auth.VerifyToken")
	claims, err := v.verify(ctx, rawToken)
	span.End(err)
	return claims, err
}

func (v *OIDCVerifier) verify(ctx context.Context, rawToken string) (*models.Claims, error) {
	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		reason := classifyOIDCError(err)
		v.logger.Debug("token rejected", "reason", reason, "error", err.Error())
		return nil, domain.NewAuthError(reason, err)
	}

	var claims models.Claims
	if err := idToken.Claims(&claims); err != nil {
		return nil, domain.NewAuthError(domain.ReasonMalformed, err)
	}

	return &claims, nil
}

// classifyOIDCError maps go-oidc failures to the credential failure taxonomy.
// go-oidc only exposes a typed error for expiry; the rest are matched on text.
func classifyOIDCError(err error) domain.AuthReason {
	var expired *oidc.TokenExpiredError
	if errors.As(err, &expired) {
		return domain.ReasonExpired
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "malformed"):
		return domain.ReasonMalformed
	case strings.Contains(msg, "fetching keys"), strings.Contains(msg, "get keys"):
		return domain.ReasonProviderUnavailable
	default:
		return domain.ReasonInvalidSignature
	}
}

// Close is a no-op; go-oidc holds no background resources.
func (v *OIDCVerifier) Close() error {
	return nil
}

var _ TokenVerifier = (*OIDCVerifier)(nil)
