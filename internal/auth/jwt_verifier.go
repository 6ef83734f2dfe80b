package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"waflens/internal/domain"
	"waflens/internal/domain/models"
	"waflens/internal/telemetry"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// allowedAlgorithms prevents algorithm confusion attacks.
var allowedAlgorithms = []string{"RS256", "ES256"}

// JWTVerifier implements TokenVerifier using a JWKS endpoint.
type JWTVerifier struct {
	keyfunc jwt.Keyfunc
	parser  *jwt.Parser
	cancel  context.CancelFunc
	logger  *slog.Logger
}

// JWTVerifierConfig binds tokens to one issuer and audience.
type JWTVerifierConfig struct {
	JWKSURL  string
	Issuer   string
	Audience string
}

// NewJWTVerifier creates a verifier that fetches public keys from the JWKS endpoint.
// keyfunc caches the key set and refreshes it in the background until Close.
func NewJWTVerifier(ctx context.Context, cfg JWTVerifierConfig, logger *slog.Logger) (*JWTVerifier, error) {
	if cfg.JWKSURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx, cancel := context.WithCancel(ctx)
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{cfg.JWKSURL})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized",
		"jwks_url", cfg.JWKSURL,
		"issuer", cfg.Issuer,
		"audience", cfg.Audience,
	)

	v := newJWTVerifier(jwks.Keyfunc, cfg, logger)
	v.cancel = cancel
	return v, nil
}

func newJWTVerifier(kf jwt.Keyfunc, cfg JWTVerifierConfig, logger *slog.Logger) *JWTVerifier {
	return &JWTVerifier{
		keyfunc: kf,
		parser: jwt.NewParser(
			jwt.WithValidMethods(allowedAlgorithms),
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithAudience(cfg.Audience),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
		logger: logger,
	}
}

// VerifyToken validates a JWT and returns its claims.
func (v *JWTVerifier) VerifyToken(ctx context.Context, rawToken string) (*models.Claims, error) {
	_, span := telemetry.StartSpan(ctx, "auth.VerifyToken")
	claims, err := v.verify(rawToken)
	span.End(err)
	return claims, err
}

func (v *JWTVerifier) verify(rawToken string) (*models.Claims, error) {
	token, err := v.parser.ParseWithClaims(rawToken, &models.Claims{}, v.keyfunc)
	if err != nil {
		reason := classifyJWTError(err)
		v.logger.Debug("token rejected", "reason", reason, "error", err.Error())
		return nil, domain.NewAuthError(reason, err)
	}

	if !token.Valid {
		return nil, domain.NewAuthError(domain.ReasonInvalidSignature, errors.New("token is not valid"))
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok {
		return nil, domain.NewAuthError(domain.ReasonMalformed, errors.New("unexpected claims type"))
	}

	return claims, nil
}

// classifyJWTError maps jwt parse failures to the credential failure taxonomy.
// Issuer and audience mismatches count as invalid signatures: the token was
// not issued for this service.
func classifyJWTError(err error) domain.AuthReason {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ReasonExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return domain.ReasonMalformed
	case errors.Is(err, jwkset.ErrKeyNotFound):
		// The key set answered but has no key with this kid: a forged or
		// foreign token, not an outage.
		return domain.ReasonInvalidSignature
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		// Keyfunc failed: the key set could not supply a key for this token
		return domain.ReasonProviderUnavailable
	default:
		return domain.ReasonInvalidSignature
	}
}

// Close stops the background JWKS refresh.
func (v *JWTVerifier) Close() error {
	if v.cancel != nil {
		v.cancel()
	}
	v.logger.Info("JWT verifier closed")
	return nil
}

var _ TokenVerifier = (*JWTVerifier)(nil)
