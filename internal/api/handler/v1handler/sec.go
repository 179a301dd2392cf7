package v1handler

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"openlark/internal/api/specs/v1specs"
	"openlark/internal/config"
	"openlark/pkg/serrors"
)

type contextKey string

// SubjectKey holds the subject of the verified admin token.
const SubjectKey contextKey = "subject"

// SubjectFromContext returns the subject stored by HandleBearerAuth, or "".
func SubjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(SubjectKey).(string)

	return s
}

type SecHandlerOptions struct {
	// Secret signs and verifies HS256 admin tokens.
	Secret string
}

func NewSecHandlerOptions(cfg *config.Config) *SecHandlerOptions {
	return &SecHandlerOptions{Secret: cfg.HTTP.AdminSecret}
}

type SecHandler struct {
	secret []byte
}

// Ensure SecHandler implements v1specs.SecurityHandler.
var _ v1specs.SecurityHandler = (*SecHandler)(nil)

func NewSecHandler(opts *SecHandlerOptions) (*SecHandler, error) {
	if opts == nil || opts.Secret == "" {
		return nil, serrors.With(serrors.ErrValidation, "admin secret is required")
	}

	return &SecHandler{secret: []byte(opts.Secret)}, nil
}

// HandleBearerAuth accepts HS256 tokens signed with the admin secret that
// carry a subject and have not expired.
func (s SecHandler) HandleBearerAuth(
	ctx context.Context,
	_ v1specs.OperationName,
	t v1specs.BearerAuth) (context.Context, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(t.Token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return ctx, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid admin token")
	}
	if claims.Subject == "" {
		return ctx, serrors.With(serrors.ErrUnauthorized, "admin token has no subject")
	}

	return context.WithValue(ctx, SubjectKey, claims.Subject), nil
}

// IssueToken signs an admin token for subject valid for ttl.
func IssueToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", serrors.With(serrors.ErrValidation, "admin secret is required")
	}
	if subject == "" {
		return "", serrors.With(serrors.ErrValidation, "subject is required")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", serrors.Wrap(serrors.ErrInternal, err, "could not sign admin token")
	}

	return signed, nil
}
