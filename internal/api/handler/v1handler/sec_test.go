package v1handler_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"openlark/internal/api/handler/v1handler"
	"openlark/internal/api/specs/v1specs"
	"openlark/pkg/serrors"
)

const testSecret = "admin-secret"

func newTestSecHandler(t *testing.T) *v1handler.SecHandler {
	t.Helper()

	s, err := v1handler.NewSecHandler(&v1handler.SecHandlerOptions{Secret: testSecret})
	require.NoError(t, err)

	return s
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()

	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)

	return signed
}

func TestNewSecHandler_RequiresSecret(t *testing.T) {
	_, err := v1handler.NewSecHandler(&v1handler.SecHandlerOptions{})
	require.ErrorIs(t, err, serrors.ErrValidation)

	_, err = v1handler.NewSecHandler(nil)
	require.ErrorIs(t, err, serrors.ErrValidation)
}

func TestSecHandler_HandleBearerAuth(t *testing.T) {
	s := newTestSecHandler(t)

	token, err := v1handler.IssueToken(testSecret, "ops", time.Hour)
	require.NoError(t, err)

	ctx, err := s.HandleBearerAuth(context.Background(), v1specs.ListDeliveriesOperation, v1specs.BearerAuth{Token: token})
	require.NoError(t, err)
	require.Equal(t, "ops", v1handler.SubjectFromContext(ctx))
}

func TestSecHandler_HandleBearerAuth_Rejects(t *testing.T) {
	s := newTestSecHandler(t)
	now := time.Now()
	valid := jwt.RegisteredClaims{
		Subject:   "ops",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	wrongSecret, err := v1handler.IssueToken("other-secret", "ops", time.Hour)
	require.NoError(t, err)
	expired, err := v1handler.IssueToken(testSecret, "ops", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-jwt"},
		{"wrong secret", wrongSecret},
		{"expired", expired},
		{"no expiry", sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: "ops"})},
		{"no subject", sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		})},
		{"other hmac", sign(t, jwt.SigningMethodHS512, []byte(testSecret), valid)},
		{"none alg", sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, err := s.HandleBearerAuth(context.Background(), v1specs.GetDeliveryOperation, v1specs.BearerAuth{Token: tt.token})
			require.ErrorIs(t, err, serrors.ErrUnauthorized)
			require.Empty(t, v1handler.SubjectFromContext(ctx))

			res := v1handler.New(v1handler.Deps{}).NewError(ctx, err)
			require.Equal(t, 401, res.StatusCode)
		})
	}
}

func TestIssueToken_Validation(t *testing.T) {
	_, err := v1handler.IssueToken("", "ops", time.Hour)
	require.ErrorIs(t, err, serrors.ErrValidation)

	_, err = v1handler.IssueToken(testSecret, "", time.Hour)
	require.ErrorIs(t, err, serrors.ErrValidation)
}
