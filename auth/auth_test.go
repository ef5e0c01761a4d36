package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shyptr/serlo-gateway/auth"
	"github.com/shyptr/serlo-gateway/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func serviceToken(t *testing.T, service auth.Service, secret string) string {
	return sign(t, secret, jwt.RegisteredClaims{
		Issuer:    string(service),
		Audience:  jwt.ClaimStrings{auth.Audience},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
}

func userToken(t *testing.T, subject string) string {
	return sign(t, "user-secret", jwt.RegisteredClaims{
		Issuer:    string(auth.ServiceSerlo),
		Subject:   subject,
		Audience:  jwt.ClaimStrings{auth.Audience},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
}

func newAuthenticator() *auth.Authenticator {
	return auth.NewAuthenticator(map[auth.Service]string{
		auth.ServiceSerlo:            "serlo-secret",
		auth.ServiceSerloCacheWorker: "cache-secret",
	}, "user-secret")
}

func TestAuthenticate(t *testing.T) {
	authenticator := newAuthenticator()

	t.Run("anonymous", func(t *testing.T) {
		identity, err := authenticator.Authenticate("")
		require.NoError(t, err)
		assert.Nil(t, identity)
	})

	t.Run("service", func(t *testing.T) {
		identity, err := authenticator.Authenticate("Serlo Service=" + serviceToken(t, auth.ServiceSerloCacheWorker, "cache-secret"))
		require.NoError(t, err)
		assert.Equal(t, &auth.Identity{Service: auth.ServiceSerloCacheWorker}, identity)
	})

	t.Run("service and user", func(t *testing.T) {
		header := "Serlo Service=" + serviceToken(t, auth.ServiceSerlo, "serlo-secret") + ";User=" + userToken(t, "42")
		identity, err := authenticator.Authenticate(header)
		require.NoError(t, err)
		require.NotNil(t, identity.UserID)
		assert.Equal(t, 42, *identity.UserID)
		assert.Equal(t, auth.ServiceSerlo, identity.Service)
	})

	failures := map[string]func(t *testing.T) string{
		"wrong scheme": func(t *testing.T) string { return "Bearer abc" },
		"missing service token": func(t *testing.T) string {
			return "Serlo User=" + userToken(t, "42")
		},
		"wrong secret": func(t *testing.T) string {
			return "Serlo Service=" + serviceToken(t, auth.ServiceSerlo, "cache-secret")
		},
		"unknown service": func(t *testing.T) string {
			return "Serlo Service=" + serviceToken(t, auth.ServiceSerloCloudflareWorker, "serlo-secret")
		},
		"expired": func(t *testing.T) string {
			return "Serlo Service=" + sign(t, "serlo-secret", jwt.RegisteredClaims{
				Issuer:    string(auth.ServiceSerlo),
				Audience:  jwt.ClaimStrings{auth.Audience},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			})
		},
		"wrong audience": func(t *testing.T) string {
			return "Serlo Service=" + sign(t, "serlo-secret", jwt.RegisteredClaims{
				Issuer:   string(auth.ServiceSerlo),
				Audience: jwt.ClaimStrings{"example.org"},
			})
		},
		"invalid user": func(t *testing.T) string {
			return "Serlo Service=" + serviceToken(t, auth.ServiceSerlo, "serlo-secret") + ";User=" + userToken(t, "nobody")
		},
	}
	for name, header := range failures {
		t.Run(name, func(t *testing.T) {
			identity, err := authenticator.Authenticate(header(t))
			assert.Nil(t, identity)
			assert.True(t, errors.Is(err, errors.CodeUnauthenticated), "%v", err)
		})
	}
}

func TestPolicy_Authorize(t *testing.T) {
	policy := auth.DefaultPolicy()
	user := 1
	tests := []struct {
		name       string
		identity   *auth.Identity
		permission auth.Permission
		code       errors.Code
	}{
		{"anonymous", nil, auth.PermissionRemoveUUID, errors.CodeUnauthenticated},
		{"allowed service", &auth.Identity{Service: auth.ServiceSerloCacheWorker}, auth.PermissionRemoveUUID, ""},
		{"other service", &auth.Identity{Service: auth.ServiceSerloCloudflareWorker}, auth.PermissionRemoveUUID, errors.CodeForbidden},
		{"only serlo.org sets notifications", &auth.Identity{Service: auth.ServiceSerloCacheWorker}, auth.PermissionSetNotifications, errors.CodeForbidden},
		{"serlo.org sets notifications", &auth.Identity{Service: auth.ServiceSerlo}, auth.PermissionSetNotifications, ""},
		{"state without user", &auth.Identity{Service: auth.ServiceSerlo}, auth.PermissionSetNotificationState, errors.CodeUnauthenticated},
		{"state with user", &auth.Identity{Service: auth.ServiceSerlo, UserID: &user}, auth.PermissionSetNotificationState, ""},
		{"unknown permission", &auth.Identity{Service: auth.ServiceSerlo}, auth.Permission("everything"), errors.CodeForbidden},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := policy.Authorize(test.identity, test.permission)
			if test.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, test.code, errors.CodeOf(err))
		})
	}
}

func TestContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, auth.FromContext(ctx))
	identity := &auth.Identity{Service: auth.ServiceSerlo}
	assert.Same(t, identity, auth.FromContext(auth.WithIdentity(ctx, identity)))
}
