package session

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/greenhub/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-our-key"))
	require.NoError(t, err)
	return s
}

func TestTokenInfo(t *testing.T) {
	exp := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	iat := exp.Add(-24 * time.Hour)

	tests := []struct {
		name    string
		claims  jwt.MapClaims
		subject string
	}{
		{"sub", jwt.MapClaims{"sub": "u1", "id": "ignored", "exp": exp.Unix(), "iat": iat.Unix()}, "u1"},
		{"id fallback", jwt.MapClaims{"id": "u2", "exp": exp.Unix(), "iat": iat.Unix()}, "u2"},
		{"userId fallback", jwt.MapClaims{"userId": "u3", "exp": exp.Unix(), "iat": iat.Unix()}, "u3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := TokenInfo(sign(t, tt.claims))
			require.NoError(t, err)
			assert.Equal(t, tt.subject, c.Subject)
			assert.True(t, exp.Equal(c.ExpiresAt))
			assert.True(t, iat.Equal(c.IssuedAt))
		})
	}
}

func TestTokenInfo_Opaque(t *testing.T) {
	_, err := TokenInfo("t1")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestCheckToken(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	_, err := CheckToken(sign(t, jwt.MapClaims{"exp": now.Add(time.Minute).Unix()}), now)
	assert.NoError(t, err)

	c, err := CheckToken(sign(t, jwt.MapClaims{"exp": now.Unix()}), now)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
	assert.True(t, c.Expired(now))

	c, err = CheckToken(sign(t, jwt.MapClaims{"sub": "u1"}), now)
	assert.NoError(t, err)
	assert.False(t, c.Expired(now), "no exp means no expiry")
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "bootstrapping", PhaseBootstrapping.String())
	assert.Equal(t, "unauthenticated", PhaseUnauthenticated.String())
	assert.Equal(t, "authenticated", PhaseAuthenticated.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
