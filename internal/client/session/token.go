package session

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/greenhub/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the parts of a bearer token the client displays. They are read
// without verifying the signature; the backend stays the only judge.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry at or before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// TokenInfo decodes the claims of a JWT bearer token. Opaque tokens yield
// common.ErrInvalidToken.
func TokenInfo(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	var c Claims
	if sub, err := mc.GetSubject(); err == nil && sub != "" {
		c.Subject = sub
	} else {
		for _, k := range []string{"id", "_id", "userId"} {
			if s, ok := mc[k].(string); ok && s != "" {
				c.Subject = s
				break
			}
		}
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	return c, nil
}

// CheckToken is TokenInfo plus an expiry check against now.
func CheckToken(token string, now time.Time) (Claims, error) {
	c, err := TokenInfo(token)
	if err != nil {
		return c, err
	}
	if c.Expired(now) {
		return c, common.ErrTokenExpired
	}
	return c, nil
}
