package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims are the fields the client reads out of a provider ID token.
// The token is decoded without signature verification: the client is not a
// trust boundary, the backend verifies every token it receives.
type tokenClaims struct {
	UID       string
	Email     string
	Name      string
	ExpiresAt time.Time
}

func parseToken(idToken string) (*tokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return nil, fmt.Errorf("parse id token: %w", err)
	}

	out := &tokenClaims{}
	if v, ok := claims["user_id"].(string); ok && v != "" {
		out.UID = v
	} else if sub, err := claims.GetSubject(); err == nil {
		out.UID = sub
	}
	if v, ok := claims["email"].(string); ok {
		out.Email = v
	}
	if v, ok := claims["name"].(string); ok {
		out.Name = v
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
