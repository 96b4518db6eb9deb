package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tableside/entity"
)

// TokenUsable checks whether a customer access token is still worth sending.
// Claims are read unverified — signature verification belongs to the auth
// provider, we only avoid burning a request on an already-expired token.
func TokenUsable(tokenStr string) bool {
	if tokenStr == "" {
		return false
	}
	var claims jwt.RegisteredClaims
	_, _, err := jwt.NewParser().ParseUnverified(tokenStr, &claims)
	if err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.After(time.Now())
}

// customerClaims mirrors the auth provider's token payload.
type customerClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// CustomerFromToken reads the customer view out of the token, again without
// verifying — it only feeds the greeting and the session display.
func CustomerFromToken(tokenStr string) *entity.Customer {
	if !TokenUsable(tokenStr) {
		return nil
	}
	var claims customerClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, &claims); err != nil {
		return nil
	}
	return &entity.Customer{ID: claims.Subject, Email: claims.Email, Name: claims.Name}
}
