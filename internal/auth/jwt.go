package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken is returned when a token cannot be decoded into claims.
// Malformed input is an expected condition, not a panic.
var ErrMalformedToken = errors.New("malformed token")

// TokenClaims is the slice of the JWT payload the client cares about.
// Signature verification is the server's duty; the client only reads claims.
type TokenClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// DecodeToken extracts claims from a compact JWT without verifying its
// signature. Tokens missing an exp claim are treated as malformed: the
// expiration monitor has nothing to act on without one.
func DecodeToken(token string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("%w: missing exp claim", ErrMalformedToken)
	}

	tc := &TokenClaims{ExpiresAt: exp.Time}
	// The backend issues integer user ids as sub.
	switch sub := claims["sub"].(type) {
	case string:
		tc.Subject = sub
	case float64:
		tc.Subject = strconv.FormatFloat(sub, 'f', -1, 64)
	}
	return tc, nil
}

// IsTokenExpired reports whether the token is undecodable or past its
// expiry. A token expiring exactly now counts as expired.
func IsTokenExpired(token string, now time.Time) bool {
	claims, err := DecodeToken(token)
	if err != nil {
		return true
	}
	return !now.Before(claims.ExpiresAt)
}

// TimeUntilExpiration returns the remaining token lifetime, floored at zero.
func TimeUntilExpiration(token string, now time.Time) time.Duration {
	claims, err := DecodeToken(token)
	if err != nil {
		return 0
	}
	remaining := claims.ExpiresAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
