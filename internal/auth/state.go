// Package auth – OAuth state handling.
//
// The state round-tripped through the authorization redirect is a short
// lived HS256 JWT carrying a random nonce. The same nonce is stored in a
// browser cookie, so a callback is only accepted when the signed state and
// the cookie agree: a forged or replayed state fails one of the two checks.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// stateTTL bounds how long a pending authorization redirect stays valid.
const stateTTL = 10 * time.Minute

// ErrBadState is returned when the state token is missing, malformed,
// expired, or does not match the browser's state cookie.
var ErrBadState = errors.New("invalid oauth state")

// stateClaims is the JWT payload for the OAuth state token.
type stateClaims struct {
	Nonce string `json:"nonce"`
	jwt.RegisteredClaims
}

// newState mints a nonce and the signed state token carrying it.
func newState(secret []byte, now time.Time) (nonce, token string, err error) {
	nonce = uuid.NewString()
	claims := stateClaims{
		Nonce: nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", "", err
	}
	return nonce, token, nil
}

// verifyState validates the signed state token and returns its nonce.
// Any parse, signature, or expiry failure maps to ErrBadState.
func verifyState(secret []byte, token string) (string, error) {
	var claims stateClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadState
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid || claims.Nonce == "" {
		return "", ErrBadState
	}
	return claims.Nonce, nil
}
