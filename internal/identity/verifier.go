// Package identity turns a bearer credential into the id of the calling principal.
package identity

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

var ErrUnauthenticated = errors.New("unauthenticated")

type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: strings.TrimSpace(issuer)}
}

// PrincipalID verifies the token carried in an Authorization header value and returns its subject.
// Any failure, including a missing header, is reported as ErrUnauthenticated.
func (v *Verifier) PrincipalID(authorization string) (string, error) {
	raw := strings.TrimSpace(authorization)
	if len(raw) < len("Bearer ") || !strings.EqualFold(raw[:len("Bearer ")], "Bearer ") {
		return "", ErrUnauthenticated
	}
	raw = strings.TrimSpace(raw[len("Bearer "):])
	if raw == "" {
		return "", ErrUnauthenticated
	}

	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrUnauthenticated
	}
	if v.issuer != "" && !claims.VerifyIssuer(v.issuer, true) {
		return "", ErrUnauthenticated
	}

	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return "", ErrUnauthenticated
	}
	return sub, nil
}
