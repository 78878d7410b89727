package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid   = errors.New("security: token invalid")
	ErrSecretRequired = errors.New("security: signing secret required")
)

// JWTCodec issues and verifies HS256 bearer tokens carrying the user id as
// the subject.
type JWTCodec struct {
	Secret []byte
	Issuer string
}

func (c JWTCodec) Issue(userID string, ttl time.Duration) (string, error) {
	if len(c.Secret) == 0 {
		return "", ErrSecretRequired
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    c.issuer(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.Secret)
}

func (c JWTCodec) Verify(raw string) (string, error) {
	if len(c.Secret) == 0 {
		return "", ErrSecretRequired
	}
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return c.Secret, nil
	}, jwt.WithIssuer(c.issuer()), jwt.WithExpirationRequired())
	if err != nil {
		return "", ErrTokenInvalid
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}

func (c JWTCodec) issuer() string {
	if c.Issuer != "" {
		return c.Issuer
	}
	return "adboard"
}
