// Package token signs and parses the bearer tokens issued by this
// service.
package token

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/baajur/users/internal/errs"
)

// Claims is the token payload. It carries only the canonical email;
// expiry and revocation, if any, are enforced by collaborators
// checking a revoke-before timestamp on the user record.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Codec signs claims with an HMAC secret loaded once at startup.
type Codec struct {
	secret []byte
}

func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret}
}

// Encode mints a signed token for the canonical email. A signing
// failure is terminal for the request.
func (c *Codec) Encode(email string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Email: email})
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", errs.Token(err)
	}
	return signed, nil
}

// Decode parses a token and returns the email it carries.
func (c *Codec) Decode(tokenStr string) (string, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil {
		return "", errs.Token(err)
	}
	return claims.Email, nil
}
