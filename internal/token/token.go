// Package token signs and verifies the opaque bearer tokens handed to
// clients. It knows nothing about revocation; that is a membership test
// against the user's stored token list, owned by the service layer.
package token

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// PurposeAuth tags tokens issued for request authentication.
const PurposeAuth = "auth"

// ErrInvalidToken is returned when a token's signature or payload does not
// check out.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload carried by every issued token.
type Claims struct {
	UserID  string `json:"user_id"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Codec issues and verifies tokens under a single server-held secret.
type Codec struct {
	secret []byte
}

// New creates a Codec signing with the given secret.
func New(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Issue produces a signed token carrying the user id and purpose. Tokens do
// not expire; they stay valid until revoked from the user's token list.
func (c *Codec) Issue(userID, purpose string) (string, error) {
	claims := Claims{
		UserID:  userID,
		Purpose: purpose,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and returns the decoded claims. It does not
// consult the credential store.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
