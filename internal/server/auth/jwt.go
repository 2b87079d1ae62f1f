// Package auth issues and verifies the stateless session tokens that
// bind a request to a username. Tokens are HS256 JWTs with the username
// as the only custom claim; nothing is stored server-side.
package auth

import (
	"time"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered claims plus the authenticated username.
type Claims struct {
	jwt.RegisteredClaims
	Username string
}

// GenerateToken mints a signed token for username, valid for
// validityDuration.
func GenerateToken(username string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Username: username,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUsernameFromToken verifies the signature and returns the embedded
// username. Any parse or signature failure maps to
// common.ErrInvalidToken; downstream authorization trusts this identity
// unconditionally.
func GetUsernameFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Username == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Username, nil
}
