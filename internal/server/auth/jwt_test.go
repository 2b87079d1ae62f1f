package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

var secret = []byte("test-secret")

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("alice", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	username, err := GetUsernameFromToken(token, secret)
	if err != nil {
		t.Fatalf("GetUsernameFromToken error: %v", err)
	}
	if username != "alice" {
		t.Fatalf("want alice, got %q", username)
	}
}

func TestWrongSecret(t *testing.T) {
	token, err := GenerateToken("alice", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = GetUsernameFromToken(token, []byte("other-secret"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want common.ErrInvalidToken, got %v", err)
	}
}

func TestMalformedToken(t *testing.T) {
	_, err := GetUsernameFromToken("not.a.jwt", secret)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want common.ErrInvalidToken, got %v", err)
	}
}

func TestExpiredToken(t *testing.T) {
	token, err := GenerateToken("alice", secret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = GetUsernameFromToken(token, secret)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want common.ErrInvalidToken, got %v", err)
	}
}

func TestTokenWithoutUsername(t *testing.T) {
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := raw.SignedString(secret)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	_, err = GetUsernameFromToken(token, secret)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want common.ErrInvalidToken, got %v", err)
	}
}

func TestUnexpectedSigningMethod(t *testing.T) {
	raw := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Username: "alice"})
	token, err := raw.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	_, err = GetUsernameFromToken(token, secret)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want common.ErrInvalidToken, got %v", err)
	}
}
