package chatapi

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewTokenSignerRequiresSecret(t *testing.T) {
	if _, err := NewTokenSigner(""); err == nil {
		t.Error("NewTokenSigner(\"\") should fail")
	}
}

func TestUserTokenRoundTrip(t *testing.T) {
	signer, err := NewTokenSigner("secret")
	if err != nil {
		t.Fatalf("NewTokenSigner() error = %v", err)
	}

	token, err := signer.UserToken("u1", time.Hour)
	if err != nil {
		t.Fatalf("UserToken() error = %v", err)
	}

	userID, err := signer.VerifyUserToken(token)
	if err != nil {
		t.Fatalf("VerifyUserToken() error = %v", err)
	}
	if userID != "u1" {
		t.Errorf("user_id = %q, want u1", userID)
	}
}

func TestUserTokenWithoutExpiry(t *testing.T) {
	signer, _ := NewTokenSigner("secret")

	token, err := signer.UserToken("u1", 0)
	if err != nil {
		t.Fatalf("UserToken() error = %v", err)
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	}); err != nil {
		t.Fatalf("parse error = %v", err)
	}
	if _, hasExp := claims["exp"]; hasExp {
		t.Error("zero expiration must yield a token without an exp claim")
	}
}

func TestUserTokenRequiresUserID(t *testing.T) {
	signer, _ := NewTokenSigner("secret")
	if _, err := signer.UserToken("", 0); err == nil {
		t.Error("UserToken(\"\") should fail")
	}
}

func TestVerifyUserTokenRejectsWrongSecret(t *testing.T) {
	signer, _ := NewTokenSigner("secret")
	other, _ := NewTokenSigner("other-secret")

	token, err := signer.UserToken("u1", 0)
	if err != nil {
		t.Fatalf("UserToken() error = %v", err)
	}
	if _, err := other.VerifyUserToken(token); err == nil {
		t.Error("token signed with a different secret must not verify")
	}
}

func TestServerTokenCarriesServerClaim(t *testing.T) {
	signer, _ := NewTokenSigner("secret")

	token, err := signer.ServerToken()
	if err != nil {
		t.Fatalf("ServerToken() error = %v", err)
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	}); err != nil {
		t.Fatalf("parse error = %v", err)
	}
	if server, _ := claims["server"].(bool); !server {
		t.Error("server token must carry server=true claim")
	}
}
