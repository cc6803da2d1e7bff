package chatapi

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSigner mints the credentials the chat backend accepts: per-user
// session tokens and the server token the REST client authenticates with.
// Both are HS256 JWTs over the chat API secret.
type TokenSigner struct {
	apiSecret []byte
}

// NewTokenSigner creates a signer for the given chat API secret.
func NewTokenSigner(apiSecret string) (*TokenSigner, error) {
	if apiSecret == "" {
		return nil, errors.New("chat API secret cannot be empty")
	}
	return &TokenSigner{apiSecret: []byte(apiSecret)}, nil
}

// UserToken generates a session token scoped to userID. A zero expiration
// yields a non-expiring token, the chat provider's convention for mobile
// clients that cache credentials.
func (s *TokenSigner) UserToken(userID string, expiration time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("user id cannot be empty")
	}

	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     jwt.NewNumericDate(time.Now()),
	}
	if expiration > 0 {
		claims["exp"] = jwt.NewNumericDate(time.Now().Add(expiration))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.apiSecret)
}

// ServerToken generates the elevated token used for server-to-server calls.
func (s *TokenSigner) ServerToken() (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"server": true,
		"iat":    jwt.NewNumericDate(time.Now()),
	})
	return token.SignedString(s.apiSecret)
}

// VerifyUserToken parses a user token and returns the user_id claim. Used in
// tests and diagnostics; the chat backend performs its own verification.
func (s *TokenSigner) VerifyUserToken(tokenString string) (string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.apiSecret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", errors.New("token has no user_id claim")
	}
	return userID, nil
}
