package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testProject = "test-project"

type testKeySet struct {
	key      *rsa.PrivateKey
	certPEM  string
	verifier *FirebaseVerifier
}

// newTestKeySet generates an RSA keypair, self-signs a certificate for it,
// serves the certificate set the way the identity provider does, and returns
// a verifier pointed at that server.
func newTestKeySet(t *testing.T) *testKeySet {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "securetoken-test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("failed to create certificate: %v", err)
	}
	certPEM := string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		json.NewEncoder(w).Encode(map[string]string{"kid-1": certPEM})
	}))
	t.Cleanup(srv.Close)

	verifier := NewFirebaseVerifier(testProject)
	verifier.certURL = srv.URL
	verifier.httpClient = srv.Client()

	return &testKeySet{key: key, certPEM: certPEM, verifier: verifier}
}

type tokenOverrides struct {
	issuer   string
	audience string
	expires  time.Time
	subject  string
	kid      string
}

func (ks *testKeySet) mintToken(t *testing.T, o tokenOverrides) string {
	t.Helper()

	if o.issuer == "" {
		o.issuer = "https://securetoken.google.com/" + testProject
	}
	if o.audience == "" {
		o.audience = testProject
	}
	if o.expires.IsZero() {
		o.expires = time.Now().Add(time.Hour)
	}
	if o.subject == "" {
		o.subject = "firebase-uid-1"
	}
	if o.kid == "" {
		o.kid = "kid-1"
	}

	claims := idTokenClaims{
		Name:    "Alice Example",
		Picture: "https://img.example/alice.png",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    o.issuer,
			Audience:  jwt.ClaimStrings{o.audience},
			Subject:   o.subject,
			ExpiresAt: jwt.NewNumericDate(o.expires),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = o.kid

	signed, err := token.SignedString(ks.key)
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func TestVerifyValidToken(t *testing.T) {
	ks := newTestKeySet(t)
	raw := ks.mintToken(t, tokenOverrides{})

	identity, err := ks.verifier.Verify(t.Context(), raw)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if identity.SubjectID != "firebase-uid-1" {
		t.Errorf("SubjectID = %q, want firebase-uid-1", identity.SubjectID)
	}
	if identity.Name != "Alice Example" {
		t.Errorf("Name = %q", identity.Name)
	}
	if identity.Picture != "https://img.example/alice.png" {
		t.Errorf("Picture = %q", identity.Picture)
	}
}

func TestVerifyRejections(t *testing.T) {
	ks := newTestKeySet(t)

	tests := []struct {
		name string
		raw  func(t *testing.T) string
	}{
		{
			name: "empty credential",
			raw:  func(t *testing.T) string { return "" },
		},
		{
			name: "garbage credential",
			raw:  func(t *testing.T) string { return "not-a-jwt" },
		},
		{
			name: "expired token",
			raw: func(t *testing.T) string {
				return ks.mintToken(t, tokenOverrides{expires: time.Now().Add(-time.Hour)})
			},
		},
		{
			name: "wrong issuer",
			raw: func(t *testing.T) string {
				return ks.mintToken(t, tokenOverrides{issuer: "https://securetoken.google.com/other-project"})
			},
		},
		{
			name: "wrong audience",
			raw: func(t *testing.T) string {
				return ks.mintToken(t, tokenOverrides{audience: "other-project"})
			},
		},
		{
			name: "unknown key id",
			raw: func(t *testing.T) string {
				return ks.mintToken(t, tokenOverrides{kid: "kid-rotated-away"})
			},
		},
		{
			name: "symmetric alg confusion",
			raw: func(t *testing.T) string {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
					"iss": "https://securetoken.google.com/" + testProject,
					"aud": testProject,
					"sub": "firebase-uid-1",
					"exp": time.Now().Add(time.Hour).Unix(),
				})
				token.Header["kid"] = "kid-1"
				signed, err := token.SignedString([]byte(ks.certPEM))
				if err != nil {
					t.Fatalf("failed to sign: %v", err)
				}
				return signed
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ks.verifier.Verify(t.Context(), tt.raw(t))
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestVerifyCachesCertificates(t *testing.T) {
	fetches := 0
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("failed to create certificate: %v", err)
	}
	certPEM := string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches++
		w.Header().Set("Cache-Control", "public, max-age=3600")
		json.NewEncoder(w).Encode(map[string]string{"kid-1": certPEM})
	}))
	t.Cleanup(srv.Close)

	verifier := NewFirebaseVerifier(testProject)
	verifier.certURL = srv.URL
	verifier.httpClient = srv.Client()

	ks := &testKeySet{key: key, certPEM: certPEM, verifier: verifier}
	for i := 0; i < 3; i++ {
		if _, err := verifier.Verify(t.Context(), ks.mintToken(t, tokenOverrides{})); err != nil {
			t.Fatalf("Verify() attempt %d error = %v", i+1, err)
		}
	}
	if fetches != 1 {
		t.Errorf("certificate endpoint fetched %d times, want 1 within max-age", fetches)
	}
}

func TestCacheMaxAge(t *testing.T) {
	tests := []struct {
		header string
		want   time.Duration
	}{
		{"public, max-age=21600, must-revalidate", 21600 * time.Second},
		{"max-age=600", 600 * time.Second},
		{"no-store", defaultKeyMaxAge},
		{"", defaultKeyMaxAge},
		{"max-age=garbage", defaultKeyMaxAge},
	}
	for _, tt := range tests {
		if got := cacheMaxAge(tt.header); got != tt.want {
			t.Errorf("cacheMaxAge(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}
