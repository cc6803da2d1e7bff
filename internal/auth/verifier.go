package auth

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any bearer credential that fails
// verification: missing, malformed, expired, wrong issuer or audience.
var ErrInvalidToken = errors.New("invalid identity token")

// Identity is the trusted subject derived from a verified bearer credential.
// It is ephemeral: one per verified request, never persisted here.
type Identity struct {
	SubjectID string
	Name      string
	Picture   string
}

// Verifier validates a raw bearer credential and produces a trusted identity.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}

const (
	defaultCertURL   = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"
	defaultKeyMaxAge = time.Hour
)

// idTokenClaims are the claims we read off a Firebase-style ID token.
type idTokenClaims struct {
	Name    string `json:"name"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

// FirebaseVerifier validates RS256 ID tokens against the identity provider's
// published X.509 certificate set. Certificates are cached and refreshed
// according to the Cache-Control max-age of the fetch response.
type FirebaseVerifier struct {
	projectID  string
	certURL    string
	httpClient *http.Client

	mu         sync.Mutex
	keys       map[string]*rsa.PublicKey
	keysExpiry time.Time
}

var _ Verifier = (*FirebaseVerifier)(nil)

// NewFirebaseVerifier creates a verifier for the given identity-provider
// project. The project id is checked against both issuer and audience.
func NewFirebaseVerifier(projectID string) *FirebaseVerifier {
	return &FirebaseVerifier{
		projectID:  projectID,
		certURL:    defaultCertURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Verify parses and validates the raw ID token, returning the trusted subject.
func (v *FirebaseVerifier) Verify(ctx context.Context, rawToken string) (*Identity, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, fmt.Errorf("%w: empty credential", ErrInvalidToken)
	}

	claims := &idTokenClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("token has no key id")
		}
		key, err := v.publicKey(ctx, kid)
		if err != nil {
			return nil, err
		}
		return key, nil
	},
		jwt.WithIssuer("https://securetoken.google.com/"+v.projectID),
		jwt.WithAudience(v.projectID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrInvalidToken)
	}

	return &Identity{
		SubjectID: claims.Subject,
		Name:      claims.Name,
		Picture:   claims.Picture,
	}, nil
}

// publicKey returns the RSA public key for the given key id, refreshing the
// cached certificate set when it has expired.
func (v *FirebaseVerifier) publicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.keys == nil || time.Now().After(v.keysExpiry) {
		if err := v.refreshKeysLocked(ctx); err != nil {
			return nil, fmt.Errorf("failed to fetch identity provider keys: %w", err)
		}
	}
	key, ok := v.keys[kid]
	if !ok {
		// Key rotation may have happened since the last fetch.
		if err := v.refreshKeysLocked(ctx); err != nil {
			return nil, fmt.Errorf("failed to refresh identity provider keys: %w", err)
		}
		if key, ok = v.keys[kid]; !ok {
			return nil, fmt.Errorf("no certificate for key id %q", kid)
		}
	}
	return key, nil
}

func (v *FirebaseVerifier) refreshKeysLocked(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.certURL, nil)
	if err != nil {
		return err
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("certificate endpoint returned status %d", resp.StatusCode)
	}

	var certs map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&certs); err != nil {
		return fmt.Errorf("failed to decode certificate set: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(certs))
	for kid, certPEM := range certs {
		key, err := parseRSAPublicKeyFromCert(certPEM)
		if err != nil {
			log.Printf("Warning: skipping unparseable certificate %q: %v", kid, err)
			continue
		}
		keys[kid] = key
	}
	if len(keys) == 0 {
		return errors.New("certificate set contained no usable keys")
	}

	v.keys = keys
	v.keysExpiry = time.Now().Add(cacheMaxAge(resp.Header.Get("Cache-Control")))
	return nil
}

func parseRSAPublicKeyFromCert(certPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(certPEM))
	if block == nil {
		return nil, errors.New("no PEM block found")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("certificate does not carry an RSA public key")
	}
	return key, nil
}

// cacheMaxAge extracts max-age from a Cache-Control header, falling back to
// a conservative default when absent or malformed.
func cacheMaxAge(header string) time.Duration {
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if after, ok := strings.CutPrefix(part, "max-age="); ok {
			if secs, err := strconv.Atoi(after); err == nil && secs > 0 {
				return time.Duration(secs) * time.Second
			}
		}
	}
	return defaultKeyMaxAge
}
