package api

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strings"

	"eventchat-backend/internal/auth"
	"eventchat-backend/pkg/httputil"
)

// --- Identity Middleware ---

// IdentityMiddleware verifies the bearer credential from the Authorization
// header when one is present and a verifier is configured, injecting the
// resulting identity into the request context. A present-but-invalid
// credential is rejected; an absent credential passes through, leaving the
// handlers to fall back to explicit user ids (degraded-trust mode).
//
// When verifier is nil, identity verification is disabled for the deployment
// and the middleware is a pass-through.
func IdentityMiddleware(verifier auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				log.Printf("Identity Middleware: malformed Authorization header")
				httputil.RespondError(w, http.StatusUnauthorized, "Malformed Authorization header (Expected: Bearer <token>)")
				return
			}

			identity, err := verifier.Verify(r.Context(), parts[1])
			if err != nil {
				log.Printf("Identity Middleware: credential verification failed: %v", err)
				httputil.RespondError(w, http.StatusUnauthorized, "Invalid or expired credential")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		})
	}
}

// --- Shared Secret Middleware ---

// SharedSecretMiddleware requires the X-Api-Secret header to match the
// configured shared secret on every request. With an empty secret the check
// is disabled.
func SharedSecretMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}
			provided := r.Header.Get("X-Api-Secret")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				httputil.RespondError(w, http.StatusUnauthorized, "Invalid API secret")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
