package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"gather/pkg/logger"
)

// Claims is the subset of ID token claims the API relies on.
type Claims struct {
	Subject  string   `json:"sub"`
	Audience audience `json:"aud"`
	Email    string   `json:"email"`
}

// audience accepts both the string and array forms of the aud claim.
type audience []string

func (a *audience) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		*a = audience{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*a = many
	return nil
}

func (a audience) contains(clientID string) bool {
	for _, v := range a {
		if v == clientID {
			return true
		}
	}
	return false
}

// TokenVerifier verifies a raw bearer token and returns its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*Claims, error)
}

type oidcVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewOIDCVerifier discovers the issuer and verifies tokens against its keys.
// The audience check is done by Authenticate so both aud forms are accepted.
func NewOIDCVerifier(ctx context.Context, issuerURL string) (TokenVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}
	return &oidcVerifier{verifier: provider.Verifier(&oidc.Config{SkipClientIDCheck: true})}, nil
}

func (v *oidcVerifier) Verify(ctx context.Context, rawToken string) (*Claims, error) {
	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	var claims Claims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to extract claims: %w", err)
	}
	return &claims, nil
}

// Authenticate attaches the token subject to the request context. Requests
// without a bearer token continue anonymously; handlers that need a user
// check UserIDFrom. A presented but invalid token is rejected.
func Authenticate(verifier TokenVerifier, clientID string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			rawToken, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || rawToken == "" {
				writeJSONError(w, http.StatusUnauthorized, `{"error":"Authorization header must be a bearer token","code":"UNAUTHORIZED"}`)
				return
			}

			claims, err := verifier.Verify(r.Context(), rawToken)
			if err != nil {
				log.Warn("Token verification failed",
					"request_id", RequestIDFrom(r.Context()),
					"error", err,
				)
				writeJSONError(w, http.StatusUnauthorized, `{"error":"Invalid token","code":"UNAUTHORIZED"}`)
				return
			}

			if clientID != "" && !claims.Audience.contains(clientID) {
				log.Warn("Token audience mismatch",
					"request_id", RequestIDFrom(r.Context()),
					"audience", []string(claims.Audience),
				)
				writeJSONError(w, http.StatusForbidden, `{"error":"Token not valid for this service","code":"FORBIDDEN"}`)
				return
			}

			if claims.Subject == "" {
				writeJSONError(w, http.StatusUnauthorized, `{"error":"Token has no subject","code":"UNAUTHORIZED"}`)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.Subject)))
		})
	}
}
