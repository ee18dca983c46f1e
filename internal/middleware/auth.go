package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/auth"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/models"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/store"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// UserKey is the context key for the authenticated user.
	UserKey contextKey = "user"
	// ClaimsKey is the context key for the verified token claims.
	ClaimsKey contextKey = "claims"
)

// Authenticator verifies bearer tokens and resolves them to users. Tokens
// must be valid, not revoked, and belong to an active account.
type Authenticator struct {
	tokens  *auth.TokenManager
	revoked *auth.RevocationList
	users   *store.UserStore
}

// NewAuthenticator wires the token verifier, revocation list, and user
// lookup together.
func NewAuthenticator(tokens *auth.TokenManager, revoked *auth.RevocationList, users *store.UserStore) *Authenticator {
	return &Authenticator{tokens: tokens, revoked: revoked, users: users}
}

// resolve extracts and verifies the bearer token, returning the user and
// claims, or nil when the request carries no usable credentials.
func (a *Authenticator) resolve(r *http.Request) (*models.User, *auth.Claims) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, nil
	}
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, nil
	}

	claims, err := a.tokens.Verify(tokenString)
	if err != nil {
		return nil, nil
	}

	revoked, err := a.revoked.IsRevoked(r.Context(), claims.TokenID)
	if err != nil || revoked {
		return nil, nil
	}

	user, err := a.users.FindByID(claims.UserID)
	if err != nil || user == nil || !user.IsActive {
		return nil, nil
	}
	return user, claims
}

// Authenticate rejects requests without a valid bearer token. The
// authenticated user and claims are stored in the request context.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, claims := a.resolve(r)
		if user == nil {
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user, claims)))
	})
}

// OptionalAuthenticate loads the user when a valid token is present but
// never blocks the request. Public endpoints use it to widen visibility
// for staff while staying open to anonymous readers.
func (a *Authenticator) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, claims := a.resolve(r); user != nil {
			r = r.WithContext(withUser(r.Context(), user, claims))
		}
		next.ServeHTTP(w, r)
	})
}

func withUser(ctx context.Context, user *models.User, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, UserKey, user)
	return context.WithValue(ctx, ClaimsKey, claims)
}

// UserFromCtx extracts the authenticated user from the request context.
// Returns nil if the request is anonymous.
func UserFromCtx(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserKey).(*models.User)
	return user
}

// ClaimsFromCtx extracts the verified token claims from the request
// context. Returns nil if the request is anonymous.
func ClaimsFromCtx(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(ClaimsKey).(*auth.Claims)
	return claims
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
}
