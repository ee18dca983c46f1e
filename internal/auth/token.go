// Package auth issues and verifies the JWT bearer tokens that identify
// API callers, and tracks revoked tokens in Redis so logout takes effect
// before expiry.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/apperr"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/models"
)

// Claims is the verified identity extracted from a bearer token.
type Claims struct {
	UserID    uuid.UUID
	Role      models.Role
	TokenID   string
	ExpiresAt time.Time
}

// TokenManager signs and verifies HS256 access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a token manager with the given signing secret
// and access-token lifetime.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed access token for the user. Each token carries a
// unique jti so it can be individually revoked.
func (tm *TokenManager) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(tm.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string and returns its claims.
// Expired, malformed, or foreign-signed tokens yield an
// Unauthenticated error.
func (tm *TokenManager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Unauthenticated("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.Unauthenticated("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, apperr.Unauthenticated("invalid token subject")
	}

	roleStr, _ := claims["role"].(string)
	role, ok := models.ParseRole(roleStr)
	if !ok {
		return nil, apperr.Unauthenticated("invalid token role")
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil, apperr.Unauthenticated("token has no id")
	}

	exp, _ := claims["exp"].(float64)

	return &Claims{
		UserID:    userID,
		Role:      role,
		TokenID:   jti,
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}
