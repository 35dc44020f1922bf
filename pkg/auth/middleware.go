package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserIDKey is the context key for the authenticated identity: the
	// JWT user ID, or the client name for an API key
	UserIDKey contextKey = "user_id"
	// UserRoleKey is the context key for the JWT role claim
	UserRoleKey contextKey = "user_role"
	// AuthMethodKey is the context key for the authentication method,
	// "jwt" or "apikey"
	AuthMethodKey contextKey = "auth_method"
)

// AuthMiddleware authenticates requests with a JWT bearer token or a
// configured API key. Either manager may be nil, disabling that method.
type AuthMiddleware struct {
	jwtManager    *JWTManager
	apiKeyManager *APIKeyManager
	optional      bool // unauthenticated requests pass through when true
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(jwtManager *JWTManager, apiKeyManager *APIKeyManager, optional bool) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:    jwtManager,
		apiKeyManager: apiKeyManager,
		optional:      optional,
	}
}

// Handler returns the HTTP middleware handler
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, ok := bearerToken(r); ok && m.jwtManager != nil {
			claims, err := m.jwtManager.Verify(token)
			if err == nil {
				ctx := r.Context()
				ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
				ctx = context.WithValue(ctx, UserRoleKey, claims.Role)
				ctx = context.WithValue(ctx, AuthMethodKey, "jwt")
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			if !m.optional {
				unauthorized(w, "Invalid or expired token")
				return
			}
		}

		if key := r.Header.Get("X-API-Key"); key != "" && m.apiKeyManager != nil {
			apiKey, err := m.apiKeyManager.Verify(key)
			if err == nil {
				ctx := r.Context()
				ctx = context.WithValue(ctx, UserIDKey, apiKey.Client)
				ctx = context.WithValue(ctx, AuthMethodKey, "apikey")
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			if !m.optional {
				unauthorized(w, "Invalid or revoked API key")
				return
			}
		}

		if m.optional {
			next.ServeHTTP(w, r)
			return
		}

		unauthorized(w, "No valid authentication provided")
	})
}

// bearerToken extracts the token of an Authorization: Bearer header
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}

// unauthorized writes a 401 in the API's JSON error envelope
func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, `{"error":"unauthorized","message":%q,"code":401}`, message)
}

// GetUserID extracts the authenticated identity from the request context
func GetUserID(r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(UserIDKey).(string)
	return userID, ok
}

// GetUserRole extracts the JWT role claim from the request context
func GetUserRole(r *http.Request) (string, bool) {
	role, ok := r.Context().Value(UserRoleKey).(string)
	return role, ok
}

// GetAuthMethod extracts the authentication method from the request context
func GetAuthMethod(r *http.Request) (string, bool) {
	method, ok := r.Context().Value(AuthMethodKey).(string)
	return method, ok
}
