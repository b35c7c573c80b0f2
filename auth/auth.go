/*
Package auth implements the mock login: credential verification against the
directory and short-lived JWT session tokens carrying the employee's ID,
username and role.

This is not a security boundary. The tokens exist so the API can resolve a
current user and gate manager-only routes; every session is still an
isolated sandbox over local state.
*/
package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/warp/hr-console/directory"
)

type contextKey string

const claimsContextKey contextKey = "auth.claims"

// Claims are the token payload.
type Claims struct {
	EmployeeID string         `json:"employee_id"`
	Username   string         `json:"username"`
	Role       directory.Role `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator issues and validates session tokens.
type Authenticator struct {
	secret []byte
	ttl    time.Duration
}

func New(secret string, ttl time.Duration) *Authenticator {
	return &Authenticator{secret: []byte(secret), ttl: ttl}
}

// GenerateToken issues a signed token for the employee.
func (a *Authenticator) GenerateToken(e directory.Employee) (string, error) {
	claims := &Claims{
		EmployeeID: e.ID,
		Username:   e.Username,
		Role:       e.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ValidateToken parses and verifies a token string.
func (a *Authenticator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}

// Middleware requires a valid bearer token and puts the claims on the
// request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var tokenString string
		authHeader := r.Header.Get("Authorization")
		if parts := strings.Split(authHeader, " "); len(parts) == 2 && parts[0] == "Bearer" {
			tokenString = parts[1]
		}
		if tokenString == "" {
			http.Error(w, `{"error":"missing token"}`, http.StatusUnauthorized)
			return
		}

		claims, err := a.ValidateToken(tokenString)
		if err != nil {
			http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireManager rejects requests whose claims do not carry the manager
// role. Must run after Middleware.
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		if claims == nil || claims.Role != directory.RoleManager {
			http.Error(w, `{"error":"manager role required"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClaimsFromContext returns the claims set by Middleware, or nil.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsContextKey).(*Claims)
	return claims
}
