package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/SagorIslamOfficial/hrm-sub003/models"
)

type contextKey string

const (
	// ContextEmployeeID carries the authenticated account's employee ID.
	ContextEmployeeID contextKey = "employee_id"
	// ContextRole carries the authenticated account's role.
	ContextRole contextKey = "role"
)

// AuthMiddleware validates JWT tokens and gates routes by role. The engine
// trusts the claims; issuing and revoking accounts lives in the HR system.
type AuthMiddleware struct {
	jwtSecret []byte
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: []byte(jwtSecret)}
}

// RequireAuth validates the bearer token and sets employee_id and role in
// the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Invalid authorization format. Expected: Bearer <token>")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Invalid token claims")
			return
		}

		employeeIDFloat, ok := claims["employee_id"].(float64)
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Invalid token: employee_id not found")
			return
		}
		role, ok := claims["role"].(string)
		if !ok || role == "" {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Invalid token: role not found")
			return
		}

		ctx := context.WithValue(r.Context(), ContextEmployeeID, int64(employeeIDFloat))
		ctx = context.WithValue(ctx, ContextRole, models.HandlerRole(role))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a route to the listed roles. Admin passes everywhere.
func (m *AuthMiddleware) RequireRole(roles ...models.HandlerRole) func(http.Handler) http.Handler {
	allowed := make(map[models.HandlerRole]bool, len(roles)+1)
	for _, role := range roles {
		allowed[role] = true
	}
	allowed[models.RoleAdmin] = true

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok || !allowed[role] {
				respondWithError(w, http.StatusForbidden, "Forbidden", "Insufficient role for this operation")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// EmployeeIDFromContext returns the authenticated employee ID.
func EmployeeIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ContextEmployeeID).(int64)
	return id, ok
}

// RoleFromContext returns the authenticated role.
func RoleFromContext(ctx context.Context) (models.HandlerRole, bool) {
	role, ok := ctx.Value(ContextRole).(models.HandlerRole)
	return role, ok
}

// Helper function for error responses
func respondWithError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	body := fmt.Sprintf(`{"error":"%s","message":"%s","code":%d}`, errorType, message, statusCode)
	w.Write([]byte(body))
}
