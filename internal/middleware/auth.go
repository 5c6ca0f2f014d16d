package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"todo-hub-api/internal/response"
)

// SessionCookieName is the cookie that carries the session token
const SessionCookieName = "token"

// UserIDKey is the gin context key for the authenticated user
const UserIDKey = "user_id"

// TokenValidator interface for auth-service token validation
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenStr string) (uuid.UUID, error)
}

// AuthWithValidator validates the session cookie via the auth service.
// A missing cookie is 401; a cookie the auth service rejects is 403.
func AuthWithValidator(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(SessionCookieName)
		if err != nil || tokenString == "" {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		userID, err := validator.ValidateToken(ctx, tokenString)
		if err != nil {
			response.SendError(c, http.StatusForbidden, response.ErrCodeForbidden, "Invalid or expired session")
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// Auth validates the session cookie locally with the shared JWT secret.
// Fallback for deployments without a reachable auth service; no revocation
// check happens here.
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(SessionCookieName)
		if err != nil || tokenString == "" {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			response.SendError(c, http.StatusForbidden, response.ErrCodeForbidden, "Invalid or expired session")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.SendError(c, http.StatusForbidden, response.ErrCodeForbidden, "Invalid or expired session")
			c.Abort()
			return
		}

		userID, err := extractUserID(claims)
		if err != nil {
			response.SendError(c, http.StatusForbidden, response.ErrCodeForbidden, "Invalid or expired session")
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// extractUserID pulls the user id out of the claims, accepting the claim
// names the auth services are known to issue
func extractUserID(claims jwt.MapClaims) (uuid.UUID, error) {
	for _, key := range []string{"user_id", "sub", "uid", "id"} {
		if raw, ok := claims[key].(string); ok {
			return uuid.Parse(raw)
		}
	}
	return uuid.Nil, jwt.ErrTokenInvalidClaims
}

// CurrentUserID reads the authenticated user from the gin context
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := raw.(uuid.UUID)
	return userID, ok
}
