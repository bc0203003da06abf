package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/apperr"
)

const (
	userIDKey = "userId"
	tokenKey  = "token"
)

// TokenVerifier resolves a bearer token to the user it was issued for. It
// returns an *apperr.Error of kind InvalidToken when the token is not live.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (userID string, err error)
}

// TokenVerifierFunc adapts a function to TokenVerifier.
type TokenVerifierFunc func(ctx context.Context, token string) (string, error)

func (f TokenVerifierFunc) VerifyToken(ctx context.Context, token string) (string, error) {
	return f(ctx, token)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header.
func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			RespondWithError(c, apperr.Unauthorized("Authorization header required"))
			c.Abort()
			return
		}
		token, ok := BearerToken(c)
		if !ok {
			RespondWithError(c, apperr.Unauthorized("Invalid authorization header format"))
			c.Abort()
			return
		}

		userID, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			RespondWithError(c, err)
			c.Abort()
			return
		}

		c.Set(userIDKey, userID)
		c.Set(tokenKey, token)
		c.Next()
	}
}

func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok
}
