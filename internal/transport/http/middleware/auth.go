package middleware

import (
	"net/http"
	"strings"

	"github.com/dkurmanbek/pet-adoption-api/internal/auth"
	"github.com/dkurmanbek/pet-adoption-api/internal/reqctx"
	"github.com/gin-gonic/gin"
)

const errUnauthorized = "Unauthorized"

// Context keys set by Auth for downstream handlers.
const (
	CtxUserID      = "userID"
	CtxUsername    = "username"
	CtxAccessToken = "accessToken"
)

// tokenVerifier is the slice of auth.TokenManager the middleware needs.
type tokenVerifier interface {
	Verify(tokenString string, expected auth.TokenType) (*auth.Claims, error)
}

// Auth validates a Bearer access token and exposes the subject through the
// gin context and the request context (for log enrichment).
func Auth(tokens tokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		rawToken := strings.TrimPrefix(header, "Bearer ")

		claims, err := tokens.Verify(rawToken, auth.TokenAccess)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		ctx := reqctx.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUsername, claims.Username)
		c.Set(CtxAccessToken, rawToken)
		c.Next()
	}
}
