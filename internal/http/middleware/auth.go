package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vipul43/classmate-sync/internal/auth"
	"github.com/vipul43/classmate-sync/internal/service"
)

const userIDKey = "userID"

// IdentityVerifier resolves a bearer token to a user id.
type IdentityVerifier interface {
	UserID(token string) (string, error)
}

var _ IdentityVerifier = (*auth.Verifier)(nil)

// RequireUser rejects requests without a verifiable caller identity before
// any handler runs.
func RequireUser(verifier IdentityVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abortUnauthorized(c, "Missing bearer token")
			return
		}
		userID, err := verifier.UserID(token)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}
		SetUserID(c, userID)
		c.Next()
	}
}

// SetUserID records the authenticated caller on the request context.
func SetUserID(c *gin.Context, userID string) {
	c.Set(userIDKey, userID)
}

// UserID returns the caller identity set by RequireUser.
func UserID(c *gin.Context) (string, bool) {
	value, ok := c.Get(userIDKey)
	if !ok {
		return "", false
	}
	userID, ok := value.(string)
	return userID, ok && userID != ""
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   service.KindUnauthorized,
		"message": message,
	})
}
