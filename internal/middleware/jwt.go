package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recetas-api/internal/auth"
	"recetas-api/internal/common"
)

const (
	ClaimsKey = "claims"
	UserIDKey = "user_id"
)

// RequireBearer rejects requests without a valid bearer token and stores
// the token's claims and user id on the context.
func RequireBearer(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := issuer.VerifyBearer(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"estado": http.StatusUnauthorized,
				"error":  common.Message(err, "invalid token"),
			})
			return
		}
		// Verify already rejected non-numeric subjects.
		id, _ := claims.UserID()
		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, id)
		c.Next()
	}
}

// UserID returns the id stored by RequireBearer.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
