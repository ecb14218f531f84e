package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/localaddons/addon-backend/internal/users"
)

// Context keys set by AuthRequired for downstream handlers.
const (
	ctxUserID         = "user_id"
	ctxUserEmail      = "user_email"
	ctxPartnerStudent = "partner_student"
)

// AuthRequired validates the bearer token and stashes the caller's identity
// on the request context.
func AuthRequired(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
			return
		}

		claims, err := users.ParseToken(jwtSecret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserEmail, claims.Email)
		c.Set(ctxPartnerStudent, claims.PartnerStudent)
		c.Next()
	}
}

// currentUser returns the authenticated user's id and partner flag.
func currentUser(c *gin.Context) (string, bool) {
	return c.GetString(ctxUserID), c.GetBool(ctxPartnerStudent)
}
