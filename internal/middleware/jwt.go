package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aerostage/backend/internal/auth"
	"github.com/aerostage/backend/pkg/response"
)

// ContextGuestID is the key for the guest ID in gin context.
const ContextGuestID = "guest_id"

// JWT returns a middleware that validates the bearer session token and sets the guest
// ID in context. Any failure is reported as an invalid session, matching the auth
// collaborator contract.
func JWT(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing bearer token")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid session")
			c.Abort()
			return
		}
		c.Set(ContextGuestID, claims.GuestID)
		c.Next()
	}
}
