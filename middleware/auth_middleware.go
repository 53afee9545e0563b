package middleware

import (
	"net/http"

	"taskflow-app/taskflow/models"
	"taskflow-app/taskflow/services"
	"taskflow-app/taskflow/utils/token"

	"github.com/gin-gonic/gin"
)

// PrincipalKey is the gin context key under which the authenticated
// principal is stored.
const PrincipalKey = "principal"

// AuthMiddleware validates the bearer token and stores the resulting
// principal in the request context. Requests without a valid token are
// rejected before any handler runs.
func AuthMiddleware(authService services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := token.ExtractToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		principal, err := authService.Authenticate(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

// CurrentPrincipal returns the principal stored by AuthMiddleware.
func CurrentPrincipal(c *gin.Context) (models.Principal, bool) {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		return models.Principal{}, false
	}
	principal, ok := value.(models.Principal)
	return principal, ok
}
