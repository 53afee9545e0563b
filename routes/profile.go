package routes

import (
	"net/http"

	"taskflow-app/taskflow/database"
	"taskflow-app/taskflow/services"

	"github.com/gin-gonic/gin"
)

func RegisterProfileRoutes(group *gin.RouterGroup, db *database.Database, identityService services.IdentityServiceInterface) {
	group.GET("/me", func(c *gin.Context) { GetProfile(c, db, identityService) })
}

// GetProfile returns the local user record for the authenticated
// principal, creating it on first login.
func GetProfile(c *gin.Context, db *database.Database, identityService services.IdentityServiceInterface) {
	user, ok := resolveOwner(c, db, identityService)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}
