package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"taskflow-app/taskflow/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupProfileRouter(authenticated bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	apiGroup := router.Group("/api/v1")
	if authenticated {
		apiGroup.Use(withPrincipal(testPrincipal))
	}
	RegisterProfileRoutes(apiGroup, &database.Database{}, &MockIdentityService{})

	return router
}

func TestGetProfile(t *testing.T) {
	router := setupProfileRouter(true)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/me", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test@example.com")
	assert.Contains(t, w.Body.String(), "Test User")
}

func TestGetProfileUnauthenticated(t *testing.T) {
	router := setupProfileRouter(false)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/me", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
