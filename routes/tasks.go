package routes

import (
	"errors"
	"log"
	"net/http"

	"taskflow-app/taskflow/database"
	"taskflow-app/taskflow/middleware"
	"taskflow-app/taskflow/models"
	"taskflow-app/taskflow/services"

	"github.com/gin-gonic/gin"
)

func RegisterTaskRoutes(group *gin.RouterGroup, db *database.Database, identityService services.IdentityServiceInterface, taskService services.TaskServiceInterface) {
	group.GET("/tasks", func(c *gin.Context) { GetTasks(c, db, identityService, taskService) })
	group.POST("/tasks", func(c *gin.Context) { CreateTask(c, db, identityService, taskService) })
	group.GET("/tasks/:id", func(c *gin.Context) { GetTaskById(c, db, identityService, taskService) })
	group.PUT("/tasks/:id", func(c *gin.Context) { UpdateTask(c, db, identityService, taskService) })
	group.DELETE("/tasks/:id", func(c *gin.Context) { DeleteTask(c, db, identityService, taskService) })
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Deadline    string `json:"deadline"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	Deadline    *string `json:"deadline"`
}

// resolveOwner turns the authenticated principal into the local user
// record, creating it on first login. It writes the error response
// itself when resolution fails.
func resolveOwner(c *gin.Context, db *database.Database, identityService services.IdentityServiceInterface) (models.User, bool) {
	principal, exists := middleware.CurrentPrincipal(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return models.User{}, false
	}

	user, err := identityService.ResolveUser(db, principal)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return models.User{}, false
		}
		log.Printf("Failed to resolve user for principal %s: %v", principal.ExternalID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return models.User{}, false
	}

	return user, true
}

// handleTaskError maps service errors to HTTP responses. Anything outside
// the known taxonomy is logged and collapsed to a generic 500.
func handleTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("Unexpected task error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func GetTasks(c *gin.Context, db *database.Database, identityService services.IdentityServiceInterface, taskService services.TaskServiceInterface) {
	owner, ok := resolveOwner(c, db, identityService)
	if !ok {
		return
	}

	filter := services.TaskFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
		SortBy:   c.DefaultQuery("sortBy", services.SortByDeadline),
	}

	tasks, err := taskService.GetTasks(db, owner.ID, filter)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func CreateTask(c *gin.Context, db *database.Database, identityService services.IdentityServiceInterface, taskService services.TaskServiceInterface) {
	owner, ok := resolveOwner(c, db, identityService)
	if !ok {
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		Priority:    models.TaskPriority(req.Priority),
	}

	if req.Deadline != "" {
		deadline, err := models.ParseDate(req.Deadline)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		input.Deadline = &deadline
	}

	createdTask, err := taskService.CreateTask(db, owner.ID, input)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, createdTask)
}

func GetTaskById(c *gin.Context, db *database.Database, identityService services.IdentityServiceInterface, taskService services.TaskServiceInterface) {
	owner, ok := resolveOwner(c, db, identityService)
	if !ok {
		return
	}

	task, err := taskService.GetTaskById(db, owner.ID, c.Param("id"))
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func UpdateTask(c *gin.Context, db *database.Database, identityService services.IdentityServiceInterface, taskService services.TaskServiceInterface) {
	owner, ok := resolveOwner(c, db, identityService)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := models.TaskPriority(*req.Priority)
		input.Priority = &priority
	}
	if req.Deadline != nil {
		if *req.Deadline == "" {
			input.ClearDeadline = true
		} else {
			deadline, err := models.ParseDate(*req.Deadline)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			input.Deadline = &deadline
		}
	}

	updatedTask, err := taskService.UpdateTask(db, owner.ID, c.Param("id"), input)
	if err != nil {
		handleTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, updatedTask)
}

func DeleteTask(c *gin.Context, db *database.Database, identityService services.IdentityServiceInterface, taskService services.TaskServiceInterface) {
	owner, ok := resolveOwner(c, db, identityService)
	if !ok {
		return
	}

	if err := taskService.DeleteTask(db, owner.ID, c.Param("id")); err != nil {
		handleTaskError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
