package services

import (
	"errors"
	"fmt"
	"strings"

	"taskflow-app/taskflow/broker"
	"taskflow-app/taskflow/database"
	"taskflow-app/taskflow/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskInput carries the caller-supplied fields for a new task. Optional
// fields left zero take their documented defaults.
type TaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	Deadline    *models.Date
}

// TaskUpdate is a partial update: nil fields are left unchanged.
// ClearDeadline removes the deadline and wins over Deadline.
type TaskUpdate struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	Deadline      *models.Date
	ClearDeadline bool
}

type TaskServiceInterface interface {
	CreateTask(db *database.Database, ownerID uuid.UUID, input TaskInput) (models.Task, error)
	GetTaskById(db *database.Database, ownerID uuid.UUID, id string) (models.Task, error)
	UpdateTask(db *database.Database, ownerID uuid.UUID, id string, input TaskUpdate) (models.Task, error)
	DeleteTask(db *database.Database, ownerID uuid.UUID, id string) error
	GetTasks(db *database.Database, ownerID uuid.UUID, filter TaskFilter) ([]models.Task, error)
}

// TaskService owns task persistence. Every operation is scoped to the
// owner id; a task that exists but belongs to someone else is reported
// exactly like a missing one.
type TaskService struct{}

func (s *TaskService) CreateTask(db *database.Database, ownerID uuid.UUID, input TaskInput) (models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return models.Task{}, fmt.Errorf("%w: title is required", ErrValidation)
	}

	status := input.Status
	if status == "" {
		status = models.StatusPending
	}
	if !status.Valid() {
		return models.Task{}, fmt.Errorf("%w: invalid status %q", ErrValidation, status)
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return models.Task{}, fmt.Errorf("%w: invalid priority %q", ErrValidation, priority)
	}

	task := models.Task{
		ID:          uuid.New(),
		UserID:      ownerID,
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		Deadline:    input.Deadline,
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Task{}, tx.Error
	}

	if err := tx.Create(&task).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	event, err := models.NewEvent(
		string(broker.TaskCreated),
		"task",
		map[string]interface{}{
			"task_id": task.ID.String(),
			"user_id": task.UserID.String(),
			"title":   task.Title,
		},
	)
	if err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	return task, nil
}

func (s *TaskService) GetTaskById(db *database.Database, ownerID uuid.UUID, id string) (models.Task, error) {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return models.Task{}, ErrTaskNotFound
	}

	var task models.Task
	if err := db.DB.First(&task, "id = ? AND user_id = ?", taskID, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskService) UpdateTask(db *database.Database, ownerID uuid.UUID, id string, input TaskUpdate) (models.Task, error) {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return models.Task{}, ErrTaskNotFound
	}

	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return models.Task{}, fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	if input.Status != nil && !input.Status.Valid() {
		return models.Task{}, fmt.Errorf("%w: invalid status %q", ErrValidation, *input.Status)
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return models.Task{}, fmt.Errorf("%w: invalid priority %q", ErrValidation, *input.Priority)
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Task{}, tx.Error
	}

	var task models.Task
	if err := tx.First(&task, "id = ? AND user_id = ?", taskID, ownerID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.ClearDeadline {
		task.Deadline = nil
	} else if input.Deadline != nil {
		task.Deadline = input.Deadline
	}

	// Only the mutable columns are selected; id, user_id and created_at
	// never change after creation.
	if err := tx.Model(&models.Task{}).
		Where("id = ? AND user_id = ?", taskID, ownerID).
		Select("title", "description", "status", "priority", "deadline").
		Updates(&task).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	event, err := models.NewEvent(
		string(broker.TaskUpdated),
		"task",
		map[string]interface{}{
			"task_id": task.ID.String(),
			"user_id": task.UserID.String(),
			"title":   task.Title,
			"status":  string(task.Status),
		},
	)
	if err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	return task, nil
}

func (s *TaskService) DeleteTask(db *database.Database, ownerID uuid.UUID, id string) error {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return ErrTaskNotFound
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var task models.Task
	if err := tx.First(&task, "id = ? AND user_id = ?", taskID, ownerID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	if err := tx.Where("id = ? AND user_id = ?", taskID, ownerID).Delete(&models.Task{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	event, err := models.NewEvent(
		string(broker.TaskDeleted),
		"task",
		map[string]interface{}{
			"task_id": task.ID.String(),
			"user_id": task.UserID.String(),
		},
	)
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func (s *TaskService) GetTasks(db *database.Database, ownerID uuid.UUID, filter TaskFilter) ([]models.Task, error) {
	query := db.DB.Model(&models.Task{}).Where("user_id = ?", ownerID)
	query = filter.Apply(query)

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

var TaskServiceInstance TaskServiceInterface = &TaskService{}
