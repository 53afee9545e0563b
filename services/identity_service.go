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

type IdentityServiceInterface interface {
	ResolveUser(db *database.Database, principal models.Principal) (models.User, error)
}

// IdentityService finds the local user for an authenticated principal,
// creating it on first login. Subsequent logins return the stored record
// unchanged; profile data is not synced.
type IdentityService struct{}

func (s *IdentityService) ResolveUser(db *database.Database, principal models.Principal) (models.User, error) {
	if principal.ExternalID == "" {
		return models.User{}, ErrUnauthorized
	}

	var user models.User
	err := db.DB.Where("external_id = ?", principal.ExternalID).First(&user).Error
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	user = models.User{
		ID:         uuid.New(),
		ExternalID: principal.ExternalID,
		Email:      principalEmail(principal),
		Name:       principalName(principal),
	}

	if err := s.createUser(db, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a concurrent first-login race; the row the winner
			// created is the user.
			var existing models.User
			if err := db.DB.Where("external_id = ?", principal.ExternalID).First(&existing).Error; err != nil {
				return models.User{}, err
			}
			return existing, nil
		}
		return models.User{}, err
	}

	return user, nil
}

func (s *IdentityService) createUser(db *database.Database, user *models.User) error {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Create(user).Error; err != nil {
		tx.Rollback()
		return err
	}

	event, err := models.NewEvent(
		string(broker.UserCreated),
		"user",
		map[string]interface{}{
			"user_id":     user.ID.String(),
			"external_id": user.ExternalID,
			"email":       user.Email,
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

// principalEmail picks the principal's first email address, falling back
// to a synthesized placeholder derived from the external id.
func principalEmail(principal models.Principal) string {
	for _, email := range principal.Emails {
		if email != "" {
			return email
		}
	}
	return fmt.Sprintf("user-%s@taskflow.com", principal.ExternalID)
}

// principalName joins first and last name, falling back to "User" when
// both are blank.
func principalName(principal models.Principal) string {
	name := strings.TrimSpace(principal.FirstName + " " + principal.LastName)
	if name == "" {
		return "User"
	}
	return name
}

var IdentityServiceInstance IdentityServiceInterface = &IdentityService{}
