package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the local record for an externally authenticated identity.
// It is created lazily on first login and never synced afterwards.
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID string    `gorm:"uniqueIndex;not null" json:"externalId"`
	Email      string    `gorm:"not null" json:"email"`
	Name       string    `gorm:"not null" json:"name"`
	CreatedAt  time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"not null" json:"updatedAt"`
}
