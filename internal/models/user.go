package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated traveller. The password hash never leaves the
// service; API responses are built from dto structs.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string     `gorm:"size:128;not null;uniqueIndex" json:"email"`
	Name         string     `gorm:"size:50;not null" json:"name"`
	PasswordHash string     `gorm:"size:128;not null" json:"-"`
	Gender       *string    `gorm:"size:20" json:"gender,omitempty"`
	Birthdate    *time.Time `json:"birthdate,omitempty"`
	AvatarKey    string     `gorm:"size:500" json:"avatar_key,omitempty"`
	Bio          string     `gorm:"size:500" json:"bio,omitempty"`
	Location     string     `gorm:"size:100" json:"location,omitempty"`
	Phone        string     `gorm:"size:20" json:"phone,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
