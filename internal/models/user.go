package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account.
type User struct {
	gorm.Model
	Username     string `gorm:"size:255;unique;not null"`
	FirstName    string `gorm:"size:255;not null"`
	LastName     string `gorm:"size:255;not null"`
	PasswordHash string `gorm:"size:255;not null"`

	// Profile fields, editable by the account owner only.
	Education   string `gorm:"size:255"`
	Employment  string `gorm:"size:255"`
	Music       string `gorm:"size:255"`
	Movie       string `gorm:"size:255"`
	Nationality string `gorm:"size:255"`
	Birthday    *time.Time
}
