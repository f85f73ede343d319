package models

import "gorm.io/gorm"

// Comment represents a comment on a post. Comments are immutable.
type Comment struct {
	gorm.Model
	PostID  uint   `gorm:"not null;index"`
	UserID  uint   `gorm:"not null"`
	Content string `gorm:"type:text;not null"`

	User User `gorm:"foreignKey:UserID"`
}
