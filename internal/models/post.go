package models

import "gorm.io/gorm"

// Post represents an entry on a user's stream. Posts are immutable
// after creation.
type Post struct {
	gorm.Model
	AuthorID uint   `gorm:"not null;index"`
	Content  string `gorm:"type:text;not null"`

	// Image holds the stored filename of the attached upload, empty
	// when the post has no image.
	Image string `gorm:"size:255"`

	Author User `gorm:"foreignKey:AuthorID"`

	// CommentCount is not persisted; it is filled by a COUNT subquery
	// at read time.
	CommentCount int64 `gorm:"->;-:migration"`
}
