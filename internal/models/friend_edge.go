package models

import "time"

// FriendEdge represents a directed friend request from one user to
// another. The edge's existence is the request; there is no status
// column. Whether two users are pending or mutual friends is derived
// from which of the two directed edges exist (see internal/relation).
//
// The composite primary key (FromUserID, ToUserID) doubles as the
// uniqueness constraint that lets concurrent duplicate requests
// collapse into a single stored edge.
type FriendEdge struct {
	FromUserID uint `gorm:"primaryKey"`
	ToUserID   uint `gorm:"primaryKey"`
	CreatedAt  time.Time

	FromUser User `gorm:"foreignKey:FromUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ToUser   User `gorm:"foreignKey:ToUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
