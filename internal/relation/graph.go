// Package relation owns the directed friend-edge set: the derivation
// of relationship state between two users and the friend-request
// protocol that creates edges.
package relation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"socialinsecurity/backend/internal/models"
)

// ErrSelfRelation is returned when a relationship query names the same
// user on both sides.
var ErrSelfRelation = errors.New("relationship query against self")

// State is the relationship between two distinct users. It is never
// stored; it is derived from which of the two directed edges exist at
// the time of the query.
type State int

const (
	// StateNone means no edge exists in either direction.
	StateNone State = iota
	// StatePending means exactly one directed edge exists. The edge's
	// source is the requester; pending grants no visibility either way.
	StatePending
	// StateMutual means edges exist in both directions. This is the
	// only state in which two users are friends for visibility
	// purposes.
	StateMutual
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateMutual:
		return "mutual"
	default:
		return "none"
	}
}

// Graph answers relationship queries over the friend-edge set. All
// methods are pure reads. Results must not be cached across requests:
// new edges can appear between calls, so every authorization check
// goes back to the store.
type Graph struct {
	db *gorm.DB
}

func NewGraph(db *gorm.DB) *Graph { return &Graph{db: db} }

func (g *Graph) edgeExists(ctx context.Context, from, to uint) (bool, error) {
	var cnt int64
	err := g.db.WithContext(ctx).
		Model(&models.FriendEdge{}).
		Where("from_user_id = ? AND to_user_id = ?", from, to).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// RelationshipState derives the state between two distinct users from
// two indexed existence probes. The function is symmetric even though
// the storage is not: swapping a and b flips which side holds a
// pending edge, never the state itself.
func (g *Graph) RelationshipState(ctx context.Context, a, b uint) (State, error) {
	if a == b {
		return StateNone, ErrSelfRelation
	}

	ab, err := g.edgeExists(ctx, a, b)
	if err != nil {
		return StateNone, err
	}
	ba, err := g.edgeExists(ctx, b, a)
	if err != nil {
		return StateNone, err
	}

	switch {
	case ab && ba:
		return StateMutual, nil
	case ab || ba:
		return StatePending, nil
	default:
		return StateNone, nil
	}
}

// IsMutual reports whether a and b are friends in both directions.
func (g *Graph) IsMutual(ctx context.Context, a, b uint) (bool, error) {
	state, err := g.RelationshipState(ctx, a, b)
	if err != nil {
		return false, err
	}
	return state == StateMutual, nil
}

// MutualFriendIDs returns every user the given user is mutual friends
// with: an outgoing edge matched by the reciprocal incoming one.
func (g *Graph) MutualFriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	reciprocal := g.db.Model(&models.FriendEdge{}).
		Select("from_user_id").
		Where("to_user_id = ?", userID)

	var ids []uint
	err := g.db.WithContext(ctx).
		Model(&models.FriendEdge{}).
		Where("from_user_id = ?", userID).
		Where("to_user_id IN (?)", reciprocal).
		Pluck("to_user_id", &ids).Error
	return ids, err
}
