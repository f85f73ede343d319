package relation

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"socialinsecurity/backend/internal/models"
)

// Outcome classifies a friend-request submission. Only the self
// request and the already-friends case may render distinguishing text;
// every other branch collapses into the uniform silent accept so the
// response never reveals whether the target account exists.
type Outcome int

const (
	// OutcomeSilentAccept covers the nonexistent target, the duplicate
	// request, the freshly created edge, and the edge that completes
	// mutuality. All four must look identical to the requester.
	OutcomeSilentAccept Outcome = iota

	// OutcomeSelfRequest rejects a request against one's own account.
	// The requester trivially knows their own account exists, so a
	// distinct message is safe here.
	OutcomeSelfRequest

	// OutcomeAlreadyFriends is only reachable once the friendship is
	// already mutual, at which point both parties know of each other.
	OutcomeAlreadyFriends
)

// Message returns the user-facing text for the outcome. The silent
// accept string must stay byte-identical across all of its branches.
func (o Outcome) Message() string {
	switch o {
	case OutcomeSelfRequest:
		return "You cannot be friends with yourself!"
	case OutcomeAlreadyFriends:
		return "You are already friends with this user!"
	default:
		return "Friend request sent."
	}
}

// Requests runs the friend-request protocol against the edge set.
type Requests struct {
	db    *gorm.DB
	graph *Graph
}

func NewRequests(db *gorm.DB) *Requests {
	return &Requests{db: db, graph: NewGraph(db)}
}

// Submit processes a friend request from requester to the user named
// targetUsername. Evaluation order matters: the target is resolved
// first, the self check runs immediately after a successful
// resolution, and only then is the current relationship state
// consulted.
//
// At most one edge is inserted per call. The insert is an
// insert-if-absent against the unique (from, to) pair, so a concurrent
// retry of the same request still stores exactly one edge and is
// classified as the duplicate branch rather than an error.
func (r *Requests) Submit(ctx context.Context, requesterID uint, targetUsername string) (Outcome, error) {
	var target models.User
	err := r.db.WithContext(ctx).Where("username = ?", targetUsername).First(&target).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Unknown target: answer exactly as if the request was recorded.
		return OutcomeSilentAccept, nil
	}
	if err != nil {
		return OutcomeSilentAccept, err
	}

	if target.ID == requesterID {
		return OutcomeSelfRequest, nil
	}

	state, err := r.graph.RelationshipState(ctx, requesterID, target.ID)
	if err != nil {
		return OutcomeSilentAccept, err
	}
	if state == StateMutual {
		return OutcomeAlreadyFriends, nil
	}

	// NONE inserts the first edge. PENDING either re-submits an edge
	// that already exists, which the conflict clause absorbs, or
	// inserts the reciprocal edge that completes mutuality. The
	// requester is answered the same way in every case.
	edge := models.FriendEdge{FromUserID: requesterID, ToUserID: target.ID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&edge).Error; err != nil {
		return OutcomeSilentAccept, err
	}

	return OutcomeSilentAccept, nil
}
