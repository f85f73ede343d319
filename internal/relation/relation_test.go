package relation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"socialinsecurity/backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.FriendEdge{}))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		FirstName:    username,
		LastName:     "Tester",
		PasswordHash: "irrelevant",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func addEdge(t *testing.T, db *gorm.DB, from, to uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.FriendEdge{FromUserID: from, ToUserID: to}).Error)
}

func countEdges(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var cnt int64
	require.NoError(t, db.Model(&models.FriendEdge{}).Count(&cnt).Error)
	return cnt
}

func TestRelationshipStateRejectsSelf(t *testing.T) {
	db := setupTestDB(t)
	graph := NewGraph(db)
	alice := createUser(t, db, "alice")

	_, err := graph.RelationshipState(context.Background(), alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfRelation)
}

func TestRelationshipStateDerivation(t *testing.T) {
	db := setupTestDB(t)
	graph := NewGraph(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	state, err := graph.RelationshipState(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, StateNone, state)

	addEdge(t, db, alice.ID, bob.ID)
	state, err = graph.RelationshipState(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, StatePending, state)

	addEdge(t, db, bob.ID, alice.ID)
	state, err = graph.RelationshipState(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, StateMutual, state)
}

// The derived state must be symmetric even though each edge is stored
// one-directionally.
func TestRelationshipStateSymmetry(t *testing.T) {
	db := setupTestDB(t)
	graph := NewGraph(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	check := func(want State) {
		ab, err := graph.RelationshipState(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		ba, err := graph.RelationshipState(ctx, bob.ID, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, want, ab)
		assert.Equal(t, ab, ba)
	}

	check(StateNone)
	addEdge(t, db, bob.ID, alice.ID)
	check(StatePending)
	addEdge(t, db, alice.ID, bob.ID)
	check(StateMutual)
}

func TestIsMutual(t *testing.T) {
	db := setupTestDB(t)
	graph := NewGraph(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	mutual, err := graph.IsMutual(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, mutual)

	addEdge(t, db, alice.ID, bob.ID)
	mutual, err = graph.IsMutual(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, mutual, "pending grants no friendship")

	addEdge(t, db, bob.ID, alice.ID)
	mutual, err = graph.IsMutual(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, mutual)
}

func TestMutualFriendIDs(t *testing.T) {
	db := setupTestDB(t)
	graph := NewGraph(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")
	dave := createUser(t, db, "dave")

	// bob is mutual, carol only has an outgoing request from alice,
	// dave only has a request towards alice.
	addEdge(t, db, alice.ID, bob.ID)
	addEdge(t, db, bob.ID, alice.ID)
	addEdge(t, db, alice.ID, carol.ID)
	addEdge(t, db, dave.ID, alice.ID)

	ids, err := graph.MutualFriendIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{bob.ID}, ids)
}

func TestSubmitScenario(t *testing.T) {
	db := setupTestDB(t)
	requests := NewRequests(db)
	graph := NewGraph(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	// carol is never registered.

	// alice requests bob: one edge, state pending.
	outcome, err := requests.Submit(ctx, alice.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSilentAccept, outcome)
	state, err := graph.RelationshipState(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, StatePending, state)

	// bob requests alice: reciprocal edge completes mutuality, and the
	// message does not change.
	outcome, err = requests.Submit(ctx, bob.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSilentAccept, outcome)
	state, err = graph.RelationshipState(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, StateMutual, state)

	// alice requests the nonexistent carol: no edge, same message.
	before := countEdges(t, db)
	outcome, err = requests.Submit(ctx, alice.ID, "carol")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSilentAccept, outcome)
	assert.Equal(t, before, countEdges(t, db))

	// alice requests herself: the one distinguishing rejection.
	outcome, err = requests.Submit(ctx, alice.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSelfRequest, outcome)

	// alice requests bob again after mutuality: already friends.
	outcome, err = requests.Submit(ctx, alice.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyFriends, outcome)
}

func TestSubmitIdempotent(t *testing.T) {
	db := setupTestDB(t)
	requests := NewRequests(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	createUser(t, db, "bob")

	first, err := requests.Submit(ctx, alice.ID, "bob")
	require.NoError(t, err)
	second, err := requests.Submit(ctx, alice.ID, "bob")
	require.NoError(t, err)

	assert.Equal(t, OutcomeSilentAccept, first)
	assert.Equal(t, OutcomeSilentAccept, second)
	assert.Equal(t, int64(1), countEdges(t, db), "retry must not store a second edge")
}

// The outward message for "target does not exist", "edge newly
// created" and "reciprocal edge completed mutuality" must be
// byte-identical.
func TestSubmitMessageUniformity(t *testing.T) {
	db := setupTestDB(t)
	requests := NewRequests(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	missing, err := requests.Submit(ctx, alice.ID, "nobody")
	require.NoError(t, err)
	fresh, err := requests.Submit(ctx, alice.ID, "bob")
	require.NoError(t, err)
	completing, err := requests.Submit(ctx, bob.ID, "alice")
	require.NoError(t, err)

	assert.Equal(t, "Friend request sent.", missing.Message())
	assert.Equal(t, missing.Message(), fresh.Message())
	assert.Equal(t, missing.Message(), completing.Message())
}

func TestOutcomeMessages(t *testing.T) {
	assert.Equal(t, "Friend request sent.", OutcomeSilentAccept.Message())
	assert.Equal(t, "You cannot be friends with yourself!", OutcomeSelfRequest.Message())
	assert.Equal(t, "You are already friends with this user!", OutcomeAlreadyFriends.Message())
}
