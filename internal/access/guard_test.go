package access

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
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.FriendEdge{}, &models.Post{}, &models.Comment{}))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, FirstName: username, LastName: "Tester", PasswordHash: "irrelevant"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func makeMutual(t *testing.T, db *gorm.DB, a, b uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.FriendEdge{FromUserID: a, ToUserID: b}).Error)
	require.NoError(t, db.Create(&models.FriendEdge{FromUserID: b, ToUserID: a}).Error)
}

func TestCanViewFeedEntry(t *testing.T) {
	db := setupTestDB(t)
	guard := NewGuard(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")
	makeMutual(t, db, alice.ID, bob.ID)
	// carol only requested alice; pending grants nothing.
	require.NoError(t, db.Create(&models.FriendEdge{FromUserID: carol.ID, ToUserID: alice.ID}).Error)

	post := &models.Post{AuthorID: alice.ID, Content: "hello"}
	require.NoError(t, db.Create(post).Error)

	ok, err := guard.CanViewFeedEntry(ctx, alice.ID, post)
	require.NoError(t, err)
	assert.True(t, ok, "authors see their own posts")

	ok, err = guard.CanViewFeedEntry(ctx, bob.ID, post)
	require.NoError(t, err)
	assert.True(t, ok, "mutual friends see each other's posts")

	ok, err = guard.CanViewFeedEntry(ctx, carol.ID, post)
	require.NoError(t, err)
	assert.False(t, ok, "a pending edge grants no visibility")
}

func TestCanViewProfile(t *testing.T) {
	db := setupTestDB(t)
	guard := NewGuard(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")
	makeMutual(t, db, alice.ID, bob.ID)

	ok, err := guard.CanViewProfile(ctx, alice.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = guard.CanViewProfile(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = guard.CanViewProfile(ctx, carol.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanViewUpload(t *testing.T) {
	db := setupTestDB(t)
	guard := NewGuard(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")
	makeMutual(t, db, alice.ID, bob.ID)

	post := &models.Post{AuthorID: alice.ID, Content: "pic", Image: "cat.jpg"}
	require.NoError(t, db.Create(post).Error)

	ok, err := guard.CanViewUpload(ctx, alice.ID, "cat.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = guard.CanViewUpload(ctx, bob.ID, "cat.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = guard.CanViewUpload(ctx, carol.ID, "cat.jpg")
	require.NoError(t, err)
	assert.False(t, ok)

	// A file no post references is denied for everyone, owner included.
	ok, err = guard.CanViewUpload(ctx, alice.ID, "unknown.jpg")
	require.NoError(t, err)
	assert.False(t, ok)
}

// The guard must not cache: an edge created between two checks changes
// the answer.
func TestGuardSeesFreshGraphState(t *testing.T) {
	db := setupTestDB(t)
	guard := NewGuard(db)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	ok, err := guard.CanViewProfile(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	makeMutual(t, db, alice.ID, bob.ID)

	ok, err = guard.CanViewProfile(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}
