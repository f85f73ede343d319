// Package feed assembles a viewer's post stream from their own posts
// and those of their mutual friends.
package feed

import (
	"context"

	"gorm.io/gorm"

	"socialinsecurity/backend/internal/models"
	"socialinsecurity/backend/internal/relation"
)

// commentCountExpr counts a post's live comments at read time instead
// of storing the count redundantly.
const commentCountExpr = "(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL)"

// Assembler computes feeds. Each call produces a fresh, finite
// snapshot; nothing is cached between invocations.
type Assembler struct {
	db    *gorm.DB
	graph *relation.Graph
}

func NewAssembler(db *gorm.DB) *Assembler {
	return &Assembler{db: db, graph: relation.NewGraph(db)}
}

// Assemble returns every post authored by the viewer or by one of
// their mutual friends, newest first. Equal timestamps fall back to
// descending id so the order stays deterministic. Each post carries
// its current comment count.
func (a *Assembler) Assemble(ctx context.Context, viewerID uint) ([]models.Post, error) {
	friendIDs, err := a.graph.MutualFriendIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	authorIDs := append(friendIDs, viewerID)

	var posts []models.Post
	err = a.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("posts.*, "+commentCountExpr+" AS comment_count").
		Where("author_id IN ?", authorIDs).
		Order("created_at DESC").
		Order("id DESC").
		Preload("Author").
		Find(&posts).Error
	return posts, err
}

// LoadPost fetches a single post with its comment count annotation.
func (a *Assembler) LoadPost(ctx context.Context, postID uint) (*models.Post, error) {
	var post models.Post
	err := a.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("posts.*, "+commentCountExpr+" AS comment_count").
		Where("posts.id = ?", postID).
		Preload("Author").
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}
