// Package access holds the visibility predicates that gate the feed,
// profile, and upload-serving paths against the friend graph.
package access

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"socialinsecurity/backend/internal/models"
	"socialinsecurity/backend/internal/relation"
)

// Guard evaluates visibility for a viewer against the current friend
// graph. Every predicate re-queries live state; nothing is cached
// between calls because edges can appear between requests.
type Guard struct {
	db    *gorm.DB
	graph *relation.Graph
}

func NewGuard(db *gorm.DB) *Guard {
	return &Guard{db: db, graph: relation.NewGraph(db)}
}

// CanViewFeedEntry reports whether viewer may see the given post: they
// are its author, or a mutual friend of the author.
func (g *Guard) CanViewFeedEntry(ctx context.Context, viewerID uint, post *models.Post) (bool, error) {
	if post.AuthorID == viewerID {
		return true, nil
	}
	return g.graph.IsMutual(ctx, viewerID, post.AuthorID)
}

// CanViewProfile reports whether viewer may see subject's profile:
// themselves, or a mutual friend. Callers must answer a false result
// the same way as a nonexistent subject so denial never confirms that
// an account exists.
func (g *Guard) CanViewProfile(ctx context.Context, viewerID, subjectID uint) (bool, error) {
	if viewerID == subjectID {
		return true, nil
	}
	return g.graph.IsMutual(ctx, viewerID, subjectID)
}

// CanViewUpload resolves the file to the post that references it and
// applies the feed-entry rule to that post. A file no post references
// is denied unconditionally.
func (g *Guard) CanViewUpload(ctx context.Context, viewerID uint, filename string) (bool, error) {
	var post models.Post
	err := g.db.WithContext(ctx).Where("image = ?", filename).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return g.CanViewFeedEntry(ctx, viewerID, &post)
}
