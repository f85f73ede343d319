package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"socialinsecurity/backend/internal/access"
	"socialinsecurity/backend/internal/config"
	"socialinsecurity/backend/internal/database"
	"socialinsecurity/backend/internal/feed"
	"socialinsecurity/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// allowedImageExtensions lists the upload types a post may attach.
var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// region --- DTOs ---

// PostResponse defines the structure for a post in a stream.
type PostResponse struct {
	ID           uint      `json:"id"`
	Author       string    `json:"author"`
	AuthorName   string    `json:"author_name"`
	Content      string    `json:"content"`
	Image        string    `json:"image,omitempty"`
	CommentCount int64     `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// CommentInput defines the structure for creating a comment.
type CommentInput struct {
	Content string `json:"content" binding:"required" example:"Nice post!"`
}

// CommentResponse defines the structure for a comment.
type CommentResponse struct {
	ID        uint      `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// endregion

// region --- Post Handlers ---

// GetStream godoc
// @Summary      Get the stream
// @Description  Returns the authenticated user's feed: their own posts and their mutual friends' posts, newest first, each with its current comment count.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   PostResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /stream [get]
func GetStream(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	assembler := feed.NewAssembler(database.DB)
	posts, err := assembler.Assemble(c.Request.Context(), viewerID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assemble stream"})
		return
	}

	postResponses := make([]PostResponse, 0, len(posts))
	for _, post := range posts {
		postResponses = append(postResponses, buildPostResponse(post))
	}

	c.JSON(http.StatusOK, postResponses)
}

// CreatePost godoc
// @Summary      Create a post
// @Description  Creates a new post with text content and an optional image upload.
// @Tags         posts
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        content  formData  string  true   "Post text"
// @Param        image    formData  file    false  "Image attachment (jpg, jpeg, png, gif)"
// @Success      201  {object}  PostResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /posts [post]
func CreatePost(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	content := strings.TrimSpace(c.PostForm("content"))
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Post content is required"})
		return
	}

	var storedName string
	if file, err := c.FormFile("image"); err == nil {
		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !allowedImageExtensions[ext] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image type must be one of jpg, jpeg, png, gif"})
			return
		}
		storedName = uuid.New().String() + ext
		if err := c.SaveUploadedFile(file, filepath.Join(config.AppConfig.UploadsDir, storedName)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
			return
		}
	}

	post := models.Post{
		AuthorID: viewerID.(uint),
		Content:  content,
		Image:    storedName,
	}
	if err := database.DB.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	if err := database.DB.Preload("Author").First(&post, post.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load post"})
		return
	}

	c.JSON(http.StatusCreated, buildPostResponse(post))
}

// GetPost godoc
// @Summary      Get a post
// @Description  Retrieves a single post. Only the author and their mutual friends may view it; any other request is answered as if the post did not exist.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  PostResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Post not available"
// @Router       /posts/{id} [get]
func GetPost(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	post, ok := loadVisiblePost(c, viewerID.(uint))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, buildPostResponse(*post))
}

// endregion

// region --- Comment Handlers ---

// ListComments godoc
// @Summary      List comments
// @Description  Lists the comments on a post, newest first. Visibility follows the post's visibility.
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Post ID"
// @Success      200  {array}   CommentResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Post not available"
// @Router       /posts/{id}/comments [get]
func ListComments(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	post, ok := loadVisiblePost(c, viewerID.(uint))
	if !ok {
		return
	}

	var comments []models.Comment
	err := database.DB.
		Where("post_id = ?", post.ID).
		Order("created_at DESC").
		Order("id DESC").
		Preload("User").
		Find(&comments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	commentResponses := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		commentResponses = append(commentResponses, CommentResponse{
			ID:        comment.ID,
			Author:    comment.User.Username,
			Content:   comment.Content,
			CreatedAt: comment.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, commentResponses)
}

// CreateComment godoc
// @Summary      Comment on a post
// @Description  Adds a comment to a post the authenticated user can view.
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path  int           true  "Post ID"
// @Param        input  body  CommentInput  true  "Comment text"
// @Success      201  {object}  CommentResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Post not available"
// @Router       /posts/{id}/comments [post]
func CreateComment(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	post, ok := loadVisiblePost(c, viewerID.(uint))
	if !ok {
		return
	}

	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment := models.Comment{
		PostID:  post.ID,
		UserID:  viewerID.(uint),
		Content: input.Content,
	}
	if err := database.DB.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	var author models.User
	if err := database.DB.First(&author, comment.UserID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load comment"})
		return
	}

	c.JSON(http.StatusCreated, CommentResponse{
		ID:        comment.ID,
		Author:    author.Username,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	})
}

// endregion

// region --- Helpers ---

// loadVisiblePost resolves the :id parameter and applies the feed-entry
// visibility rule. A nonexistent post and a post the viewer may not see
// produce the exact same response; on failure the response has already
// been written.
func loadVisiblePost(c *gin.Context, viewerID uint) (*models.Post, bool) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return nil, false
	}

	assembler := feed.NewAssembler(database.DB)
	post, err := assembler.LoadPost(c.Request.Context(), uint(postID))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not available"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve post"})
		return nil, false
	}

	guard := access.NewGuard(database.DB)
	visible, err := guard.CanViewFeedEntry(c.Request.Context(), viewerID, post)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve post"})
		return nil, false
	}
	if !visible {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not available"})
		return nil, false
	}

	return post, true
}

func buildPostResponse(post models.Post) PostResponse {
	return PostResponse{
		ID:           post.ID,
		Author:       post.Author.Username,
		AuthorName:   post.Author.FirstName + " " + post.Author.LastName,
		Content:      post.Content,
		Image:        post.Image,
		CommentCount: post.CommentCount,
		CreatedAt:    post.CreatedAt,
	}
}

// endregion
