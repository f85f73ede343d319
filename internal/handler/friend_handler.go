package handler

import (
	"net/http"

	"socialinsecurity/backend/internal/database"
	"socialinsecurity/backend/internal/models"
	"socialinsecurity/backend/internal/relation"

	"github.com/gin-gonic/gin"
)

// FriendRequestInput defines the structure for sending a friend request.
type FriendRequestInput struct {
	Username string `json:"username" binding:"required" example:"bob"`
}

// FriendResponse defines the structure for a mutual friend entry.
type FriendResponse struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ListFriends godoc
// @Summary      List friends
// @Description  Lists the authenticated user's mutual friends. One-directional (pending) requests are never listed.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   FriendResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /friends [get]
func ListFriends(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	graph := relation.NewGraph(database.DB)
	friendIDs, err := graph.MutualFriendIDs(c.Request.Context(), viewerID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friends"})
		return
	}

	friendResponses := []FriendResponse{}
	if len(friendIDs) > 0 {
		var friends []models.User
		if err := database.DB.Where("id IN ?", friendIDs).Order("username").Find(&friends).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friends"})
			return
		}
		for _, f := range friends {
			friendResponses = append(friendResponses, FriendResponse{
				Username:  f.Username,
				FirstName: f.FirstName,
				LastName:  f.LastName,
			})
		}
	}

	c.JSON(http.StatusOK, friendResponses)
}

// SendFriendRequest godoc
// @Summary      Send friend request
// @Description  Sends a friend request to the named user. The response is intentionally identical whether the target exists, the request is a duplicate, or the request completed a mutual friendship; only a self request or an already-mutual friendship produce distinct messages.
// @Tags         friendship
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body FriendRequestInput true "Target username"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /friends [post]
func SendFriendRequest(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var input FriendRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	requests := relation.NewRequests(database.DB)
	outcome, err := requests.Submit(c.Request.Context(), viewerID.(uint), input.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process friend request"})
		return
	}

	// Always 200 with the outcome's message; the status code must not
	// branch on what the protocol found.
	c.JSON(http.StatusOK, MessageResponse{Message: outcome.Message()})
}
