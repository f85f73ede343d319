package handler

import (
	"errors"
	"net/http"
	"time"

	"socialinsecurity/backend/internal/access"
	"socialinsecurity/backend/internal/database"
	"socialinsecurity/backend/internal/models"
	"socialinsecurity/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	FirstName       string `json:"first_name" binding:"required" example:"Alice"`
	LastName        string `json:"last_name" binding:"required" example:"Anderson"`
	Username        string `json:"username" binding:"required" example:"alice"`
	Password        string `json:"password" binding:"required,min=8" example:"password123"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password" example:"password123"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Username string `json:"username" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// ProfileInput defines the editable profile fields.
type ProfileInput struct {
	Education   string `json:"education" example:"MSc"`
	Employment  string `json:"employment" example:"Engineer"`
	Music       string `json:"music" example:"Jazz"`
	Movie       string `json:"movie" example:"Metropolis"`
	Nationality string `json:"nationality" example:"Norwegian"`
	Birthday    string `json:"birthday" example:"1990-01-31"`
}

// ProfileResponse defines the structure for a user's profile.
type ProfileResponse struct {
	Username    string `json:"username"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Education   string `json:"education"`
	Employment  string `json:"employment"`
	Music       string `json:"music"`
	Movie       string `json:"movie"`
	Nationality string `json:"nationality"`
	Birthday    string `json:"birthday,omitempty"`
}

// MessageResponse represents a generic message response.
type MessageResponse struct {
	Message string `json:"message" example:"Friend request sent."`
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// endregion

// region --- Auth Handlers ---

// RegisterUser godoc
// @Summary      Register a new user
// @Description  Creates a new user and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  map[string]string "{"token": "..."}"
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func RegisterUser(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The vague wording is deliberate: registration must not become an
	// oracle for which usernames exist.
	var existingUser models.User
	if err := database.DB.Where("username = ?", input.Username).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Could not register a user with that username."})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Username:     input.Username,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: string(hashedPassword),
	}
	if err := database.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token})
}

// LoginUser godoc
// @Summary      Log in a user
// @Description  Authenticates a user with username and password, and returns a new token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  map[string]string "{"token": "..."}"
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      500  {object}  ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Unknown user and wrong password answer identically.
	var user models.User
	if err := database.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sorry, invalid login."})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sorry, invalid login."})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// endregion

// region --- Profile Handlers ---

// GetMe godoc
// @Summary      Get current user's profile
// @Description  Retrieves the profile of the currently authenticated user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ProfileResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [get]
func GetMe(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var user models.User
	if err := database.DB.First(&user, viewerID.(uint)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, buildProfileResponse(user))
}

// GetProfile godoc
// @Summary      Get a user's profile
// @Description  Retrieves the profile of the named user. Only the user themselves and their mutual friends may view it; any other request is answered as if the profile did not exist.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username  path  string  true  "Username"
// @Success      200  {object}  ProfileResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Profile not available"
// @Router       /users/{username}/profile [get]
func GetProfile(c *gin.Context) {
	viewerID, _ := c.Get("userID")
	username := c.Param("username")

	// "No such user" and "not a mutual friend" must produce the exact
	// same response.
	var subject models.User
	err := database.DB.Where("username = ?", username).First(&subject).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not available"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
		return
	}

	guard := access.NewGuard(database.DB)
	ok, err := guard.CanViewProfile(c.Request.Context(), viewerID.(uint), subject.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not available"})
		return
	}

	c.JSON(http.StatusOK, buildProfileResponse(subject))
}

// UpdateProfile godoc
// @Summary      Update current user's profile
// @Description  Updates the editable profile fields of the authenticated user.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ProfileInput true "Profile fields"
// @Success      200  {object}  ProfileResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users/me/profile [put]
func UpdateProfile(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var birthday *time.Time
	if input.Birthday != "" {
		parsed, err := time.Parse("2006-01-02", input.Birthday)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Birthday must be formatted as YYYY-MM-DD"})
			return
		}
		birthday = &parsed
	}

	var user models.User
	if err := database.DB.First(&user, viewerID.(uint)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	updates := map[string]interface{}{
		"education":   input.Education,
		"employment":  input.Employment,
		"music":       input.Music,
		"movie":       input.Movie,
		"nationality": input.Nationality,
		"birthday":    birthday,
	}
	if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, buildProfileResponse(user))
}

// endregion

// region --- Helpers ---

func buildProfileResponse(user models.User) ProfileResponse {
	resp := ProfileResponse{
		Username:    user.Username,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Education:   user.Education,
		Employment:  user.Employment,
		Music:       user.Music,
		Movie:       user.Movie,
		Nationality: user.Nationality,
	}
	if user.Birthday != nil {
		resp.Birthday = user.Birthday.Format("2006-01-02")
	}
	return resp
}

// endregion
