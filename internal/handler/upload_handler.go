package handler

import (
	"net/http"
	"path/filepath"

	"socialinsecurity/backend/internal/access"
	"socialinsecurity/backend/internal/config"
	"socialinsecurity/backend/internal/database"

	"github.com/gin-gonic/gin"
)

// ServeUpload godoc
// @Summary      Download an uploaded file
// @Description  Serves an uploaded image. Only the owning post's author and their mutual friends may download it; an unknown filename and an unauthorized one are answered identically.
// @Tags         uploads
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        filename  path  string  true  "Stored filename"
// @Success      200  {file}    file
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "File not available"
// @Router       /uploads/{filename} [get]
func ServeUpload(c *gin.Context) {
	viewerID, _ := c.Get("userID")

	// Base strips any path traversal before the name reaches the
	// filesystem or the database.
	filename := filepath.Base(c.Param("filename"))

	guard := access.NewGuard(database.DB)
	ok, err := guard.CanViewUpload(c.Request.Context(), viewerID.(uint), filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve file"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not available"})
		return
	}

	c.File(filepath.Join(config.AppConfig.UploadsDir, filename))
}
