package middleware

import (
	"context"
	"net/http"

	"proofing-app/internal/logging"

	"github.com/gin-gonic/gin"
)

// AlbumOwnerChecker reports whether an album belongs to a photographer.
type AlbumOwnerChecker interface {
	AlbumOwnedBy(ctx context.Context, albumID string, photographerID uint) (bool, error)
}

// RequireAlbumOwner rejects requests whose :album_id is not owned by the
// authenticated photographer. Must run after AuthMiddleware.
func RequireAlbumOwner(albums AlbumOwnerChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		photographerID := c.GetUint("photographer_id")
		albumID := c.Param("album_id")

		owned, err := albums.AlbumOwnedBy(c.Request.Context(), albumID, photographerID)
		if err != nil {
			logging.Logger.WithError(err).WithField("album_id", albumID).Error("album ownership check failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load album"})
			return
		}
		if !owned {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Album not found"})
			return
		}

		c.Next()
	}
}
