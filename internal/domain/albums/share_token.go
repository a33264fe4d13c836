package albums

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
	Share token helpers
	-------------------
	- The share token is the ONLY album identifier exposed publicly.
	- Tokens are random; they never encode the album id.
*/

// NewShareToken returns a URL-safe opaque token.
// Example: "9f2c4e0b7a1d4c55b8e3f0a6d2c1b7e4"
func NewShareToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// EnsureShareToken gives a legacy album without a token a fresh one and
// persists only that column.
func EnsureShareToken(db *gorm.DB, album *Album) (string, error) {
	if album == nil {
		return "", fmt.Errorf("album is nil")
	}
	if db == nil {
		return "", fmt.Errorf("db is nil")
	}

	if strings.TrimSpace(album.ShareToken) != "" {
		return album.ShareToken, nil
	}
	if album.ID == "" {
		return "", fmt.Errorf("album ID missing (call EnsureShareToken after Create)")
	}

	token := NewShareToken()
	if err := db.
		Model(&Album{}).
		Where("id = ?", album.ID).
		Update("share_token", token).Error; err != nil {
		return "", err
	}

	album.ShareToken = token
	return token, nil
}

// GalleryURL builds the public gallery link for a share token.
// Example: ("https://proof.example.com", "9f2c...") -> "https://proof.example.com/g/9f2c..."
func GalleryURL(base, token string) string {
	return strings.TrimRight(base, "/") + "/g/" + token
}
