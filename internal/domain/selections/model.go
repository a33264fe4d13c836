package selections

import (
	"time"

	"proofing-app/internal/domain/albums"
	"proofing-app/internal/domain/clients"
)

// Selection is the fact that a client chose a photo in an album. Rows for one
// (album, client) pair are always replaced together.
type Selection struct {
	AlbumID  string `gorm:"type:uuid;primaryKey;index:idx_selections_album_client,priority:1" json:"album_id"`
	ClientID string `gorm:"type:uuid;primaryKey;index:idx_selections_album_client,priority:2" json:"client_id"`
	PhotoID  string `gorm:"type:uuid;primaryKey" json:"photo_id"`

	Album  *albums.Album   `gorm:"foreignKey:AlbumID;constraint:OnDelete:CASCADE;" json:"-"`
	Client *clients.Client `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE;" json:"-"`
	Photo  *albums.Photo   `gorm:"foreignKey:PhotoID;constraint:OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
