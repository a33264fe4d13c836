package albums

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Photo struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	AlbumID string `gorm:"type:uuid;not null;index:idx_photos_album_order,priority:1" json:"album_id"`

	// Opaque blob-store keys.
	OriginalKey  string `gorm:"not null" json:"-"`
	ThumbnailKey string `gorm:"not null" json:"-"`

	Filename   string `json:"filename"`
	OrderIndex int    `gorm:"not null;default:0;index:idx_photos_album_order,priority:2" json:"order_index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Photo) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
