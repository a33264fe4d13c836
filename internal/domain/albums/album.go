package albums

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Album struct {
	ID             string `gorm:"type:uuid;primaryKey" json:"id"`
	PhotographerID uint   `gorm:"not null;index" json:"-"`

	Name string `gorm:"not null" json:"name"`

	// Minor currency units (cents).
	PricePerPhoto int64 `gorm:"not null;default:0" json:"price_per_photo"`
	MaxSelections int   `gorm:"not null;default:0" json:"max_selections"`

	ShareToken string `gorm:"not null;uniqueIndex:idx_albums_share_token" json:"share_token"`
	Active     bool   `gorm:"not null;default:true" json:"active"`

	Photos []Photo `gorm:"foreignKey:AlbumID;constraint:OnDelete:CASCADE;" json:"photos,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Album) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.ShareToken == "" {
		a.ShareToken = NewShareToken()
	}
	return nil
}

// OwnedBy reports whether the album belongs to the photographer.
func (a Album) OwnedBy(photographerID uint) bool {
	return photographerID != 0 && a.PhotographerID == photographerID
}
