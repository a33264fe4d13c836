package gallery

import (
	"proofing-app/internal/domain/payments"
	"proofing-app/internal/domain/selections"
	"proofing-app/internal/session"
)

// ---------- requests

type IdentifyRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	Whatsapp string `json:"whatsapp"`
}

type ToggleRequest struct {
	PhotoID string `json:"photo_id" binding:"required"`
}

// ---------- responses

type AlbumDTO struct {
	Name          string `json:"name"`
	PricePerPhoto int64  `json:"price_per_photo"`
	MaxSelections int    `json:"max_selections"`
	PhotoCount    int    `json:"photo_count"`
}

type PhotoDTO struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OrderIndex   int    `json:"order_index"`
	ThumbnailURL string `json:"thumbnail_url"`
	Selected     bool   `json:"selected"`
}

type VisitDTO struct {
	State         selections.State  `json:"state"`
	Client        *session.Identity `json:"client,omitempty"`
	Selected      []string          `json:"selected"`
	MaxSelections int               `json:"max_selections"`
	Remaining     int               `json:"remaining"`
	PaymentStatus payments.Status   `json:"payment_status"`
	Capabilities  []string          `json:"capabilities"`
	Total         int64             `json:"total"`
}

type GalleryResponse struct {
	Album  AlbumDTO   `json:"album"`
	Photos []PhotoDTO `json:"photos"`
	Visit  VisitDTO   `json:"visit"`
}

type ToggleResponse struct {
	PhotoID  string   `json:"photo_id"`
	Selected bool     `json:"selected"`
	Visit    VisitDTO `json:"visit"`
}

type OriginalURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}
