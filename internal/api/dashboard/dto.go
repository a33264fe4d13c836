package dashboard

import (
	"time"

	"proofing-app/internal/domain/orders"
	"proofing-app/internal/domain/payments"
)

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type OrderPhoto struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	ThumbnailURL string `json:"thumbnail_url"`
}

type OrderClient struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Whatsapp string `json:"whatsapp,omitempty"`
}

type OrderDTO struct {
	AlbumID    string          `json:"album_id"`
	AlbumName  string          `json:"album_name"`
	Client     OrderClient     `json:"client"`
	Status     payments.Status `json:"status"`
	PhotoCount int             `json:"photo_count"`
	UnitPrice  int64           `json:"unit_price"`
	Total      int64           `json:"total"`
	LatestDate time.Time       `json:"latest_date"`
	Photos     []OrderPhoto    `json:"photos"`
}

type OrdersResponse struct {
	Summary orders.Summary `json:"summary"`
	Orders  []OrderDTO     `json:"orders"`
}

type AlbumDTO struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	PricePerPhoto int64     `json:"price_per_photo"`
	MaxSelections int       `json:"max_selections"`
	Active        bool      `json:"active"`
	GalleryURL    string    `json:"gallery_url"`
	CreatedAt     time.Time `json:"created_at"`
}

type StatusResponse struct {
	AlbumID   string          `json:"album_id"`
	ClientID  string          `json:"client_id"`
	Status    payments.Status `json:"status"`
	UpdatedAt time.Time       `json:"updated_at"`
}
