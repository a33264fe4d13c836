package orders

import (
	"time"

	"proofing-app/internal/domain/albums"
	"proofing-app/internal/domain/clients"
	"proofing-app/internal/domain/payments"
)

// Key identifies an order. Orders have no id of their own.
type Key struct {
	AlbumID  string `json:"album_id"`
	ClientID string `json:"client_id"`
}

// Record is one selection joined with what it points at. Album, Client and
// Photo are nil when the referenced row no longer resolves.
type Record struct {
	AlbumID   string
	ClientID  string
	PhotoID   string
	CreatedAt time.Time

	Album  *albums.Album
	Client *clients.Client
	Photo  *albums.Photo
}

type Order struct {
	Key

	AlbumName string          `json:"album_name"`
	Client    clients.Client  `json:"client"`
	Status    payments.Status `json:"status"`

	PhotoCount int       `json:"photo_count"`
	UnitPrice  int64     `json:"unit_price"`
	Total      int64     `json:"total"`
	LatestDate time.Time `json:"latest_date"`

	// Thumbnails only; PhotoCount does not depend on this list.
	Photos []albums.Photo `json:"photos"`
}
