package payments

import "time"

// PaymentStatus is the ledger row for one (album, client) order. The
// composite primary key makes every write an upsert.
type PaymentStatus struct {
	AlbumID  string `gorm:"type:uuid;primaryKey" json:"album_id"`
	ClientID string `gorm:"type:uuid;primaryKey" json:"client_id"`
	Status   Status `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`

	UpdatedBy uint      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PaymentStatus) TableName() string {
	return "payment_status"
}
