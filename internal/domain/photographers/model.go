package photographers

import "time"

const RolePhotographer = "photographer"

type Photographer struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string
	Email        string `gorm:"not null;uniqueIndex:idx_photographers_email"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"type:varchar(20);not null;default:'photographer'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
