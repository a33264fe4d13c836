package clients

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a person who browses galleries and selects photos. Records are
// owned by the photographer whose gallery first identified them.
type Client struct {
	ID             string `gorm:"type:uuid;primaryKey" json:"id"`
	PhotographerID uint   `gorm:"not null;index" json:"-"`

	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"index" json:"email,omitempty"`
	Whatsapp string `gorm:"index" json:"whatsapp,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Contact is what a visitor types into the identification form.
type Contact struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	Whatsapp string `json:"whatsapp"`
}

// Normalize trims the fields and lowercases the email; whatsapp keeps only
// digits and a leading plus.
func (c Contact) Normalize() Contact {
	out := Contact{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.ToLower(strings.TrimSpace(c.Email)),
	}
	var b strings.Builder
	for i, r := range strings.TrimSpace(c.Whatsapp) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	out.Whatsapp = b.String()
	if out.Whatsapp == "+" {
		out.Whatsapp = ""
	}
	return out
}

// HasKey reports whether the contact carries at least one lookup key.
func (c Contact) HasKey() bool {
	return c.Email != "" || c.Whatsapp != ""
}
