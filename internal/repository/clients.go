package repository

import (
	"context"

	"proofing-app/internal/domain/clients"

	"gorm.io/gorm"
)

// MatchOrCreateClient looks the contact up by whatsapp OR email among the
// photographer's clients and reuses the match; otherwise it inserts a new
// client. A match keeps its stored name; keys it was missing are filled in.
func (r *Repository) MatchOrCreateClient(ctx context.Context, photographerID uint, contact clients.Contact) (*clients.Client, error) {
	contact = contact.Normalize()

	var out clients.Client
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		match := tx.Session(&gorm.Session{NewDB: true})
		switch {
		case contact.Email != "" && contact.Whatsapp != "":
			match = match.Where("email = ?", contact.Email).Or("whatsapp = ?", contact.Whatsapp)
		case contact.Email != "":
			match = match.Where("email = ?", contact.Email)
		default:
			match = match.Where("whatsapp = ?", contact.Whatsapp)
		}

		var found []clients.Client
		if err := tx.
			Where("photographer_id = ?", photographerID).
			Where(match).
			Order("created_at ASC").
			Limit(2).
			Find(&found).Error; err != nil {
			return err
		}

		switch len(found) {
		case 0:
			out = clients.Client{
				PhotographerID: photographerID,
				Name:           contact.Name,
				Email:          contact.Email,
				Whatsapp:       contact.Whatsapp,
			}
			return tx.Create(&out).Error
		case 1:
			out = found[0]
		default:
			return ErrAmbiguousClient
		}

		updates := map[string]interface{}{}
		if out.Email == "" && contact.Email != "" {
			updates["email"] = contact.Email
			out.Email = contact.Email
		}
		if out.Whatsapp == "" && contact.Whatsapp != "" {
			updates["whatsapp"] = contact.Whatsapp
			out.Whatsapp = contact.Whatsapp
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&clients.Client{}).Where("id = ?", out.ID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
